package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttackType(t *testing.T) {
	tests := []struct {
		in      string
		want    AttackType
		wantErr bool
	}{
		{"stab", AttackStab, false},
		{"FIRE", AttackFire, false},
		{"Archery", AttackArchery, false},
		{"none", AttackNone, true},
		{"kick", AttackNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAttackType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAttackType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttackType_Properties(t *testing.T) {
	for _, at := range AttackTypes() {
		assert.NotEmpty(t, at.Skill(), at.String())
		assert.Equal(t, at.Category() == CategoryMagic, at.IsMagic(), at.String())
		assert.NotEmpty(t, at.PerLevelBonus(), at.String())
	}
	assert.Empty(t, AttackNone.Skill())
	assert.Equal(t, "none", AttackNone.String())
	assert.Equal(t, Stat("SLASH_MIN_DAMAGE"), AttackTypeMinDamage(AttackSlash))
	assert.Equal(t, Stat("ICE_MAX_DAMAGE"), AttackTypeMaxDamage(AttackIce))
}

func TestAttackType_JSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		AT AttackType `json:"at"`
	}{AttackCrush})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"crush"}`, string(raw))

	var back struct {
		AT AttackType `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"lightning"}`), &back))
	assert.Equal(t, AttackLightning, back.AT)
}

func TestSkillSet(t *testing.T) {
	set := NewSkillSet()
	assert.Equal(t, 1, set.Level(SkillStab))
	assert.Equal(t, 1, set.Level("juggling"))

	set.Set(SkillFire, Skill{Level: 12, XP: 3000})
	set.Set("juggling", Skill{Level: 50})
	assert.Equal(t, 12, set.Level(SkillFire))
	assert.Equal(t, 1, set.Level("juggling"))

	clone := set.Clone()
	clone.Set(SkillFire, Skill{Level: 13})
	assert.Equal(t, 12, set.Level(SkillFire), "clone is deep")

	levels := set.Levels()
	assert.Len(t, levels, 15)
	assert.Equal(t, 12, levels[SkillFire])
}

func TestSkillSet_Normalize(t *testing.T) {
	raw := SkillSet{
		CategoryMelee:   {SkillStab: {Level: 150, XP: -5}},
		CategoryDefense: {SkillFire: {Level: 40}}, // wrong category
	}

	n := raw.Normalize()
	assert.Equal(t, Skill{Level: MaxSkillLevel, XP: 0}, n.Get(SkillStab))
	assert.Equal(t, 1, n.Level(SkillFire))
	assert.Equal(t, 1, n.Level(SkillHP))
}

func TestBattleLog_AppendDoesNotAlias(t *testing.T) {
	base := BattleLog{}.Append(LogEntry{Kind: LogVictory})
	a := base.Append(LogEntry{Kind: LogLoot})
	b := base.Append(LogEntry{Kind: LogDefeat})

	assert.Len(t, base, 1)
	assert.Equal(t, LogLoot, a[1].Kind)
	assert.Equal(t, LogDefeat, b[1].Kind)

	assert.Len(t, a.Tail(1), 1)
	assert.Equal(t, LogLoot, a.Tail(1)[0].Kind)
	assert.Len(t, a.Tail(10), 2)
}

func TestCombatant_WithHealth(t *testing.T) {
	c := Combatant{Name: "Hero", CurrentHealth: 50, MaxHealth: 100}

	assert.Equal(t, 100.0, c.WithHealth(250).CurrentHealth)
	assert.Equal(t, 0.0, c.WithHealth(-3).CurrentHealth)
	assert.False(t, c.WithHealth(0).Alive())
	assert.InDelta(t, 50.0, c.HealthPercent(), 1e-9)
	assert.Equal(t, 50.0, c.CurrentHealth, "receiver unchanged")
}

func TestEquipment_TotalStats(t *testing.T) {
	eq := Equipment{
		SlotWeapon: {Name: "Sword", Stats: StatBlock{StatAttack: 5, StatMinDamage: 1}},
		SlotHelmet: {Name: "Cap", Stats: StatBlock{StatDefense: 2}},
		SlotRing:   nil,
	}

	total := eq.TotalStats()
	assert.Equal(t, 5.0, total.Get(StatAttack))
	assert.Equal(t, 2.0, total.Get(StatDefense))
	assert.Equal(t, 1.0, total.Get(StatMinDamage))
	assert.Len(t, eq.Items(), 2)
	assert.Equal(t, "Sword", eq.Items()[0].Name)
}

func TestRarity(t *testing.T) {
	for _, r := range Rarities() {
		back, err := ParseRarity(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, back)
	}
	_, err := ParseRarity("mythic")
	assert.ErrorIs(t, err, ErrUnknownRarity)
}

func TestAchievements_Normalize(t *testing.T) {
	a := Achievements{Kills: map[string]int{"goblin": -2}}.Normalize()
	assert.Equal(t, 0, a.Kills["goblin"])
	assert.NotNil(t, a.Unlocked)
	assert.Equal(t, "goblin_10", UnlockKey("goblin", 10))
}
