package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/model"
)

func TestXPForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int64
	}{
		{0, 0},
		{1, 0},
		{2, 20},
		{10, 650},
		{11, 650 + 11*25},
		{12, 650 + 11*25 + 12*25},
		{99, 123025},
		{150, 123025}, // clamped to 99
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, XPForLevel(tt.level), "XPForLevel(%d)", tt.level)
	}
}

func TestExperienceTableMonotonic(t *testing.T) {
	for lvl := 2; lvl <= MaxLevel; lvl++ {
		require.Greater(t, ExperienceTable[lvl], ExperienceTable[lvl-1], "level %d", lvl)
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp    int64
		start int
		want  int
	}{
		{0, 1, 1},
		{19, 1, 1},
		{20, 1, 2},
		{649, 1, 9},
		{650, 1, 10},
		{650, 5, 10},
		{123025, 1, 99},
		{1 << 40, 1, 99},
		{100, 50, 4}, // start above the true level scans down
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp, tt.start), "LevelForXP(%d, %d)", tt.xp, tt.start)
	}
}

func TestAddXP_ZeroNeverChangesLevel(t *testing.T) {
	e := NewEngine(nil, 1)

	_, leveled := e.AddXP(model.SkillStab, 0)
	assert.False(t, leveled)
	assert.Equal(t, 1, e.Level(model.SkillStab))
	assert.Equal(t, int64(0), e.Skills().Get(model.SkillStab).XP)
}

func TestAddXP_CrossingOneThresholdIsOneLevel(t *testing.T) {
	e := NewEngine(nil, 1)

	_, leveled := e.AddXP(model.SkillSlash, 19)
	require.False(t, leveled)

	lu, leveled := e.AddXP(model.SkillSlash, 1)
	require.True(t, leveled)
	assert.Equal(t, LevelUp{Skill: model.SkillSlash, From: 1, To: 2}, lu)
}

func TestAddXP_MultiLevelJumpAndCap(t *testing.T) {
	e := NewEngine(nil, 1)

	lu, leveled := e.AddXP(model.SkillFire, 650)
	require.True(t, leveled)
	assert.Equal(t, 10, lu.To)

	e.AddXP(model.SkillFire, 10_000_000)
	assert.Equal(t, MaxLevel, e.Level(model.SkillFire))

	_, leveled = e.AddXP(model.SkillFire, 10_000_000)
	assert.False(t, leveled, "no level change beyond the cap")
	assert.Equal(t, MaxLevel, e.Level(model.SkillFire))
}

func TestNewEngine_LevelFollowsStoredXP(t *testing.T) {
	stored := model.NewSkillSet()
	stored.Set(model.SkillStab, model.Skill{Level: 50, XP: 0})
	stored.Set(model.SkillFire, model.Skill{Level: 1, XP: 5000})

	e := NewEngine(stored, 1)
	assert.Equal(t, 1, e.Level(model.SkillStab))
	assert.Equal(t, LevelForXP(5000, 1), e.Level(model.SkillFire))
	assert.Greater(t, e.Level(model.SkillFire), 1)

	_, leveled := e.AddXP(model.SkillStab, 1)
	assert.False(t, leveled, "one XP at level 1 is no level change")
	assert.Equal(t, 1, e.Level(model.SkillStab))

	e.Replace(stored)
	assert.Equal(t, 1, e.Level(model.SkillStab))
	assert.Equal(t, LevelForXP(5000, 1), e.Level(model.SkillFire))
}

func TestXPFor(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		damage int
		crit   bool
		hit    bool
		want   int64
	}{
		{"attack hit", model.SkillStab, 10, false, true, 4 + 5},
		{"attack crit", model.SkillStab, 10, true, true, 4 + 5 + 5},
		{"attack miss", model.SkillStab, 0, false, false, 1},
		{"damage taken", ActionDamageTaken, 9, false, true, 2 + 3},
		{"dodge", ActionDodge, 0, false, true, 3},
		{"unknown", "dance", 10, false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPFor(tt.key, tt.damage, tt.crit, tt.hit))
		})
	}
}

func TestAwardXP_SkillMapping(t *testing.T) {
	e := NewEngine(nil, 1)

	a := e.AwardXP(model.SkillArchery, 4, false, true)
	assert.Equal(t, []string{model.SkillArchery}, a.SkillsAwarded)
	assert.Equal(t, int64(6), a.XPAwarded)

	a = e.AwardXP(model.SkillArchery, 4, true, true)
	assert.ElementsMatch(t, []string{model.SkillArchery, model.SkillCritChance, model.SkillCritDamage}, a.SkillsAwarded)

	a = e.AwardXP(ActionDamageTaken, 3, false, true)
	assert.ElementsMatch(t, []string{model.SkillArmor, model.SkillBlock, model.SkillHP}, a.SkillsAwarded)

	a = e.AwardXP("dance", 3, false, true)
	assert.Empty(t, a.SkillsAwarded)
	assert.Zero(t, a.XPAwarded)
}

func TestAwardXP_Multiplier(t *testing.T) {
	e := NewEngine(nil, 2)

	a := e.AwardXP(ActionDodge, 0, false, true)
	assert.Equal(t, int64(6), a.XPAwarded)
	assert.Equal(t, int64(6), e.Skills().Get(model.SkillDodge).XP)
}

func TestAwardXP_ReportsLevelUp(t *testing.T) {
	skills := model.NewSkillSet()
	skills.Set(model.SkillCrush, model.Skill{Level: 1, XP: 15})
	e := NewEngine(skills, 1)

	a := e.AwardXP(model.SkillCrush, 2, false, true) // 4 + 1 = 5 xp → 20
	require.True(t, a.LeveledUp)
	require.Len(t, a.LevelUps, 1)
	assert.Equal(t, 2, a.LevelUps[0].To)
}

func TestBreakpoints(t *testing.T) {
	assert.Empty(t, Breakpoints(model.SkillStab, 9))

	met := Breakpoints(model.SkillStab, 50)
	require.Len(t, met, 3)
	assert.Equal(t, []int{10, 25, 50}, []int{met[0].Level, met[1].Level, met[2].Level})
	assert.Contains(t, met[0].Description, "stab")

	all := AllBreakpoints(model.SkillHeal, 99)
	require.Len(t, all, 5)
	for _, m := range all {
		assert.True(t, m.Met)
	}

	assert.Nil(t, AllBreakpoints("unknown", 99))
}
