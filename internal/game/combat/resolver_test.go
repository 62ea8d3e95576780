package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

func TestResolver_PlayerHit(t *testing.T) {
	xp := &recordingAwarder{}
	// hit roll 40 < 41, crit roll 99 > 5, damage roll → min
	r := NewResolver(rng.NewSequence(0.40, 0.99, 0), ExponentialStrategy{}, xp)

	player := newTestCombatant("Hero", 20, 5, 4, 8, 100)
	enemy := newTestCombatant("Goblin", 8, 10, 1, 2, 50)

	out := r.Attack(model.SidePlayer, player, enemy, model.AttackStab, Modifiers{})

	assert.True(t, out.Hit)
	assert.False(t, out.Crit)
	assert.Equal(t, 4, out.Damage)
	assert.Equal(t, 46.0, out.Defender.CurrentHealth)
	assert.Equal(t, model.LogPlayerAttack, out.Entry.Kind)
	assert.Equal(t, 4, out.Entry.Damage)
	assert.Contains(t, out.Entry.Message, "Goblin")
	require.Len(t, xp.calls, 1)
	assert.Equal(t, xpCall{Key: model.SkillStab, Damage: 4, Hit: true}, xp.calls[0])
}

func TestResolver_PlayerMiss(t *testing.T) {
	xp := &recordingAwarder{}
	r := NewResolver(rng.NewSequence(0.5), ExponentialStrategy{}, xp)

	player := newTestCombatant("Hero", 20, 5, 4, 8, 100)
	enemy := newTestCombatant("Goblin", 8, 10, 1, 2, 50)

	out := r.Attack(model.SidePlayer, player, enemy, model.AttackStab, Modifiers{})

	assert.False(t, out.Hit)
	assert.Zero(t, out.Damage)
	assert.Equal(t, enemy, out.Defender, "a miss leaves health unchanged")
	assert.Equal(t, model.LogPlayerMiss, out.Entry.Kind)
	assert.Equal(t, []xpCall{{Key: model.SkillStab}}, xp.calls)
}

func TestResolver_PlayerCritWithDamageBuff(t *testing.T) {
	r := NewResolver(rng.NewSequence(0, 0, 0), ExponentialStrategy{}, nil)

	player := newTestCombatant("Hero", 20, 5, 4, 8, 100)
	enemy := newTestCombatant("Goblin", 8, 10, 1, 2, 50)

	out := r.Attack(model.SidePlayer, player, enemy, model.AttackStab, Modifiers{Damage: 1.5})

	assert.True(t, out.Crit)
	assert.Equal(t, 9, out.Damage) // 4 × 150% = 6, × 1.5 = 9
	assert.Equal(t, model.LogPlayerCrit, out.Entry.Kind)
}

func TestResolver_HealthFlooredAtZero(t *testing.T) {
	r := NewResolver(rng.NewSequence(0, 0.99, 0.99), ExponentialStrategy{}, nil)

	player := newTestCombatant("Hero", 50, 5, 100, 100, 100)
	enemy := newTestCombatant("Slime", 1, 1, 1, 1, 10)

	out := r.Attack(model.SidePlayer, player, enemy, model.AttackSlash, Modifiers{})

	assert.Equal(t, 100, out.Damage)
	assert.Equal(t, 0.0, out.Defender.CurrentHealth)
	assert.False(t, out.Defender.Alive())
}

func TestResolver_EnemyActionsTrainDefenses(t *testing.T) {
	xp := &recordingAwarder{}
	// first attack misses (roll 99), second hits (roll 0, no crit 0.99, damage 0)
	r := NewResolver(rng.NewSequence(0.99, 0, 0.99, 0), ExponentialStrategy{}, xp)

	enemy := newTestCombatant("Wolf", 12, 6, 3, 5, 70)
	player := newTestCombatant("Hero", 10, 12, 1, 2, 100)

	miss := r.Attack(model.SideEnemy, enemy, player, model.AttackFire, Modifiers{})
	assert.False(t, miss.Hit, "enemy attacks never use the player's attack type")
	assert.Equal(t, model.LogEnemyMiss, miss.Entry.Kind)

	hit := r.Attack(model.SideEnemy, enemy, player, model.AttackNone, Modifiers{Damage: 10})
	assert.True(t, hit.Hit)
	assert.Equal(t, 3, hit.Damage, "player modifiers do not apply to enemy attacks")
	assert.Equal(t, model.LogEnemyAttack, hit.Entry.Kind)

	assert.Equal(t, []string{progression.ActionDodge, progression.ActionDamageTaken}, xp.keys())
}

func TestRatioStrategy(t *testing.T) {
	// ratio 2.0 → 90% hit; roll 0.5 hits; damage (20 - 5) × 1.03
	r := NewResolver(rng.NewSequence(0.5, 0.99, 0.6), RatioStrategy{}, nil)

	player := newTestCombatant("Hero", 20, 5, 1, 1, 100)
	enemy := newTestCombatant("Goblin", 8, 10, 1, 2, 50)

	out := r.Attack(model.SidePlayer, player, enemy, model.AttackFire, Modifiers{})
	require.True(t, out.Hit)
	assert.Equal(t, 15, out.Damage)
}

func TestStrategyByName(t *testing.T) {
	s, err := StrategyByName("")
	require.NoError(t, err)
	assert.Equal(t, StrategyExponential, s.Name())

	s, err = StrategyByName(StrategyRatio)
	require.NoError(t, err)
	assert.Equal(t, StrategyRatio, s.Name())

	_, err = StrategyByName("dice")
	assert.Error(t, err)
}
