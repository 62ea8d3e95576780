package combat

import (
	"fmt"

	"github.com/alper6161/idle-chaos/internal/model"
)

// Progress bounds of the per-side attack timers.
const (
	ProgressFull = 100.0

	// DefaultProgressPerTick is added per tick for attack speed 1.0.
	DefaultProgressPerTick = 2.0
)

// Battle advances encounters. Every method takes a state and returns a new one;
// the input state is never modified.
type Battle struct {
	resolver        *Resolver
	progressPerTick float64
}

// NewBattle creates a Battle. progressPerTick <= 0 selects DefaultProgressPerTick.
func NewBattle(resolver *Resolver, progressPerTick float64) *Battle {
	if progressPerTick <= 0 {
		progressPerTick = DefaultProgressPerTick
	}
	return &Battle{resolver: resolver, progressPerTick: progressPerTick}
}

// Start returns a fresh in-battle state against enemy.
func (b *Battle) Start(enemyID string, at model.AttackType, player, enemy model.Combatant) model.BattleState {
	return model.BattleState{
		EnemyID:    enemyID,
		AttackType: at,
		Player:     player,
		Enemy:      enemy,
		Phase:      model.PhaseInBattle,
	}
}

// Tick advances both attack timers. A side whose timer reaches 100 attacks and
// its timer resets; the other timer is untouched. The player acts first when both
// fill on the same tick, and nothing is resolved after either side dies.
func (b *Battle) Tick(s model.BattleState, mods Modifiers) (model.BattleState, []AttackOutcome) {
	if s.Phase != model.PhaseInBattle {
		return s, nil
	}

	s.PlayerProgress = min(ProgressFull, s.PlayerProgress+s.Player.AttackSpeed*mul(mods.Speed)*b.progressPerTick)
	s.EnemyProgress = min(ProgressFull, s.EnemyProgress+s.Enemy.AttackSpeed*b.progressPerTick)

	var outcomes []AttackOutcome

	if s.PlayerProgress >= ProgressFull {
		out := b.resolver.Attack(model.SidePlayer, s.Player, s.Enemy, s.AttackType, mods)
		s.Enemy = out.Defender
		s.Log = s.Log.Append(out.Entry)
		s.PlayerProgress = 0
		outcomes = append(outcomes, out)
		if s = b.checkEnd(s); s.Over() {
			return s, outcomes
		}
	}

	if s.EnemyProgress >= ProgressFull {
		out := b.resolver.Attack(model.SideEnemy, s.Enemy, s.Player, model.AttackNone, Modifiers{})
		s.Player = out.Defender
		s.Log = s.Log.Append(out.Entry)
		s.EnemyProgress = 0
		outcomes = append(outcomes, out)
		s = b.checkEnd(s)
	}

	return s, outcomes
}

// checkEnd resolves the encounter when either side has no health left.
func (b *Battle) checkEnd(s model.BattleState) model.BattleState {
	switch {
	case !s.Enemy.Alive():
		s.Phase = model.PhaseResolved
		s.Winner = model.WinnerPlayer
		s.Log = s.Log.Append(model.LogEntry{
			Kind:    model.LogVictory,
			Message: fmt.Sprintf("You defeated %s!", s.Enemy.Name),
			At:      b.resolver.now(),
		})
	case !s.Player.Alive():
		s.Phase = model.PhaseResolved
		s.Winner = model.WinnerEnemy
		s.Log = s.Log.Append(model.LogEntry{
			Kind:    model.LogDefeat,
			Message: fmt.Sprintf("You were defeated by %s.", s.Enemy.Name),
			At:      b.resolver.now(),
		})
	}
	return s
}

// Flee ends an ongoing encounter without a winner.
func (b *Battle) Flee(s model.BattleState) model.BattleState {
	if s.Phase != model.PhaseInBattle {
		return s
	}
	s.Phase = model.PhaseIdle
	s.PlayerProgress, s.EnemyProgress = 0, 0
	s.Log = s.Log.Append(model.LogEntry{
		Kind:    model.LogPlayerFlee,
		Message: fmt.Sprintf("You fled from %s.", s.Enemy.Name),
		At:      b.resolver.now(),
	})
	return s
}

// Heal restores player health (potions) and logs msg.
func (b *Battle) Heal(s model.BattleState, amount float64, msg string) model.BattleState {
	s.Player = s.Player.WithHealth(s.Player.CurrentHealth + amount)
	s.Log = s.Log.Append(model.LogEntry{Kind: model.LogPotion, Message: msg, At: b.resolver.now()})
	return s
}

// Note appends an informational log entry.
func (b *Battle) Note(s model.BattleState, kind model.LogKind, msg string) model.BattleState {
	s.Log = s.Log.Append(model.LogEntry{Kind: kind, Message: msg, At: b.resolver.now()})
	return s
}

// Refresh replaces the player's stats (equipment/skill changes) keeping current
// health, clamped to the new maximum.
func (b *Battle) Refresh(s model.BattleState, player model.Combatant) model.BattleState {
	s.Player = player.WithHealth(s.Player.CurrentHealth)
	return s
}
