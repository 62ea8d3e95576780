package combat

import (
	"fmt"
	"math"
	"time"

	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

// XPAwarder receives the experience of every resolved action.
type XPAwarder interface {
	AwardXP(key string, damage int, crit, hit bool) progression.Award
}

// Modifiers are buff multipliers applied to the player's side of an exchange.
// Zero values mean ×1.
type Modifiers struct {
	Damage float64
	Crit   float64
	Speed  float64
}

func mul(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// AttackOutcome is the result of one attack.
type AttackOutcome struct {
	Side     model.Side
	Hit      bool
	Crit     bool
	Damage   int
	Defender model.Combatant
	Entry    model.LogEntry
	XP       progression.Award
}

// Resolver resolves single attacks. It is not safe for concurrent use; a session
// owns one resolver and drives it from a single goroutine.
type Resolver struct {
	rng      rng.Source
	strategy Strategy
	xp       XPAwarder
	now      func() time.Time
}

// NewResolver creates a resolver. xp may be nil (no experience is awarded).
func NewResolver(src rng.Source, strategy Strategy, xp XPAwarder) *Resolver {
	if src == nil {
		src = rng.Default()
	}
	if strategy == nil {
		strategy = ExponentialStrategy{}
	}
	return &Resolver{rng: src, strategy: strategy, xp: xp, now: time.Now}
}

// SetClock overrides the log timestamp source.
func (r *Resolver) SetClock(now func() time.Time) { r.now = now }

// Strategy returns the hit/damage model in use.
func (r *Resolver) Strategy() Strategy { return r.strategy }

// Attack resolves one attack of side. at is the player's attack type; it is
// ignored for enemy attacks. mods apply only when the player attacks.
func (r *Resolver) Attack(side model.Side, attacker, defender model.Combatant, at model.AttackType, mods Modifiers) AttackOutcome {
	out := AttackOutcome{Side: side, Defender: defender}
	if side == model.SideEnemy {
		at = model.AttackNone
		mods = Modifiers{}
	}

	chance := r.strategy.HitChance(attacker, defender, at)
	if r.rng.Float64()*100 >= float64(chance) {
		out.Entry = r.entry(side, "miss", 0, missMessage(side, attacker, defender))
		out.XP = r.award(side, at, 0, false, false)
		return out
	}

	out.Hit = true
	critChance := min(attacker.CritChance*mul(mods.Crit), model.MaxCritChance)
	out.Crit = RollCrit(r.rng, critChance)

	dmg := r.strategy.RollDamage(r.rng, attacker, defender)
	if out.Crit {
		dmg = ApplyCrit(dmg, attacker.CritDamage)
	}
	if m := mul(mods.Damage); m != 1 {
		dmg = max(1, int(math.Floor(float64(dmg)*m)))
	}
	out.Damage = dmg
	out.Defender = defender.WithHealth(defender.CurrentHealth - float64(dmg))

	kind := "attack"
	if out.Crit {
		kind = "crit"
	}
	out.Entry = r.entry(side, kind, dmg, hitMessage(side, attacker, defender, dmg, out.Crit))
	out.XP = r.award(side, at, dmg, out.Crit, true)
	return out
}

func (r *Resolver) award(side model.Side, at model.AttackType, dmg int, crit, hit bool) progression.Award {
	if r.xp == nil {
		return progression.Award{}
	}
	if side == model.SidePlayer {
		if at == model.AttackNone {
			return progression.Award{}
		}
		return r.xp.AwardXP(at.Skill(), dmg, crit, hit)
	}
	// Enemy actions train the player's defenses: a miss is a dodge.
	if !hit {
		return r.xp.AwardXP(progression.ActionDodge, 0, false, true)
	}
	return r.xp.AwardXP(progression.ActionDamageTaken, dmg, crit, true)
}

func (r *Resolver) entry(side model.Side, kind string, dmg int, msg string) model.LogEntry {
	return model.LogEntry{
		Kind:    model.LogKind(string(side) + "_" + kind),
		Damage:  dmg,
		Message: msg,
		At:      r.now(),
	}
}

func missMessage(side model.Side, attacker, defender model.Combatant) string {
	if side == model.SidePlayer {
		return fmt.Sprintf("You miss %s.", defender.Name)
	}
	return fmt.Sprintf("%s misses you.", attacker.Name)
}

func hitMessage(side model.Side, attacker, defender model.Combatant, dmg int, crit bool) string {
	switch {
	case side == model.SidePlayer && crit:
		return fmt.Sprintf("Critical hit! You strike %s for %d damage.", defender.Name, dmg)
	case side == model.SidePlayer:
		return fmt.Sprintf("You hit %s for %d damage.", defender.Name, dmg)
	case crit:
		return fmt.Sprintf("Critical hit! %s strikes you for %d damage.", attacker.Name, dmg)
	default:
		return fmt.Sprintf("%s hits you for %d damage.", attacker.Name, dmg)
	}
}
