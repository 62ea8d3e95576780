// Package session runs the idle loop of one save slot: spawning, battles,
// rewards and dungeon runs, driven by a single goroutine.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/game/achievement"
	"github.com/alper6161/idle-chaos/internal/game/buff"
	"github.com/alper6161/idle-chaos/internal/game/combat"
	"github.com/alper6161/idle-chaos/internal/game/dungeon"
	"github.com/alper6161/idle-chaos/internal/game/loot"
	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/game/shop"
	"github.com/alper6161/idle-chaos/internal/game/stats"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
	"github.com/alper6161/idle-chaos/internal/store"
)

const defaultPlayerName = "Hero"

var allTopics = []store.Topic{
	store.TopicEquipment, store.TopicSkills, store.TopicPets, store.TopicGold,
	store.TopicPotions, store.TopicAchievements, store.TopicLoot,
}

type command struct {
	fn   func(ctx context.Context) error
	done chan error
}

// Session is the game loop of one save slot. All game state is owned by the
// loop goroutine; public methods are forwarded to it as commands.
type Session struct {
	slotID   string
	name     string
	origin   string
	store    store.Store
	notifier store.Notifier
	cfg      Config
	src      rng.Source
	now      func() time.Time

	progress *progression.Engine
	resolver *combat.Resolver
	battle   *combat.Battle
	roller   *loot.Roller
	gen      *loot.Generator
	tracker  *achievement.Tracker
	buffs    *buff.Manager
	shop     *shop.Shop
	bag      *loot.Bag

	equipment  model.Equipment
	pets       []string
	owned      []string
	autoPotion model.AutoPotion
	potions    map[string]int
	gold       int64
	attackType model.AttackType

	mode       Mode
	locationID string
	enemyID    string
	state      model.BattleState
	spawn      combat.SpawnTimer
	run        *dungeon.Run
	carryHP    bool
	lastDrops  loot.Drops

	cmds chan command
	done chan struct{}

	snapMu  sync.Mutex
	snap    Snapshot
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool

	startOnce sync.Once
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates the session of slotID and loads its persisted state. Unreadable
// state is replaced by defaults and logged.
func New(ctx context.Context, slotID string, st store.Store, notifier store.Notifier, cfg Config) *Session {
	cfg = cfg.withDefaults()
	s := &Session{
		slotID:     slotID,
		name:       defaultPlayerName,
		origin:     uuid.NewString(),
		store:      st,
		notifier:   notifier,
		cfg:        cfg,
		src:        cfg.Source,
		now:        time.Now,
		buffs:      buff.NewManager(),
		roller:     loot.NewRoller(cfg.Source),
		gen:        loot.NewGenerator(cfg.Source),
		attackType: model.AttackStab,
		mode:       ModeIdle,
		state:      model.BattleState{Phase: model.PhaseIdle},
		cmds:       make(chan command),
		done:       make(chan struct{}),
		subs:       make(map[int]chan Snapshot),
	}
	ctx = store.WithOrigin(ctx, s.origin)

	if slot, err := st.GetSlot(ctx, slotID); err == nil && slot.Name != "" {
		s.name = slot.Name
	}
	skills := orDefault(slotID, "skills", model.NewSkillSet())(st.GetSkills(ctx, slotID))
	s.progress = progression.NewEngine(skills, cfg.XPRate)
	s.resolver = combat.NewResolver(cfg.Source, cfg.Strategy, s.progress)
	s.battle = combat.NewBattle(s.resolver, cfg.ProgressPerTick)
	s.tracker = achievement.NewTracker(ctx, slotID, st)
	s.shop = shop.New(slotID, st, st, s.buffs)
	s.loadEquipment(ctx)
	s.loadPets(ctx)
	s.loadPotions(ctx)
	s.loadGold(ctx)
	s.loadLoot(ctx)
	s.publish()
	return s
}

// orDefault logs a failed read of what and substitutes def.
func orDefault[T any](slotID, what string, def T) func(T, error) T {
	return func(v T, err error) T {
		if err != nil {
			slog.Warn("loading slot data failed, using defaults", "slot", slotID, "what", what, "error", err)
			return def
		}
		return v
	}
}

func (s *Session) loadEquipment(ctx context.Context) {
	s.equipment = orDefault(s.slotID, "equipment", model.Equipment{})(s.store.GetEquipped(ctx, s.slotID))
	if s.equipment == nil {
		s.equipment = model.Equipment{}
	}
}

func (s *Session) loadPets(ctx context.Context) {
	s.pets = orDefault[[]string](s.slotID, "equipped pets", nil)(s.store.GetEquippedPetIDs(ctx, s.slotID))
	s.owned = orDefault[[]string](s.slotID, "owned pets", nil)(s.store.GetOwnedPetIDs(ctx, s.slotID))
}

func (s *Session) loadPotions(ctx context.Context) {
	s.potions = orDefault(s.slotID, "potions", map[string]int{})(s.store.GetPotions(ctx, s.slotID))
	if s.potions == nil {
		s.potions = map[string]int{}
	}
	s.autoPotion = orDefault(s.slotID, "auto potion", model.DefaultAutoPotion())(s.store.GetAutoPotion(ctx, s.slotID))
}

func (s *Session) loadGold(ctx context.Context) {
	s.gold = orDefault[int64](s.slotID, "gold", 0)(s.store.GetGold(ctx, s.slotID))
}

func (s *Session) loadLoot(ctx context.Context) {
	items := orDefault[[]model.Item](s.slotID, "loot", nil)(s.store.GetLoot(ctx, s.slotID))
	s.bag = loot.NewBag(s.cfg.BagLimit, items)
}

// SetClock overrides the time source of the session and its components.
// Must be called before Start.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
	s.resolver.SetClock(now)
	s.tracker.SetClock(now)
	s.buffs.SetClock(now)
}

// SlotID returns the save slot the session plays.
func (s *Session) SlotID() string { return s.slotID }

// Start launches the loop goroutine. Calling Start more than once has no effect.
func (s *Session) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		changes, unsubscribe := store.SubscribeAll(s.notifier, allTopics...)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer unsubscribe()
			s.loop(store.WithOrigin(ctx, s.origin), changes)
		}()
		slog.Debug("session started", "slot", s.slotID)
	})
}

// Stop cancels the loop and waits for it to persist and exit.
func (s *Session) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	stopped := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stopping session %s: %w", s.slotID, ctx.Err())
	}
}

func (s *Session) loop(ctx context.Context, changes <-chan store.Change) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.flush(context.WithoutCancel(ctx))
			s.closeSubscribers()
			slog.Debug("session stopped", "slot", s.slotID)
			return
		case <-ticker.C:
			s.tick(ctx)
		case cmd := <-s.cmds:
			err := cmd.fn(ctx)
			s.publish()
			cmd.done <- err
			continue
		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.apply(ctx, c)
		}
		s.publish()
	}
}

// exec runs fn on the loop goroutine and returns its error.
func (s *Session) exec(ctx context.Context, fn func(ctx context.Context) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.done:
		return err
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// flush persists the state that is only saved periodically.
func (s *Session) flush(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s.saveSkills(ctx)
	s.saveLoot(ctx)
}

// apply reloads the cached loadout after another writer changed the slot.
func (s *Session) apply(ctx context.Context, c store.Change) {
	if c.SlotID != s.slotID || c.Origin == s.origin {
		return
	}
	slog.Debug("slot data changed", "slot", s.slotID, "topic", c.Topic)

	switch c.Topic {
	case store.TopicEquipment:
		s.loadEquipment(ctx)
	case store.TopicSkills:
		skills, err := s.store.GetSkills(ctx, s.slotID)
		if err != nil {
			slog.Warn("reloading skills failed", "slot", s.slotID, "error", err)
			return
		}
		s.progress.Replace(skills)
	case store.TopicPets:
		s.loadPets(ctx)
	case store.TopicGold:
		s.loadGold(ctx)
	case store.TopicPotions:
		s.loadPotions(ctx)
	case store.TopicAchievements:
		s.tracker.Reload(ctx)
	case store.TopicLoot:
		s.loadLoot(ctx)
	}
	s.refresh()
}

// player computes the effective stats of the slot's character at full health.
func (s *Session) player() model.Combatant {
	return stats.Compute(stats.Input{
		Name:       s.name,
		Base:       data.PlayerBase,
		Equipment:  s.equipment,
		Skills:     s.progress.Skills().Levels(),
		AttackType: s.attackType,
		Pets:       data.PetBonuses(s.pets),
	})
}

// refresh recomputes the player's stats after a loadout or skill change,
// keeping current health.
func (s *Session) refresh() {
	if s.state.Player.MaxHealth <= 0 {
		return
	}
	s.state = s.battle.Refresh(s.state, s.player())
}

func (s *Session) note(kind model.LogKind, format string, args ...any) {
	s.state = s.battle.Note(s.state, kind, fmt.Sprintf(format, args...))
}

func (s *Session) saveSkills(ctx context.Context) {
	if err := s.store.SaveSkills(ctx, s.slotID, s.progress.Skills()); err != nil {
		slog.Error("saving skills failed", "slot", s.slotID, "error", err)
	}
}

func (s *Session) saveLoot(ctx context.Context) {
	if err := s.store.SaveLoot(ctx, s.slotID, s.bag.Items()); err != nil {
		slog.Error("saving loot failed", "slot", s.slotID, "error", err)
	}
}

// hunting reports whether a fight is ongoing or about to spawn.
func (s *Session) hunting() bool {
	return s.state.Phase == model.PhaseInBattle || s.state.Phase == model.PhaseSpawning
}

func (s *Session) dungeonActive() bool {
	return s.mode == ModeDungeon && s.run != nil && s.run.Active()
}

// begin switches to a new hunt at full health.
func (s *Session) begin(mode Mode) {
	s.mode = mode
	s.carryHP = false
	if s.state.Phase == model.PhaseInBattle {
		s.state = s.battle.Flee(s.state)
	}
	s.beginSpawn()
}

func (s *Session) beginSpawn() {
	s.state.Phase = model.PhaseSpawning
	s.state.Winner = model.WinnerNone
	s.state.PlayerProgress, s.state.EnemyProgress = 0, 0
	s.spawn = combat.NewSpawnTimer(s.cfg.SpawnDuration, s.cfg.SpawnStep)
}

func (s *Session) goIdle() {
	s.mode = ModeIdle
	s.carryHP = false
	if s.state.Phase == model.PhaseSpawning {
		s.state.Phase = model.PhaseIdle
	}
}
