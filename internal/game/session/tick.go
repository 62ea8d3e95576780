package session

import (
	"context"
	"log/slog"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/game/buff"
	"github.com/alper6161/idle-chaos/internal/game/combat"
	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/game/stats"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/rng"
)

// tick advances the session by one tick interval.
func (s *Session) tick(ctx context.Context) {
	if s.run != nil && s.mode == ModeDungeon && s.run.Tick(s.cfg.TickInterval) {
		s.note(model.LogSpawn, "Entering %s again.", s.run.Name)
		s.carryHP = false
		s.beginSpawn()
	}

	switch s.state.Phase {
	case model.PhaseSpawning:
		var ready bool
		s.spawn, ready = s.spawn.Advance()
		if ready {
			s.startFight()
		}
	case model.PhaseInBattle:
		s.drinkIfLow(ctx)
		var outs []combat.AttackOutcome
		s.state, outs = s.battle.Tick(s.state, s.buffs.Modifiers())
		for _, out := range outs {
			s.levelUps(ctx, out.XP)
		}
		if s.state.Over() {
			s.resolve(ctx)
		}
	}

	s.state.Log = s.state.Log.Tail(s.cfg.LogLimit)
}

// nextEnemy picks the enemy of the next fight.
func (s *Session) nextEnemy() string {
	switch s.mode {
	case ModeDungeon:
		if s.run != nil && s.run.Active() {
			return s.run.CurrentEnemy()
		}
	case ModeLocation:
		if loc := data.GetLocation(s.locationID); loc != nil && len(loc.Enemies) > 0 {
			return loc.Enemies[rng.IntN(s.src, len(loc.Enemies))]
		}
	case ModeEnemy:
		return s.enemyID
	}
	return ""
}

// startFight spawns the next enemy. The player keeps the health left from the
// previous fight of the same hunt.
func (s *Session) startFight() {
	enemyID := s.nextEnemy()
	def := data.GetEnemy(enemyID)
	if def == nil {
		slog.Warn("no enemy to spawn, going idle", "slot", s.slotID, "mode", s.mode, "enemy", enemyID)
		s.goIdle()
		return
	}

	player := s.player()
	if s.carryHP {
		player = player.WithHealth(s.state.Player.CurrentHealth)
	}

	history := s.state.Log
	s.state = s.battle.Start(enemyID, s.attackType, player, stats.Enemy(*def))
	s.state.Log = history
	s.note(model.LogSpawn, "A wild %s appears!", def.Name)
}

// drinkIfLow drinks a potion when the auto-potion rules say so. The auto-potion
// buff turns the rules on even when the setting is disabled.
func (s *Session) drinkIfLow(ctx context.Context) {
	cfg := s.autoPotion
	if s.buffs.Has(model.BuffAutoPotion) {
		cfg.Enabled = true
	}
	id, ok := buff.PickAutoPotion(cfg, s.state.Player, s.potions)
	if !ok {
		return
	}
	if _, err := s.drink(ctx, id); err != nil {
		slog.Error("auto potion failed", "slot", s.slotID, "potion", id, "error", err)
	}
}

// levelUps logs gained levels and applies the new stats.
func (s *Session) levelUps(ctx context.Context, award progression.Award) {
	if !award.LeveledUp {
		return
	}
	for _, lu := range award.LevelUps {
		s.note(model.LogLevelUp, "Your %s skill reached level %d!", lu.Skill, lu.To)
		slog.Info("skill leveled up", "slot", s.slotID, "skill", lu.Skill, "from", lu.From, "to", lu.To)
	}
	s.refresh()
	s.saveSkills(ctx)
}

func (s *Session) resolve(ctx context.Context) {
	switch s.state.Winner {
	case model.WinnerPlayer:
		s.victory(ctx)
	case model.WinnerEnemy:
		s.defeat()
	}
	s.saveSkills(ctx)
}

func (s *Session) victory(ctx context.Context) {
	enemyID := s.state.EnemyID
	def := data.GetEnemy(enemyID)
	if def == nil {
		s.goIdle()
		return
	}

	unlocks, err := s.tracker.RecordKill(ctx, enemyID)
	if err != nil {
		slog.Error("saving achievements failed", "slot", s.slotID, "enemy", enemyID, "error", err)
	}
	for _, u := range unlocks {
		s.note(model.LogAchievement, "Achievement unlocked: %s", u.Description)
	}

	s.carryHP = true
	if s.mode == ModeDungeon {
		s.dungeonVictory(ctx, *def)
		return
	}
	s.collect(ctx, *def)
	s.beginSpawn()
}

// dungeonVictory advances the run. Dungeon fights only reward the final chest.
func (s *Session) dungeonVictory(ctx context.Context, boss model.Enemy) {
	if s.run == nil {
		s.goIdle()
		return
	}
	if !s.run.Advance() {
		s.beginSpawn()
		return
	}

	s.note(model.LogVictory, "%s cleared!", s.run.Name)
	d := data.GetDungeon(s.run.DungeonID)
	if d == nil {
		return
	}
	entry, ok := s.roller.PickWeighted(d.Chest)
	if !ok || !s.run.ClaimChest(entry.Name) {
		return
	}
	item, err := s.gen.Generate(entry.Name, boss)
	if err != nil {
		slog.Warn("skipping chest reward", "slot", s.slotID, "dungeon", d.ID, "reward", entry.Name, "error", err)
		return
	}
	s.note(model.LogLoot, "The chest contains %s.", item.Name)
	s.stash(ctx, item)
}

// collect rolls the enemy's drop table and pet drops.
func (s *Session) collect(ctx context.Context, enemy model.Enemy) {
	drops := s.roller.RollDrops(enemy.Drops, s.cfg.GoldRate*s.buffs.GoldMultiplier())
	s.lastDrops = drops

	if drops.TotalGold > 0 {
		balance, err := s.store.AddGold(ctx, s.slotID, drops.TotalGold)
		if err != nil {
			slog.Error("saving gold failed", "slot", s.slotID, "amount", drops.TotalGold, "error", err)
			s.gold += drops.TotalGold
		} else {
			s.gold = balance
		}
		s.note(model.LogLoot, "You found %d gold.", drops.TotalGold)
	}

	items := make([]model.Item, 0, len(drops.Items))
	for _, name := range drops.Items {
		item, err := s.gen.Generate(name, enemy)
		if err != nil {
			slog.Warn("skipping drop", "slot", s.slotID, "enemy", enemy.ID, "drop", name, "error", err)
			continue
		}
		items = append(items, item)
	}
	s.stash(ctx, items...)

	if petID, ok := s.roller.RollPet(enemy, s.owned); ok {
		if err := s.store.AddOwnedPet(ctx, s.slotID, petID); err != nil {
			slog.Error("saving pet failed", "slot", s.slotID, "pet", petID, "error", err)
		}
		s.owned = append(s.owned, petID)
		name := petID
		if p := data.GetPet(petID); p != nil {
			name = p.Name
		}
		s.note(model.LogLoot, "%s wants to follow you!", name)
	}
}

// stash puts items into the bag. Items that do not fit are lost.
func (s *Session) stash(ctx context.Context, items ...model.Item) {
	if len(items) == 0 {
		return
	}
	rejected := s.bag.Add(items...)
	for _, it := range items[:len(items)-len(rejected)] {
		s.note(model.LogLoot, "Loot: %s (%s)", it.Name, it.Rarity)
	}
	for _, it := range rejected {
		s.note(model.LogLoot, "Your bag is full, %s was left behind.", it.Name)
	}
	s.saveLoot(ctx)
}

// defeat ends the hunt. A dungeon run fails.
func (s *Session) defeat() {
	if s.mode == ModeDungeon && s.run != nil {
		s.run.Fail()
	}
	s.goIdle()
}
