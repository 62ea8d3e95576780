package session

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/game/dungeon"
	"github.com/alper6161/idle-chaos/internal/game/loot"
	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/game/shop"
	"github.com/alper6161/idle-chaos/internal/model"
)

// StartLocation hunts random enemies of a location.
func (s *Session) StartLocation(ctx context.Context, locationID string) error {
	return s.exec(ctx, func(context.Context) error {
		if data.GetLocation(locationID) == nil {
			return fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
		}
		if s.dungeonActive() {
			return ErrInDungeon
		}
		s.run = nil
		s.locationID, s.enemyID = locationID, ""
		s.begin(ModeLocation)
		return nil
	})
}

// StartEnemy hunts one enemy over and over.
func (s *Session) StartEnemy(ctx context.Context, enemyID string) error {
	return s.exec(ctx, func(context.Context) error {
		if data.GetEnemy(enemyID) == nil {
			return fmt.Errorf("%w: %q", ErrUnknownEnemy, enemyID)
		}
		if s.dungeonActive() {
			return ErrInDungeon
		}
		s.run = nil
		s.locationID, s.enemyID = "", enemyID
		s.begin(ModeEnemy)
		return nil
	})
}

// StartDungeon enters a dungeon at its first stage.
func (s *Session) StartDungeon(ctx context.Context, dungeonID string) error {
	return s.exec(ctx, func(context.Context) error {
		d := data.GetDungeon(dungeonID)
		if d == nil {
			return fmt.Errorf("%w: %q", ErrUnknownDungeon, dungeonID)
		}
		if s.dungeonActive() {
			return ErrInDungeon
		}
		s.run = dungeon.NewRun(*d, s.cfg.RestartCountdown, s.cfg.AutoRestart)
		s.locationID, s.enemyID = "", ""
		s.note(model.LogSpawn, "Entering %s.", d.Name)
		s.begin(ModeDungeon)
		return nil
	})
}

// Flee leaves the current fight and stops hunting. Dungeon runs are left with
// ExitDungeon instead.
func (s *Session) Flee(ctx context.Context) error {
	return s.exec(ctx, func(context.Context) error {
		if s.dungeonActive() {
			return ErrInDungeon
		}
		s.state = s.battle.Flee(s.state)
		s.goIdle()
		return nil
	})
}

// ExitDungeon leaves the dungeon. Leaving a run in progress forfeits it and
// requires confirm.
func (s *Session) ExitDungeon(ctx context.Context, confirm bool) error {
	return s.exec(ctx, func(context.Context) error {
		if s.run == nil || s.mode != ModeDungeon {
			return dungeon.ErrNotRunning
		}
		if err := s.run.Exit(confirm); err != nil {
			return err
		}
		s.state = s.battle.Flee(s.state)
		s.goIdle()
		return nil
	})
}

// SetAttackType changes the attack type used from the next player attack on.
func (s *Session) SetAttackType(ctx context.Context, at model.AttackType) error {
	if at == model.AttackNone {
		return fmt.Errorf("%w: %q", model.ErrUnknownAttackType, at)
	}
	return s.exec(ctx, func(context.Context) error {
		s.attackType = at
		if s.hunting() {
			s.state.AttackType = at
			s.refresh()
		}
		return nil
	})
}

// UsePotion drinks a potion during a hunt.
func (s *Session) UsePotion(ctx context.Context, potionID string) (shop.Result, error) {
	var res shop.Result
	err := s.exec(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.drink(ctx, potionID)
		return err
	})
	return res, err
}

// drink consumes one potion and heals the player. Healing trains the heal skill.
func (s *Session) drink(ctx context.Context, potionID string) (shop.Result, error) {
	p := data.GetPotion(potionID)
	if p == nil {
		return shop.Result{Reason: shop.ReasonUnknownItem, Gold: s.gold}, nil
	}
	if !s.hunting() || !s.state.Player.Alive() {
		return shop.Result{Reason: shop.ReasonNotInBattle, Gold: s.gold}, nil
	}

	found, err := s.store.UsePotion(ctx, s.slotID, potionID)
	if err != nil {
		return shop.Result{Gold: s.gold}, fmt.Errorf("using potion %s: %w", potionID, err)
	}
	if !found {
		delete(s.potions, potionID)
		return shop.Result{Reason: shop.ReasonNoPotion, Gold: s.gold}, nil
	}
	if s.potions[potionID]--; s.potions[potionID] <= 0 {
		delete(s.potions, potionID)
	}

	before := s.state.Player.CurrentHealth
	s.state = s.battle.Heal(s.state, p.Heal, fmt.Sprintf("You drink a %s.", p.Name))
	healed := int(s.state.Player.CurrentHealth - before)
	s.levelUps(ctx, s.progress.AwardXP(progression.ActionHeal, healed, false, true))
	return shop.Result{OK: true, Gold: s.gold}, nil
}

// BuyPotion buys potions with gold.
func (s *Session) BuyPotion(ctx context.Context, potionID string, qty int) (shop.Result, error) {
	var res shop.Result
	err := s.exec(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.shop.BuyPotion(ctx, potionID, qty)
		if err != nil {
			return err
		}
		s.gold = res.Gold
		if res.OK {
			s.potions[potionID] += qty
		}
		return nil
	})
	return res, err
}

// BuyBuff buys and activates a buff with gold.
func (s *Session) BuyBuff(ctx context.Context, buffID string) (shop.Result, error) {
	var res shop.Result
	err := s.exec(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.shop.BuyBuff(ctx, buffID)
		if err != nil {
			return err
		}
		s.gold = res.Gold
		if res.OK {
			s.note(model.LogPotion, "%s is active.", data.GetBuff(buffID).Name)
		}
		return nil
	})
	return res, err
}

// SetAutoPotion replaces the auto-potion setting.
func (s *Session) SetAutoPotion(ctx context.Context, cfg model.AutoPotion) error {
	if cfg.Threshold < 0 || cfg.Threshold > 100 {
		return fmt.Errorf("%w: auto potion threshold %v out of [0,100]", ErrInvalidSetting, cfg.Threshold)
	}
	for _, id := range cfg.Priority {
		if data.GetPotion(id) == nil {
			return fmt.Errorf("%w: unknown potion %q", ErrInvalidSetting, id)
		}
	}
	return s.exec(ctx, func(ctx context.Context) error {
		if err := s.store.SetAutoPotion(ctx, s.slotID, cfg); err != nil {
			return fmt.Errorf("saving auto potion: %w", err)
		}
		cfg.Priority = slices.Clone(cfg.Priority)
		s.autoPotion = cfg
		return nil
	})
}

// Equip moves an item from the bag into its slot. The replaced item goes back
// into the bag.
func (s *Session) Equip(ctx context.Context, itemID string) error {
	return s.exec(ctx, func(ctx context.Context) error {
		undo := s.loadoutUndo()
		item, ok := s.bag.Take(itemID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
		}
		if prev := s.equipment[item.Type]; prev != nil {
			s.bag.Add(*prev)
		}
		s.equipment[item.Type] = &item
		return s.saveLoadout(ctx, undo)
	})
}

// Unequip moves the item of slot into the bag.
func (s *Session) Unequip(ctx context.Context, slot model.Slot) error {
	return s.exec(ctx, func(ctx context.Context) error {
		item := s.equipment[slot]
		if item == nil {
			return fmt.Errorf("%w: %s", ErrEmptySlot, slot)
		}
		if s.bag.Full() {
			return ErrBagFull
		}
		undo := s.loadoutUndo()
		s.bag.Add(*item)
		delete(s.equipment, slot)
		return s.saveLoadout(ctx, undo)
	})
}

// Discard throws an item of the bag away.
func (s *Session) Discard(ctx context.Context, itemID string) error {
	return s.exec(ctx, func(ctx context.Context) error {
		if _, ok := s.bag.Take(itemID); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
		}
		s.saveLoot(ctx)
		return nil
	})
}

// loadoutUndo captures the bag and equipment so a failed save can restore them.
func (s *Session) loadoutUndo() func() {
	equipment := maps.Clone(s.equipment)
	items := s.bag.Items()
	return func() {
		s.equipment = equipment
		s.bag = loot.NewBag(s.bag.Limit(), items)
	}
}

func (s *Session) saveLoadout(ctx context.Context, undo func()) error {
	if err := s.store.SetEquipped(ctx, s.slotID, s.equipment); err != nil {
		undo()
		return fmt.Errorf("saving equipment: %w", err)
	}
	s.saveLoot(ctx)
	s.refresh()
	return nil
}

// EquipPets replaces the equipped pets. Only owned pets can be equipped.
func (s *Session) EquipPets(ctx context.Context, petIDs []string) error {
	return s.exec(ctx, func(ctx context.Context) error {
		for _, id := range petIDs {
			if !slices.Contains(s.owned, id) {
				return fmt.Errorf("%w: %s", ErrPetNotOwned, id)
			}
		}
		ids := slices.Compact(slices.Sorted(slices.Values(petIDs)))
		if err := s.store.SetEquippedPetIDs(ctx, s.slotID, ids); err != nil {
			return fmt.Errorf("saving pets: %w", err)
		}
		s.pets = ids
		s.refresh()
		return nil
	})
}

// Loot returns the items in the bag.
func (s *Session) Loot(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := s.exec(ctx, func(context.Context) error {
		items = s.bag.Items()
		return nil
	})
	return items, err
}

// Equipment returns the equipped items.
func (s *Session) Equipment(ctx context.Context) (model.Equipment, error) {
	var eq model.Equipment
	err := s.exec(ctx, func(context.Context) error {
		eq = make(model.Equipment, len(s.equipment))
		for slot, it := range s.equipment {
			if it != nil {
				cp := *it
				eq[slot] = &cp
			}
		}
		return nil
	})
	return eq, err
}

// Skills returns the current skill progress.
func (s *Session) Skills() model.SkillSet { return s.progress.Skills() }

// Achievements returns the kill counts and unlocks of the slot.
func (s *Session) Achievements() model.Achievements { return s.tracker.Snapshot() }

// RevealedStat returns an enemy stat as shown to the player: "???" until the
// matching achievement is unlocked.
func (s *Session) RevealedStat(enemyID, stat string) string {
	return s.tracker.RevealedStat(enemyID, stat)
}
