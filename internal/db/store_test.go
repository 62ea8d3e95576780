package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

func newTestStore(t *testing.T, notifier store.Notifier) *Store {
	t.Helper()
	pool := setupTestDB(t)
	s := NewStore(pool, notifier)
	require.NoError(t, s.CreateSlot(context.Background(), store.Slot{ID: "slot-1", Name: "Tester"}))
	return s
}

func TestChanges_PublishCarriesOrigin(t *testing.T) {
	bus := store.NewBus()
	ch, cancel := bus.Subscribe(store.TopicGold)
	defer cancel()

	changes{notifier: bus}.publish(store.WithOrigin(context.Background(), "session-a"), store.TopicGold, "slot-1")

	select {
	case c := <-ch:
		assert.Equal(t, store.Change{Topic: store.TopicGold, SlotID: "slot-1", Origin: "session-a"}, c)
	case <-time.After(time.Second):
		t.Fatal("no change published")
	}

	changes{}.publish(context.Background(), store.TopicGold, "slot-1") // nil notifier is a no-op
}

func TestSlotRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	err := s.CreateSlot(ctx, store.Slot{ID: "slot-1", Name: "Again"})
	assert.ErrorIs(t, err, store.ErrSlotExists)

	require.NoError(t, s.CreateSlot(ctx, store.Slot{ID: "slot-0", Name: "First"}))
	slots, err := s.ListSlots(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.Slot{{ID: "slot-0", Name: "First"}, {ID: "slot-1", Name: "Tester"}}, slots)

	got, err := s.GetSlot(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, "Tester", got.Name)

	_, err = s.GetSlot(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrSlotNotFound)
}

func TestCurrencyRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	balance, err := s.AddGold(ctx, "slot-1", 120)
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)

	balance, err = s.SubtractGold(ctx, "slot-1", 200)
	assert.ErrorIs(t, err, store.ErrInsufficientGold)
	assert.Equal(t, int64(120), balance)

	balance, err = s.SubtractGold(ctx, "slot-1", 20)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)

	_, err = s.AddGold(ctx, "missing", 1)
	assert.ErrorIs(t, err, store.ErrSlotNotFound)

	gold, err := s.GetGold(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, gold)
}

func TestSkillRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	fresh, err := s.GetSkills(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Level(model.SkillStab))

	set := model.NewSkillSet()
	set.Set(model.SkillStab, model.Skill{Level: 7, XP: 300})
	set.Set(model.SkillHP, model.Skill{Level: 3, XP: 60})
	require.NoError(t, s.SaveSkills(ctx, "slot-1", set))

	set.Set(model.SkillStab, model.Skill{Level: 8, XP: 400})
	require.NoError(t, s.SaveSkills(ctx, "slot-1", set))

	got, err := s.GetSkills(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, model.Skill{Level: 8, XP: 400}, got.Get(model.SkillStab))
	assert.Equal(t, 3, got.Level(model.SkillHP))
}

func TestEquipmentRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	sword := &model.Item{ID: "i1", Name: "Iron Sword", Type: model.SlotWeapon, Rarity: model.RarityRare, Level: 4,
		Stats: model.StatBlock{model.StatAttack: 7.5}, WeaponType: "slash"}
	require.NoError(t, s.SetEquipped(ctx, "slot-1", model.Equipment{model.SlotWeapon: sword, model.SlotRing: nil}))

	eq, err := s.GetEquipped(ctx, "slot-1")
	require.NoError(t, err)
	require.Len(t, eq, 1)
	assert.Equal(t, sword, eq[model.SlotWeapon])

	require.NoError(t, s.SetEquipped(ctx, "slot-1", model.Equipment{}))
	eq, err = s.GetEquipped(ctx, "slot-1")
	require.NoError(t, err)
	assert.Empty(t, eq)
}

func TestPetRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	require.NoError(t, s.AddOwnedPet(ctx, "slot-1", "wolf_pup"))
	require.NoError(t, s.AddOwnedPet(ctx, "slot-1", "goblin_imp"))
	require.NoError(t, s.AddOwnedPet(ctx, "slot-1", "wolf_pup"))

	owned, err := s.GetOwnedPetIDs(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"goblin_imp", "wolf_pup"}, owned)

	require.NoError(t, s.SetEquippedPetIDs(ctx, "slot-1", []string{"wolf_pup", "fire_sprite"}))
	equipped, err := s.GetEquippedPetIDs(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"wolf_pup"}, equipped, "only owned pets can be equipped")
}

func TestPotionRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	cfg, err := s.GetAutoPotion(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAutoPotion(), cfg)

	require.NoError(t, s.AddPotion(ctx, "slot-1", "small_potion", 2))
	require.NoError(t, s.AddPotion(ctx, "slot-1", "small_potion", 1))
	assert.Error(t, s.AddPotion(ctx, "slot-1", "small_potion", 0))

	for range 3 {
		found, err := s.UsePotion(ctx, "slot-1", "small_potion")
		require.NoError(t, err)
		assert.True(t, found)
	}
	found, err := s.UsePotion(ctx, "slot-1", "small_potion")
	require.NoError(t, err)
	assert.False(t, found)

	stock, err := s.GetPotions(ctx, "slot-1")
	require.NoError(t, err)
	assert.Empty(t, stock)

	want := model.AutoPotion{Enabled: true, Threshold: 45, Priority: []string{"large_potion"}}
	require.NoError(t, s.SetAutoPotion(ctx, "slot-1", want))
	cfg, err = s.GetAutoPotion(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, want, cfg)

	assert.ErrorIs(t, s.SetAutoPotion(ctx, "missing", want), store.ErrSlotNotFound)
}

func TestAchievementRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := model.NewAchievements()
	a.Kills["goblin"] = 10
	a.Unlocked[model.UnlockKey("goblin", 10)] = model.Unlock{
		EnemyID: "goblin", KillCount: 10, Reward: "unlock_hp", Description: "Reveal HP", UnlockedAt: at,
	}
	require.NoError(t, s.SaveAchievements(ctx, "slot-1", a))

	a.Kills["goblin"] = 11
	relocked := a.Unlocked[model.UnlockKey("goblin", 10)]
	relocked.UnlockedAt = at.Add(time.Hour)
	a.Unlocked[model.UnlockKey("goblin", 10)] = relocked
	require.NoError(t, s.SaveAchievements(ctx, "slot-1", a))

	got, err := s.GetAchievements(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, 11, got.Kills["goblin"])
	u := got.Unlocked[model.UnlockKey("goblin", 10)]
	assert.Equal(t, "unlock_hp", u.Reward)
	assert.True(t, at.Equal(u.UnlockedAt), "unlocks are never overwritten")
}

func TestInventoryRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, nil)

	items := []model.Item{
		{ID: "b", Name: "Chainmail", Type: model.SlotChest, Level: 2, Stats: model.StatBlock{model.StatDefense: 8}},
		{ID: "a", Name: "Leather Cap", Type: model.SlotHelmet, Level: 1, Stats: model.StatBlock{model.StatDefense: 2}},
	}
	require.NoError(t, s.SaveLoot(ctx, "slot-1", items))

	got, err := s.GetLoot(ctx, "slot-1")
	require.NoError(t, err)
	assert.Equal(t, items, got, "bag order is kept")

	require.NoError(t, s.SaveLoot(ctx, "slot-1", nil))
	got, err = s.GetLoot(ctx, "slot-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotifier_RoundTrip(t *testing.T) {
	pool := setupTestDB(t)
	n := NewNotifier(pool)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	ch, unsubscribe := n.Subscribe(store.TopicGold)
	defer unsubscribe()

	s := NewStore(pool, n)
	require.NoError(t, s.CreateSlot(ctx, store.Slot{ID: "slot-1", Name: "Tester"}))

	// LISTEN is asynchronous: publish until the listener is up.
	require.Eventually(t, func() bool {
		if _, err := s.AddGold(store.WithOrigin(ctx, "writer"), "slot-1", 1); err != nil {
			return false
		}
		select {
		case c := <-ch:
			return c.SlotID == "slot-1" && c.Origin == "writer"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
