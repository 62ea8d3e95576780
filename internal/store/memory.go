package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/alper6161/idle-chaos/internal/model"
)

type slotData struct {
	slot         Slot
	equipment    model.Equipment
	skills       model.SkillSet
	equippedPets []string
	ownedPets    []string
	gold         int64
	potions      map[string]int
	autoPotion   model.AutoPotion
	achievements model.Achievements
	loot         []model.Item
}

func newSlotData(slot Slot) *slotData {
	return &slotData{
		slot:         slot,
		equipment:    make(model.Equipment),
		skills:       model.NewSkillSet(),
		potions:      make(map[string]int),
		autoPotion:   model.DefaultAutoPotion(),
		achievements: model.NewAchievements(),
	}
}

// Memory is an in-memory Store. Values are deep-copied on every read and write.
// Unknown slots read as a fresh slot. Thread-safe.
type Memory struct {
	mu       sync.RWMutex
	slots    map[string]*slotData
	notifier Notifier
}

// NewMemory creates an empty in-memory store. notifier may be nil.
func NewMemory(notifier Notifier) *Memory {
	return &Memory{slots: make(map[string]*slotData), notifier: notifier}
}

func (m *Memory) publish(ctx context.Context, topic Topic, slotID string) {
	if m.notifier == nil {
		return
	}
	m.notifier.Publish(Change{Topic: topic, SlotID: slotID, Origin: OriginFrom(ctx)})
}

// slot returns the slot data, creating it when missing. Caller holds m.mu.
func (m *Memory) slot(slotID string) *slotData {
	d, ok := m.slots[slotID]
	if !ok {
		d = newSlotData(Slot{ID: slotID})
		m.slots[slotID] = d
	}
	return d
}

// read returns a snapshot of the slot without creating it.
func (m *Memory) read(slotID string) *slotData {
	if d, ok := m.slots[slotID]; ok {
		return d
	}
	return newSlotData(Slot{ID: slotID})
}

// CreateSlot implements SlotRepository.
func (m *Memory) CreateSlot(ctx context.Context, slot Slot) error {
	m.mu.Lock()
	if _, ok := m.slots[slot.ID]; ok {
		m.mu.Unlock()
		return fmt.Errorf("creating slot %s: %w", slot.ID, ErrSlotExists)
	}
	m.slots[slot.ID] = newSlotData(slot)
	m.mu.Unlock()

	m.publish(ctx, TopicSlots, slot.ID)
	return nil
}

// GetSlot implements SlotRepository.
func (m *Memory) GetSlot(_ context.Context, slotID string) (Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.slots[slotID]
	if !ok {
		return Slot{}, fmt.Errorf("slot %s: %w", slotID, ErrSlotNotFound)
	}
	return d.slot, nil
}

// ListSlots implements SlotRepository.
func (m *Memory) ListSlots(_ context.Context) ([]Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Slot, 0, len(m.slots))
	for _, d := range m.slots {
		out = append(out, d.slot)
	}
	slices.SortFunc(out, func(a, b Slot) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func cloneEquipment(eq model.Equipment) model.Equipment {
	out := make(model.Equipment, len(eq))
	for slot, it := range eq {
		if it == nil {
			continue
		}
		cp := *it
		cp.Stats = it.Stats.Clone()
		out[slot] = &cp
	}
	return out
}

func cloneItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i, it := range items {
		it.Stats = it.Stats.Clone()
		out[i] = it
	}
	return out
}

// GetEquipped implements EquipmentRepository.
func (m *Memory) GetEquipped(_ context.Context, slotID string) (model.Equipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneEquipment(m.read(slotID).equipment), nil
}

// SetEquipped implements EquipmentRepository.
func (m *Memory) SetEquipped(ctx context.Context, slotID string, eq model.Equipment) error {
	m.mu.Lock()
	m.slot(slotID).equipment = cloneEquipment(eq)
	m.mu.Unlock()
	m.publish(ctx, TopicEquipment, slotID)
	return nil
}

// GetSkills implements SkillRepository.
func (m *Memory) GetSkills(_ context.Context, slotID string) (model.SkillSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read(slotID).skills.Clone(), nil
}

// SaveSkills implements SkillRepository.
func (m *Memory) SaveSkills(ctx context.Context, slotID string, skills model.SkillSet) error {
	m.mu.Lock()
	m.slot(slotID).skills = skills.Clone()
	m.mu.Unlock()
	m.publish(ctx, TopicSkills, slotID)
	return nil
}

// GetEquippedPetIDs implements PetRepository.
func (m *Memory) GetEquippedPetIDs(_ context.Context, slotID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.read(slotID).equippedPets), nil
}

// SetEquippedPetIDs implements PetRepository.
func (m *Memory) SetEquippedPetIDs(ctx context.Context, slotID string, ids []string) error {
	m.mu.Lock()
	m.slot(slotID).equippedPets = slices.Clone(ids)
	m.mu.Unlock()
	m.publish(ctx, TopicPets, slotID)
	return nil
}

// GetOwnedPetIDs implements PetRepository.
func (m *Memory) GetOwnedPetIDs(_ context.Context, slotID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.read(slotID).ownedPets), nil
}

// AddOwnedPet implements PetRepository. Adding an owned pet again is a no-op.
func (m *Memory) AddOwnedPet(ctx context.Context, slotID, petID string) error {
	m.mu.Lock()
	d := m.slot(slotID)
	if slices.Contains(d.ownedPets, petID) {
		m.mu.Unlock()
		return nil
	}
	d.ownedPets = append(d.ownedPets, petID)
	m.mu.Unlock()
	m.publish(ctx, TopicPets, slotID)
	return nil
}

// GetGold implements CurrencyRepository.
func (m *Memory) GetGold(_ context.Context, slotID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.read(slotID).gold, nil
}

// AddGold implements CurrencyRepository.
func (m *Memory) AddGold(ctx context.Context, slotID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("adding negative gold %d", amount)
	}
	m.mu.Lock()
	d := m.slot(slotID)
	d.gold += amount
	balance := d.gold
	m.mu.Unlock()
	m.publish(ctx, TopicGold, slotID)
	return balance, nil
}

// SubtractGold implements CurrencyRepository.
func (m *Memory) SubtractGold(ctx context.Context, slotID string, amount int64) (int64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("subtracting negative gold %d", amount)
	}
	m.mu.Lock()
	d := m.slot(slotID)
	if d.gold < amount {
		balance := d.gold
		m.mu.Unlock()
		return balance, ErrInsufficientGold
	}
	d.gold -= amount
	balance := d.gold
	m.mu.Unlock()
	m.publish(ctx, TopicGold, slotID)
	return balance, nil
}

// GetPotions implements PotionRepository.
func (m *Memory) GetPotions(_ context.Context, slotID string) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.read(slotID).potions), nil
}

// AddPotion implements PotionRepository.
func (m *Memory) AddPotion(ctx context.Context, slotID, potionID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("adding %d potions: quantity must be positive", qty)
	}
	m.mu.Lock()
	m.slot(slotID).potions[potionID] += qty
	m.mu.Unlock()
	m.publish(ctx, TopicPotions, slotID)
	return nil
}

// UsePotion implements PotionRepository.
func (m *Memory) UsePotion(ctx context.Context, slotID, potionID string) (bool, error) {
	m.mu.Lock()
	d := m.slot(slotID)
	if d.potions[potionID] <= 0 {
		m.mu.Unlock()
		return false, nil
	}
	d.potions[potionID]--
	if d.potions[potionID] == 0 {
		delete(d.potions, potionID)
	}
	m.mu.Unlock()
	m.publish(ctx, TopicPotions, slotID)
	return true, nil
}

// GetAutoPotion implements PotionRepository.
func (m *Memory) GetAutoPotion(_ context.Context, slotID string) (model.AutoPotion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := m.read(slotID).autoPotion
	cfg.Priority = slices.Clone(cfg.Priority)
	return cfg, nil
}

// SetAutoPotion implements PotionRepository.
func (m *Memory) SetAutoPotion(ctx context.Context, slotID string, cfg model.AutoPotion) error {
	cfg.Priority = slices.Clone(cfg.Priority)
	m.mu.Lock()
	m.slot(slotID).autoPotion = cfg
	m.mu.Unlock()
	m.publish(ctx, TopicPotions, slotID)
	return nil
}

// GetAchievements implements AchievementRepository.
func (m *Memory) GetAchievements(_ context.Context, slotID string) (model.Achievements, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a := m.read(slotID).achievements
	return model.Achievements{Kills: maps.Clone(a.Kills), Unlocked: maps.Clone(a.Unlocked)}.Normalize(), nil
}

// SaveAchievements implements AchievementRepository.
func (m *Memory) SaveAchievements(ctx context.Context, slotID string, a model.Achievements) error {
	m.mu.Lock()
	m.slot(slotID).achievements = model.Achievements{Kills: maps.Clone(a.Kills), Unlocked: maps.Clone(a.Unlocked)}.Normalize()
	m.mu.Unlock()
	m.publish(ctx, TopicAchievements, slotID)
	return nil
}

// GetLoot implements InventoryRepository.
func (m *Memory) GetLoot(_ context.Context, slotID string) ([]model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneItems(m.read(slotID).loot), nil
}

// SaveLoot implements InventoryRepository.
func (m *Memory) SaveLoot(ctx context.Context, slotID string, items []model.Item) error {
	m.mu.Lock()
	m.slot(slotID).loot = cloneItems(items)
	m.mu.Unlock()
	m.publish(ctx, TopicLoot, slotID)
	return nil
}

var _ Store = (*Memory)(nil)
