package loot

import (
	"slices"

	"github.com/alper6161/idle-chaos/internal/model"
)

// DefaultBagLimit is the loot bag capacity when none is configured.
const DefaultBagLimit = 100

// Bag holds generated items waiting to be equipped or sold. When full, newly
// offered items are rejected; items already in the bag are never displaced.
type Bag struct {
	limit int
	items []model.Item
}

// NewBag creates a bag with capacity limit (<= 0 selects DefaultBagLimit)
// pre-filled with items. Items beyond the limit are dropped.
func NewBag(limit int, items []model.Item) *Bag {
	if limit <= 0 {
		limit = DefaultBagLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return &Bag{limit: limit, items: slices.Clone(items)}
}

// Add stores items in order until the bag is full and returns those that did not fit.
func (b *Bag) Add(items ...model.Item) (rejected []model.Item) {
	for _, it := range items {
		if len(b.items) >= b.limit {
			rejected = append(rejected, it)
			continue
		}
		b.items = append(b.items, it)
	}
	return rejected
}

// Take removes the item with id from the bag.
func (b *Bag) Take(id string) (model.Item, bool) {
	i := slices.IndexFunc(b.items, func(it model.Item) bool { return it.ID == id })
	if i < 0 {
		return model.Item{}, false
	}
	it := b.items[i]
	b.items = slices.Delete(b.items, i, i+1)
	return it, true
}

// Items returns a copy of the bag contents, oldest first.
func (b *Bag) Items() []model.Item { return slices.Clone(b.items) }

// Len returns the number of stored items.
func (b *Bag) Len() int { return len(b.items) }

// Limit returns the capacity.
func (b *Bag) Limit() int { return b.limit }

// Full reports whether another item would be rejected.
func (b *Bag) Full() bool { return len(b.items) >= b.limit }
