package store

import (
	"log/slog"
	"sync"
)

// Topic groups change notifications by the kind of persisted data.
type Topic string

const (
	TopicSlots        Topic = "slots"
	TopicEquipment    Topic = "equipment"
	TopicSkills       Topic = "skills"
	TopicPets         Topic = "pets"
	TopicGold         Topic = "gold"
	TopicPotions      Topic = "potions"
	TopicAchievements Topic = "achievements"
	TopicLoot         Topic = "loot"
)

// Change notifies that persisted data of a slot was written.
type Change struct {
	Topic  Topic  `json:"topic"`
	SlotID string `json:"slotId"`
	Origin string `json:"origin,omitempty"`
}

// Notifier fans out store changes to subscribers.
type Notifier interface {
	// Subscribe returns a channel of changes on topic and a cancel func that
	// unsubscribes and closes the channel.
	Subscribe(topic Topic) (<-chan Change, func())
	Publish(c Change)
}

const subscriberQueueSize = 64

// Bus is the in-process Notifier. Slow subscribers lose changes instead of
// blocking publishers.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic]map[uint64]chan Change
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic]map[uint64]chan Change)}
}

// Subscribe implements Notifier.
func (b *Bus) Subscribe(topic Topic) (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Change, subscriberQueueSize)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]chan Change)
	}
	b.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish implements Notifier.
func (b *Bus) Publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[c.Topic] {
		select {
		case ch <- c:
		default:
			slog.Warn("change queue full, dropping notification",
				"topic", c.Topic,
				"slot", c.SlotID)
		}
	}
}

// Subscribers returns the number of subscribers of topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// SubscribeAll subscribes to every topic and merges the streams into one
// channel. The cancel func unsubscribes all topics and closes the channel.
func SubscribeAll(n Notifier, topics ...Topic) (<-chan Change, func()) {
	out := make(chan Change, subscriberQueueSize)
	cancels := make([]func(), 0, len(topics))

	var wg sync.WaitGroup
	for _, topic := range topics {
		ch, cancel := n.Subscribe(topic)
		cancels = append(cancels, cancel)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range ch {
				select {
				case out <- c:
				default:
					slog.Warn("merged change queue full, dropping notification", "topic", c.Topic)
				}
			}
		}()
	}

	var once sync.Once
	return out, func() {
		once.Do(func() {
			for _, cancel := range cancels {
				cancel()
			}
			wg.Wait()
			close(out)
		})
	}
}
