package session

import (
	"maps"
	"time"

	"github.com/alper6161/idle-chaos/internal/game/dungeon"
	"github.com/alper6161/idle-chaos/internal/game/loot"
	"github.com/alper6161/idle-chaos/internal/model"
)

// Snapshot is a read-only view of a session, published after every tick and command.
type Snapshot struct {
	SlotID        string             `json:"slotId"`
	Mode          Mode               `json:"mode"`
	Phase         model.Phase        `json:"phase"`
	LocationID    string             `json:"locationId,omitempty"`
	EnemyID       string             `json:"enemyId,omitempty"`
	AttackType    model.AttackType   `json:"attackType"`
	Battle        model.BattleState  `json:"battle"`
	SpawnProgress float64            `json:"spawnProgress"`
	Dungeon       *dungeon.Run       `json:"dungeon,omitempty"`
	Gold          int64              `json:"gold"`
	Potions       map[string]int     `json:"potions"`
	AutoPotion    model.AutoPotion   `json:"autoPotion"`
	Buffs         []model.ActiveBuff `json:"buffs"`
	Pets          []string           `json:"pets"`
	BagCount      int                `json:"bagCount"`
	BagLimit      int                `json:"bagLimit"`
	LastDrops     loot.Drops         `json:"lastDrops"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func (s *Session) buildSnapshot() Snapshot {
	snap := Snapshot{
		SlotID:     s.slotID,
		Mode:       s.mode,
		Phase:      s.state.Phase,
		LocationID: s.locationID,
		EnemyID:    s.enemyID,
		AttackType: s.attackType,
		Battle:     s.state,
		Gold:       s.gold,
		Potions:    maps.Clone(s.potions),
		AutoPotion: s.autoPotion,
		Buffs:      s.buffs.Active(),
		Pets:       append([]string(nil), s.pets...),
		BagCount:   s.bag.Len(),
		BagLimit:   s.bag.Limit(),
		LastDrops:  s.lastDrops,
		UpdatedAt:  s.now(),
	}
	if s.state.Phase == model.PhaseSpawning {
		snap.SpawnProgress = s.spawn.Progress()
	}
	if s.run != nil {
		run := *s.run
		snap.Dungeon = &run
	}
	return snap
}

// publish stores the latest snapshot and hands it to subscribers. Slow
// subscribers only ever see the most recent snapshot.
func (s *Session) publish() {
	snap := s.buildSnapshot()

	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	s.snap = snap
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// Snapshot returns the latest published snapshot.
func (s *Session) Snapshot() Snapshot {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	return s.snap
}

// Subscribe returns a channel receiving snapshots, starting with the current one.
// The channel is closed by the cancel func or when the session stops.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.snapMu.Lock()
	id := s.nextSub
	s.nextSub++
	ch <- s.snap
	if s.closed {
		close(ch)
	} else {
		s.subs[id] = ch
	}
	s.snapMu.Unlock()

	return ch, func() {
		s.snapMu.Lock()
		defer s.snapMu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
}

// closeSubscribers ends every snapshot stream of a stopped session.
func (s *Session) closeSubscribers() {
	s.snapMu.Lock()
	defer s.snapMu.Unlock()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
