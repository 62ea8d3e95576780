// Package shop sells potions and buffs for gold.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

// RejectReason explains why a purchase or potion use did not happen.
type RejectReason string

const (
	ReasonInsufficientGold RejectReason = "insufficient_gold"
	ReasonUnknownItem      RejectReason = "unknown_item"
	ReasonNoPotion         RejectReason = "no_potion"
	ReasonInvalidQuantity  RejectReason = "invalid_quantity"
	ReasonStrongerBuff     RejectReason = "stronger_buff_active"
	ReasonNotInBattle      RejectReason = "not_in_battle"
)

// MaxPurchaseQty caps the number of potions bought at once.
const MaxPurchaseQty = 999

// Result is the user-facing outcome of a shop action.
type Result struct {
	OK     bool         `json:"ok"`
	Reason RejectReason `json:"reason,omitempty"`
	Gold   int64        `json:"gold"`
}

func reject(reason RejectReason, gold int64) Result {
	return Result{Reason: reason, Gold: gold}
}

// Wallet is the gold storage the shop charges.
type Wallet interface {
	GetGold(ctx context.Context, slotID string) (int64, error)
	AddGold(ctx context.Context, slotID string, amount int64) (int64, error)
	SubtractGold(ctx context.Context, slotID string, amount int64) (int64, error)
}

// PotionStock receives bought potions.
type PotionStock interface {
	AddPotion(ctx context.Context, slotID, potionID string, qty int) error
}

// Buffs applies bought buffs.
type Buffs interface {
	Accepts(def model.BuffDef) bool
	Activate(def model.BuffDef) bool
}

// Shop sells to one save slot.
type Shop struct {
	slotID  string
	wallet  Wallet
	potions PotionStock
	buffs   Buffs
}

// New creates a shop for slotID.
func New(slotID string, wallet Wallet, potions PotionStock, buffs Buffs) *Shop {
	return &Shop{slotID: slotID, wallet: wallet, potions: potions, buffs: buffs}
}

// BuyPotion buys qty potions of potionID. Rejections are reported in Result;
// err is only set for storage failures.
func (s *Shop) BuyPotion(ctx context.Context, potionID string, qty int) (Result, error) {
	p := data.GetPotion(potionID)
	if p == nil {
		return reject(ReasonUnknownItem, s.balance(ctx)), nil
	}
	if qty <= 0 || qty > MaxPurchaseQty {
		return reject(ReasonInvalidQuantity, s.balance(ctx)), nil
	}
	cost := p.Price * int64(qty)

	gold, res, err := s.charge(ctx, cost)
	if err != nil || !res.OK {
		return res, err
	}

	if err := s.potions.AddPotion(ctx, s.slotID, potionID, qty); err != nil {
		s.refund(ctx, cost)
		return Result{}, fmt.Errorf("adding potion %s: %w", potionID, err)
	}

	slog.Info("potion bought", "slot", s.slotID, "potion", potionID, "qty", qty, "gold", gold)
	return Result{OK: true, Gold: gold}, nil
}

// BuyBuff buys and immediately activates buffID.
func (s *Shop) BuyBuff(ctx context.Context, buffID string) (Result, error) {
	def := data.GetBuff(buffID)
	if def == nil {
		return reject(ReasonUnknownItem, s.balance(ctx)), nil
	}
	if !s.buffs.Accepts(*def) {
		return reject(ReasonStrongerBuff, s.balance(ctx)), nil
	}

	gold, res, err := s.charge(ctx, def.Price)
	if err != nil || !res.OK {
		return res, err
	}
	s.buffs.Activate(*def)

	slog.Info("buff bought", "slot", s.slotID, "buff", buffID, "gold", gold)
	return Result{OK: true, Gold: gold}, nil
}

func (s *Shop) charge(ctx context.Context, price int64) (int64, Result, error) {
	gold, err := s.wallet.SubtractGold(ctx, s.slotID, price)
	if errors.Is(err, store.ErrInsufficientGold) {
		return gold, reject(ReasonInsufficientGold, gold), nil
	}
	if err != nil {
		return 0, Result{}, fmt.Errorf("charging %d gold: %w", price, err)
	}
	return gold, Result{OK: true, Gold: gold}, nil
}

func (s *Shop) refund(ctx context.Context, amount int64) {
	if _, err := s.wallet.AddGold(ctx, s.slotID, amount); err != nil {
		slog.Error("refunding gold", "slot", s.slotID, "amount", amount, "error", err)
	}
}

func (s *Shop) balance(ctx context.Context) int64 {
	gold, err := s.wallet.GetGold(ctx, s.slotID)
	if err != nil {
		slog.Warn("reading gold", "slot", s.slotID, "error", err)
		return 0
	}
	return gold
}
