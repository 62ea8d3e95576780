package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/alper6161/idle-chaos/internal/data"
	"github.com/alper6161/idle-chaos/internal/game/achievement"
	"github.com/alper6161/idle-chaos/internal/game/progression"
	"github.com/alper6161/idle-chaos/internal/game/session"
	"github.com/alper6161/idle-chaos/internal/model"
	"github.com/alper6161/idle-chaos/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.slots.ListSlots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if slots == nil {
		slots = []store.Slot{}
	}
	writeJSON(w, http.StatusOK, slots)
}

type createSlotRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateSlot(w http.ResponseWriter, r *http.Request) {
	var req createSlotRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, fmt.Errorf("%w: name is required", errBadRequest))
		return
	}

	slot := store.Slot{ID: uuid.NewString(), Name: req.Name}
	if err := s.slots.CreateSlot(r.Context(), slot); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type huntRequest struct {
	Location string `json:"location"`
	Enemy    string `json:"enemy"`
}

func (s *Server) handleHunt(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req huntRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var err error
	switch {
	case req.Location != "" && req.Enemy != "":
		err = fmt.Errorf("%w: location and enemy are exclusive", errBadRequest)
	case req.Location != "":
		err = sess.StartLocation(r.Context(), req.Location)
	case req.Enemy != "":
		err = sess.StartEnemy(r.Context(), req.Enemy)
	default:
		err = fmt.Errorf("%w: location or enemy is required", errBadRequest)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleFlee(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Flee(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type dungeonRequest struct {
	Dungeon string `json:"dungeon"`
}

func (s *Server) handleStartDungeon(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req dungeonRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.StartDungeon(r.Context(), req.Dungeon); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type exitRequest struct {
	Confirm bool `json:"confirm"`
}

func (s *Server) handleExitDungeon(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req exitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.ExitDungeon(r.Context(), req.Confirm); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type attackTypeRequest struct {
	AttackType string `json:"attackType"`
}

func (s *Server) handleAttackType(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req attackTypeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	at, err := model.ParseAttackType(req.AttackType)
	if err == nil {
		err = sess.SetAttackType(r.Context(), at)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleEquipment(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	eq, err := sess.Equipment(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

func (s *Server) handleEquip(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Equip(r.Context(), mux.Vars(r)["item"]); err != nil {
		writeError(w, err)
		return
	}
	s.handleEquipment(w, r, sess)
}

func (s *Server) handleUnequip(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Unequip(r.Context(), model.Slot(mux.Vars(r)["equipSlot"])); err != nil {
		writeError(w, err)
		return
	}
	s.handleEquipment(w, r, sess)
}

func (s *Server) handleLoot(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	items, err := sess.Loot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := sess.Discard(r.Context(), mux.Vars(r)["item"]); err != nil {
		writeError(w, err)
		return
	}
	s.handleLoot(w, r, sess)
}

type petsRequest struct {
	Pets []string `json:"pets"`
}

func (s *Server) handleEquipPets(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req petsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.EquipPets(r.Context(), req.Pets); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSkills(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Skills())
}

type skillView struct {
	Skill       string                `json:"skill"`
	Category    string                `json:"category"`
	Level       int                   `json:"level"`
	XP          int64                 `json:"xp"`
	XPToNext    int64                 `json:"xpToNext"`
	Breakpoints []progression.Mastery `json:"breakpoints"`
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	name := mux.Vars(r)["skill"]
	category := model.CategoryOf(name)
	if category == "" {
		writeError(w, fmt.Errorf("%w: unknown skill %q", errBadRequest, name))
		return
	}
	sk := sess.Skills().Get(name)
	writeJSON(w, http.StatusOK, skillView{
		Skill:       name,
		Category:    category,
		Level:       sk.Level,
		XP:          sk.XP,
		XPToNext:    progression.XPToNext(sk),
		Breakpoints: progression.AllBreakpoints(name, sk.Level),
	})
}

func (s *Server) handleUsePotion(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	res, err := sess.UsePotion(r.Context(), mux.Vars(r)["potion"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAutoPotion(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req model.AutoPotion
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := sess.SetAutoPotion(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

type buyPotionRequest struct {
	Potion   string `json:"potion"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleBuyPotion(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	req := buyPotionRequest{Quantity: 1}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := sess.BuyPotion(r.Context(), req.Potion, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type buyBuffRequest struct {
	Buff string `json:"buff"`
}

func (s *Server) handleBuyBuff(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req buyBuffRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := sess.BuyBuff(r.Context(), req.Buff)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAchievements(w http.ResponseWriter, _ *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.Achievements())
}

// enemyView is an enemy as the player sees it: stats stay hidden until the
// matching kill achievement is unlocked.
type enemyView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kills int    `json:"kills"`
	HP    string `json:"hp"`
	ATK   string `json:"atk"`
	DEF   string `json:"def"`
}

func (s *Server) handleEnemy(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	id := mux.Vars(r)["enemy"]
	e := data.GetEnemy(id)
	if e == nil {
		writeError(w, fmt.Errorf("%w: %q", session.ErrUnknownEnemy, id))
		return
	}
	writeJSON(w, http.StatusOK, enemyView{
		ID:    e.ID,
		Name:  e.Name,
		Kills: sess.Achievements().Kills[e.ID],
		HP:    sess.RevealedStat(e.ID, achievement.StatHP),
		ATK:   sess.RevealedStat(e.ID, achievement.StatATK),
		DEF:   sess.RevealedStat(e.ID, achievement.StatDEF),
	})
}
