package buff

import "github.com/alper6161/idle-chaos/internal/model"

// PickAutoPotion returns the potion to drink automatically, if any. A potion is
// chosen when auto-potion is enabled, the player is alive at or below the health
// threshold, and a potion of the priority list is in stock (first match wins).
func PickAutoPotion(cfg model.AutoPotion, player model.Combatant, stock map[string]int) (string, bool) {
	if !cfg.Enabled || !player.Alive() {
		return "", false
	}
	if player.HealthPercent() > cfg.Threshold {
		return "", false
	}
	for _, id := range cfg.Priority {
		if stock[id] > 0 {
			return id, true
		}
	}
	return "", false
}
