package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alper6161/idle-chaos/internal/model"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	require.NoError(t, Load())

	goblin := GetEnemy("goblin")
	require.NotNil(t, goblin)
	assert.Equal(t, "Goblin", goblin.Name)
	assert.Equal(t, 50.0, goblin.MaxHP)
	assert.NotEmpty(t, goblin.Drops)

	assert.Nil(t, GetEnemy("nope"))
	assert.NotNil(t, GetLocation("forest"))
	assert.NotNil(t, GetPotion("small_potion"))

	haste := GetBuff("haste")
	require.NotNil(t, haste)
	assert.Equal(t, model.BuffSpeed, haste.Kind)
	assert.Equal(t, 5*time.Minute, haste.Duration)

	pet := GetPet("fire_sprite")
	require.NotNil(t, pet)
	assert.Equal(t, model.RarityEpic, pet.Rarity)
}

func TestLoad_EveryDropHasTemplate(t *testing.T) {
	require.NoError(t, Load())

	for id, e := range EnemyTable {
		for _, d := range e.Drops {
			if d.Type != model.DropEquipment {
				continue
			}
			assert.NotNil(t, GetEquipmentTemplate(d.Name), "enemy %s drop %s", id, d.Name)
		}
	}
	for id, d := range DungeonTable {
		for _, c := range d.Chest {
			assert.NotNil(t, GetEquipmentTemplate(c.Name), "dungeon %s chest %s", id, c.Name)
		}
	}
}

func TestThresholdsFor_DefaultsAreIncreasing(t *testing.T) {
	require.NoError(t, Load())

	th := ThresholdsFor("goblin")
	require.Len(t, th, 4)
	assert.Equal(t, 10, th[0].KillCount)
	assert.Equal(t, "unlock_hp", th[0].Reward)
	for i := 1; i < len(th); i++ {
		assert.Greater(t, th[i].KillCount, th[i-1].KillCount)
	}
}

func TestLoadFrom_RejectsUnknownReference(t *testing.T) {
	doc := []byte(`
enemies:
  - { id: a, name: A, max_hp: 10, atk: 1, def: 1, attack_speed: 1 }
locations:
  - { id: l, name: L, enemies: [missing] }
`)
	err := LoadFrom(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestPetBonuses(t *testing.T) {
	require.NoError(t, Load())

	b := PetBonuses([]string{"goblin_imp", "wolf_pup", "unknown"})
	assert.Equal(t, 3.0, b.Get(model.StatAttack))
	assert.Equal(t, 1.0, b.Get(model.StatMinDamage))
	assert.Equal(t, 2.0, b.Get(model.StatMaxDamage))
}
