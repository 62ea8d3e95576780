package data

import "github.com/alper6161/idle-chaos/internal/model"

// SetTestEnemy registers an enemy definition for tests from other packages.
func SetTestEnemy(e model.Enemy) {
	if EnemyTable == nil {
		EnemyTable = make(map[string]*model.Enemy, 8)
	}
	EnemyTable[e.ID] = &e
}

// SetTestEquipmentTemplate registers an equipment template for tests.
func SetTestEquipmentTemplate(t EquipmentTemplate) {
	if EquipmentTable == nil {
		EquipmentTable = make(map[string]*EquipmentTemplate, 8)
	}
	EquipmentTable[t.Name] = &t
}

// SetTestPet registers a pet definition for tests.
func SetTestPet(p model.Pet) {
	if PetTable == nil {
		PetTable = make(map[string]*model.Pet, 8)
	}
	PetTable[p.ID] = &p
}

// MustLoad loads the embedded catalog and panics on failure. For tests only.
func MustLoad() {
	if err := Load(); err != nil {
		panic(err)
	}
}

// SetTestLocation registers a location for tests.
func SetTestLocation(l model.Location) {
	if LocationTable == nil {
		LocationTable = make(map[string]*model.Location, 4)
	}
	LocationTable[l.ID] = &l
}

// SetTestDungeon registers a dungeon for tests.
func SetTestDungeon(d model.Dungeon) {
	if DungeonTable == nil {
		DungeonTable = make(map[string]*model.Dungeon, 4)
	}
	DungeonTable[d.ID] = &d
}
