package progression

import "github.com/alper6161/idle-chaos/internal/model"

// MaxLevel is the skill level cap.
const MaxLevel = model.MaxSkillLevel

// earlyLevels holds the hand-authored cumulative XP for levels 1-10.
var earlyLevels = [...]int64{
	0,   // 1
	20,  // 2
	50,  // 3
	90,  // 4
	140, // 5
	200, // 6
	280, // 7
	380, // 8
	500, // 9
	650, // 10
}

// ExperienceTable holds the cumulative XP required to reach each level.
// Index = level (0-99). Levels 0 and 1 require 0 XP.
// Levels 11-99 follow req[L] = req[L-1] + L*25.
var ExperienceTable = buildExperienceTable()

func buildExperienceTable() [MaxLevel + 1]int64 {
	var t [MaxLevel + 1]int64
	for lvl := 1; lvl <= len(earlyLevels); lvl++ {
		t[lvl] = earlyLevels[lvl-1]
	}
	for lvl := len(earlyLevels) + 1; lvl <= MaxLevel; lvl++ {
		t[lvl] = t[lvl-1] + int64(lvl)*25
	}
	return t
}

// XPForLevel returns the cumulative XP required to reach level.
// Returns 0 for level <= 1 and the level-99 requirement above the cap.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return ExperienceTable[level]
}

// LevelForXP returns the highest level whose requirement is <= xp.
// Scans upward from startLevel, so a single call handles multi-level jumps.
func LevelForXP(xp int64, startLevel int) int {
	level := min(max(startLevel, 1), MaxLevel)
	for level > 1 && ExperienceTable[level] > xp {
		level--
	}
	for level < MaxLevel {
		if ExperienceTable[level+1] > xp {
			break
		}
		level++
	}
	return level
}

// XPToNext returns the XP still needed for the next level (0 at the cap).
func XPToNext(s model.Skill) int64 {
	if s.Level >= MaxLevel {
		return 0
	}
	return max(XPForLevel(s.Level+1)-s.XP, 0)
}
