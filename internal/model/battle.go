package model

import "time"

// Phase is the state of an encounter.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSpawning Phase = "spawning"
	PhaseInBattle Phase = "in_battle"
	PhaseResolved Phase = "resolved"
)

// Side identifies who acted.
type Side string

const (
	SidePlayer Side = "player"
	SideEnemy  Side = "enemy"
)

// Winner of a resolved encounter ("" while undecided).
type Winner string

const (
	WinnerNone   Winner = ""
	WinnerPlayer Winner = "player"
	WinnerEnemy  Winner = "enemy"
)

// LogKind tags a battle log entry, e.g. player_attack, enemy_miss.
type LogKind string

const (
	LogPlayerAttack LogKind = "player_attack"
	LogPlayerCrit   LogKind = "player_crit"
	LogPlayerMiss   LogKind = "player_miss"
	LogEnemyAttack  LogKind = "enemy_attack"
	LogEnemyCrit    LogKind = "enemy_crit"
	LogEnemyMiss    LogKind = "enemy_miss"
	LogPlayerFlee   LogKind = "player_flee"
	LogVictory      LogKind = "victory"
	LogDefeat       LogKind = "defeat"
	LogPotion       LogKind = "potion"
	LogLoot         LogKind = "loot"
	LogLevelUp      LogKind = "level_up"
	LogAchievement  LogKind = "achievement"
	LogSpawn        LogKind = "spawn"
)

// LogEntry is one line of the battle log.
type LogEntry struct {
	Kind    LogKind   `json:"kind"`
	Damage  int       `json:"damage,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// BattleLog is append-only: Append never mutates the receiver's backing array
// in a way visible through earlier copies.
type BattleLog []LogEntry

// Append returns a new log with entries added.
func (l BattleLog) Append(entries ...LogEntry) BattleLog {
	out := make(BattleLog, len(l), len(l)+len(entries))
	copy(out, l)
	return append(out, entries...)
}

// Tail returns at most n most recent entries.
func (l BattleLog) Tail(n int) BattleLog {
	if n <= 0 || len(l) <= n {
		return l
	}
	return l[len(l)-n:]
}

// BattleState is the state of one encounter.
type BattleState struct {
	EnemyID        string     `json:"enemyId"`
	AttackType     AttackType `json:"attackType"`
	Player         Combatant  `json:"player"`
	Enemy          Combatant  `json:"enemy"`
	PlayerProgress float64    `json:"playerProgress"`
	EnemyProgress  float64    `json:"enemyProgress"`
	Log            BattleLog  `json:"log"`
	Phase          Phase      `json:"phase"`
	Winner         Winner     `json:"winner,omitempty"`
}

// Over reports whether the encounter has been resolved.
func (s BattleState) Over() bool {
	return s.Phase == PhaseResolved
}
