// Package model defines shared data structures.
package model

import "time"

// GameID identifies a mini-game.
type GameID string

// Mini-game identifiers.
const (
	GameColorMemory        GameID = "colorMemory"
	GameSelectiveAttention GameID = "selectiveAttention"
	GameSustainedFocus     GameID = "sustainedFocus"
	GamePuzzle             GameID = "puzzle"
	GameWeeklyChallenge    GameID = "weeklyChallenge"
)

// AllGames lists the mini-games in menu order.
var AllGames = []GameID{
	GameColorMemory,
	GameSelectiveAttention,
	GameSustainedFocus,
	GamePuzzle,
	GameWeeklyChallenge,
}

// Valid reports whether id names a known mini-game.
func (id GameID) Valid() bool {
	for _, g := range AllGames {
		if g == id {
			return true
		}
	}
	return false
}

// Title returns the display name of a mini-game.
func (id GameID) Title() string {
	switch id {
	case GameColorMemory:
		return "Color Memory"
	case GameSelectiveAttention:
		return "Selective Attention"
	case GameSustainedFocus:
		return "Sustained Focus"
	case GamePuzzle:
		return "Sliding Puzzle"
	case GameWeeklyChallenge:
		return "Weekly Challenge"
	default:
		return string(id)
	}
}

// Description returns the one-line menu blurb of a mini-game.
func (id GameID) Description() string {
	switch id {
	case GameColorMemory:
		return "Memorize and repeat the color sequence"
	case GameSelectiveAttention:
		return "Press only the target shapes"
	case GameSustainedFocus:
		return "Keep the pointer on the moving target"
	case GamePuzzle:
		return "Solve the sliding puzzle"
	case GameWeeklyChallenge:
		return "Complete this week's special challenge"
	default:
		return ""
	}
}

// GameSession captures one completed playthrough.
type GameSession struct {
	ID        string    `json:"id,omitempty"`
	GameID    GameID    `json:"gameId"`
	Score     int       `json:"score"`
	Duration  int       `json:"duration"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"date"`
}

// UserProgress is the lifetime aggregate persisted across runs.
type UserProgress struct {
	TotalPoints  int           `json:"totalPoints"`
	GamesPlayed  int           `json:"gamesPlayed"`
	Achievements []string      `json:"achievements"`
	Sessions     []GameSession `json:"sessions"`
	Level        int           `json:"level"`
	Streak       int           `json:"streak"`
}

// NewUserProgress returns the zero progress state.
func NewUserProgress() UserProgress {
	return UserProgress{
		Achievements: []string{},
		Sessions:     []GameSession{},
		Level:        1,
	}
}

// HasAchievement reports whether the achievement key is unlocked.
func (p UserProgress) HasAchievement(key string) bool {
	for _, a := range p.Achievements {
		if a == key {
			return true
		}
	}
	return false
}

// GameSettings holds user preferences.
type GameSettings struct {
	Difficulty       int  `json:"difficulty"`
	SoundEnabled     bool `json:"soundEnabled"`
	VibrationEnabled bool `json:"vibrationEnabled"`
	SessionDuration  int  `json:"sessionDuration"`
}

// Settings bounds.
const (
	MinDifficulty      = 1
	MaxDifficulty      = 3
	MinSessionDuration = 3
	MaxSessionDuration = 15
)

// DefaultSettings returns the settings used before anything is stored.
func DefaultSettings() GameSettings {
	return GameSettings{
		Difficulty:       2,
		SoundEnabled:     true,
		VibrationEnabled: true,
		SessionDuration:  5,
	}
}

// DifficultyLabel returns the display label for a difficulty level.
func DifficultyLabel(d int) string {
	switch d {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	default:
		return "Hard"
	}
}

// WeeklyChallenge is the currently selected weekly challenge.
type WeeklyChallenge struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Achievement describes an unlockable badge.
type Achievement struct {
	Key         string
	Name        string
	Description string
}

// Achievement keys.
const (
	AchievementFirst100  = "first100"
	AchievementDedicated = "dedicated"
	AchievementMaster    = "master"
)

// Achievements is the achievement catalog in display order.
var Achievements = []Achievement{
	{Key: AchievementFirst100, Name: "First Hundred", Description: "Score more than 100 points in one game"},
	{Key: AchievementDedicated, Name: "Dedicated", Description: "Play 10 games"},
	{Key: AchievementMaster, Name: "Master", Description: "Reach level 5"},
}

// GameSummary aggregates sessions of a single game for reporting.
type GameSummary struct {
	GameID      GameID
	Plays       int
	BestScore   int
	AvgScore    float64
	AvgAccuracy float64
	TotalTime   int
}
