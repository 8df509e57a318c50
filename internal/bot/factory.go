package bot

import (
	"fmt"
	"math/rand"
)

// BotLevel selects a strategy implementation.
type BotLevel int

const (
	BotLevelEasy BotLevel = iota + 1
	BotLevelSmart
	BotLevelHard
)

// ParseLevel maps an identity difficulty string to a BotLevel.
// Unknown strings fall back to easy.
func ParseLevel(difficulty string) BotLevel {
	switch difficulty {
	case "smart", "medium":
		return BotLevelSmart
	case "hard":
		return BotLevelHard
	default:
		return BotLevelEasy
	}
}

// NewAgent builds an agent for a provisioned bot identity, picking the
// strategy from the identity's difficulty.
func NewAgent(userID string) (*Agent, error) {
	level := BotLevelEasy
	name := userID
	if identity, ok := GetBotConfig(userID); ok {
		level = ParseLevel(identity.Difficulty)
		if identity.DisplayName != "" {
			name = identity.DisplayName
		}
	}
	brain, err := NewBrain(level, nil)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}

// NewBrain creates a new AI brain based on the specified level.
// rng may be nil for a strategy-chosen default.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	switch level {
	case BotLevelEasy:
		return NewEasyBot(rng), nil
	case BotLevelSmart:
		return &SmartBot{}, nil
	case BotLevelHard:
		return &HardBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
