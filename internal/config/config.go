package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type GameConfig struct {
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// BotMinDelaySeconds/BotMaxDelaySeconds bound the artificial thinking pause before a bot move.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// VoiceIssuer/VoiceDomain configure in-match voice tokens; the secret comes from the environment.
	VoiceIssuer string `json:"voice_issuer"`
	VoiceDomain string `json:"voice_domain"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// TurnDuration returns the configured turn clock in seconds, or a safe default.
func TurnDuration() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}

// BotAutoFillDelay returns the lobby auto-fill delay in seconds, or a safe default.
func BotAutoFillDelay() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds <= 0 {
		return 10
	}
	return cfg.BotAutoFillDelaySeconds
}

// BotMinDelay returns the minimum bot thinking pause in seconds, or a safe default.
func BotMinDelay() int {
	if cfg == nil || cfg.BotMinDelaySeconds <= 0 {
		return 1
	}
	return cfg.BotMinDelaySeconds
}

// BotMaxDelay returns the maximum bot thinking pause in seconds, or a safe default.
func BotMaxDelay() int {
	if cfg == nil || cfg.BotMaxDelaySeconds <= 0 {
		return 3
	}
	return cfg.BotMaxDelaySeconds
}
