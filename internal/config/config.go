package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kushgupta-hiver/quarto/internal/engine"
)

// Config holds the process-wide settings read from the environment.
type Config struct {
	Addr          string
	AIMinThink    time.Duration
	AITimeout     time.Duration
	GracePeriod   time.Duration // 0 = immediate forfeit on disconnect
	AdvancedRules bool          // default for games that do not say
	WinCheck      engine.WinCheck

	// Local and AI sessions are dropped after SessionIdle without a request,
	// or FinishedIdle once their game has ended.
	SessionIdle  time.Duration
	FinishedIdle time.Duration
}

const (
	envAddr          = "ADDR"
	envAIMinThink    = "QUARTO_AI_MIN_THINK"
	envAITimeout     = "QUARTO_AI_TIMEOUT"
	envGracePeriod   = "QUARTO_GRACE_PERIOD"
	envAdvancedRules = "QUARTO_ADVANCED_RULES"
	envWinCheck      = "QUARTO_WIN_CHECK"
	envSessionIdle   = "QUARTO_SESSION_IDLE"
	envFinishedIdle  = "QUARTO_FINISHED_IDLE"
)

// Load reads the environment, falling back to defaults for unset values.
func Load() (Config, error) {
	cfg := Config{
		Addr:        ":8000",
		AIMinThink:  500 * time.Millisecond,
		AITimeout:   10 * time.Second,
		GracePeriod:  30 * time.Second,
		WinCheck:     engine.WinCheckAuto,
		SessionIdle:  30 * time.Minute,
		FinishedIdle: 5 * time.Minute,
	}
	if v := os.Getenv(envAddr); v != "" {
		cfg.Addr = v
	}

	var err error
	if cfg.AIMinThink, err = duration(envAIMinThink, cfg.AIMinThink); err != nil {
		return Config{}, err
	}
	if cfg.AITimeout, err = duration(envAITimeout, cfg.AITimeout); err != nil {
		return Config{}, err
	}
	if cfg.GracePeriod, err = duration(envGracePeriod, cfg.GracePeriod); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdle, err = duration(envSessionIdle, cfg.SessionIdle); err != nil {
		return Config{}, err
	}
	if cfg.FinishedIdle, err = duration(envFinishedIdle, cfg.FinishedIdle); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(envAdvancedRules); v != "" {
		if cfg.AdvancedRules, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", envAdvancedRules, err)
		}
	}
	if cfg.WinCheck, err = engine.ParseWinCheck(os.Getenv(envWinCheck)); err != nil {
		return Config{}, fmt.Errorf("%s: %w", envWinCheck, err)
	}
	return cfg, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, v)
	}
	return d, nil
}
