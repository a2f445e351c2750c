package config

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/nilsbraun/swarmmesh/core"
)

// Config mirrors the construction-time defaults table in spec §6.
// SubAgentTimeoutSeconds of 0 or less means "no timeout"; a map without the
// sub_agent_timeout key keeps the default of 30.
type Config struct {
	Strategy               string  `mapstructure:"strategy"`
	MaxConcurrency         int     `mapstructure:"max_concurrency"`
	SubAgentTimeoutSeconds float64 `mapstructure:"sub_agent_timeout"`
	SubAgentRetries        int     `mapstructure:"sub_agent_retries"`
	FailFast               bool    `mapstructure:"fail_fast"`
	IsolateContext         bool    `mapstructure:"isolate_context"`
	MaxTaskConcurrency     int     `mapstructure:"max_task_concurrency"`
}

// Default returns the baseline configuration from spec §6.
func Default() Config {
	return Config{
		Strategy:               "parallel",
		MaxConcurrency:         8,
		SubAgentTimeoutSeconds: 30,
		SubAgentRetries:        0,
		FailFast:               false,
		IsolateContext:         true,
		MaxTaskConcurrency:     4,
	}
}

// SubAgentTimeout returns SubAgentTimeoutSeconds as a time.Duration.
func (c Config) SubAgentTimeout() time.Duration {
	if c.SubAgentTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.SubAgentTimeoutSeconds * float64(time.Second))
}

// ParsedStrategy parses c.Strategy via core.ParseStrategy.
func (c Config) ParsedStrategy() core.Strategy { return core.ParseStrategy(c.Strategy) }

// FromMap decodes a caller-supplied configuration map onto Default(),
// weakly coercing numeric/boolean-looking values (e.g. a JSON-decoded
// map[string]any where numbers arrive as float64, or config loaders that
// hand back strings). Keys absent from m keep their default value.
//
// It returns core.ErrInvalidConfig if a value cannot be coerced to the
// field's type. A max_concurrency / max_task_concurrency below 1 or a
// negative sub_agent_retries is clamped (see clamp), not rejected. Per-call
// overrides (swarmmesh.CallOption) are applied later by the orchestrator and
// are clamped the same way.
func FromMap(m map[string]any) (Config, error) {
	cfg := Default()
	if len(m) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return Config{}, fmt.Errorf("build config decoder: %w", err)
	}
	if err := decoder.Decode(m); err != nil {
		return Config{}, fmt.Errorf("decode config map: %w: %v", core.ErrInvalidConfig, err)
	}

	cfg.clamp()
	return cfg, nil
}

// clamp enforces the concurrency/retry floors from spec §4.4/§6: both
// concurrency caps are positive integers and retries are non-negative. A
// configured value below the floor is clamped up rather than rejected;
// FromMap only returns core.ErrInvalidConfig when the *decode* itself
// failed (a value that couldn't be coerced to its field's type at all).
func (c *Config) clamp() {
	if c.MaxConcurrency < 1 {
		c.MaxConcurrency = 1
	}
	if c.MaxTaskConcurrency < 1 {
		c.MaxTaskConcurrency = 1
	}
	if c.SubAgentRetries < 0 {
		c.SubAgentRetries = 0
	}
}
