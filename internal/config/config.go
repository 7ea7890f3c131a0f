// Package config loads the VM's runtime tunables -- the values
// lang/machine.Thread's MaxCallDepth/MaxSteps fields are set from, plus a
// cycle collector toggle that nothing reads --
// from the environment and, optionally, a YAML file, mirroring the
// env-then-file layering the teacher's mna/mainer-driven CLI uses for its
// own flag precedence.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds the values lang/machine.Thread is constructed with.
// Env vars use the HEMLOCK_ prefix; a YAML file, when given, is applied
// first and env vars override it field by field.
//
// Defaults live in defaultConfig rather than `envDefault` tags: env.Parse
// applies an envDefault unconditionally whenever the variable itself is
// unset, which would clobber a value just loaded from YAML.
type Config struct {
	MaxCallDepth         int  `yaml:"maxCallDepth" env:"MAX_CALL_DEPTH"`
	StepBudget           int  `yaml:"stepBudget" env:"STEP_BUDGET"`
	EnableCycleCollector bool `yaml:"enableCycleCollector" env:"ENABLE_CYCLE_COLLECTOR"`
}

func defaultConfig() Config {
	return Config{
		MaxCallDepth:         256,
		StepBudget:           0,
		EnableCycleCollector: false,
	}
}

// Load builds a Config from defaults, then yamlPath if non-empty, then
// HEMLOCK_-prefixed environment variables, in that order of precedence.
func Load(yamlPath string) (Config, error) {
	cfg := defaultConfig()
	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return cfg, fmt.Errorf("config: reading %s: %w", yamlPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", yamlPath, err)
		}
	}
	if err := env.Parse(&cfg, env.Options{Prefix: "HEMLOCK_"}); err != nil {
		return cfg, fmt.Errorf("config: reading environment: %w", err)
	}
	return cfg, nil
}
