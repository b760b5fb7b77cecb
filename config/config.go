package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gridmate/gridmate/core/metrics"
	"github.com/gridmate/gridmate/infra/grid"
	"github.com/gridmate/gridmate/infra/mqtt"
)

type Config struct {
	Engine    EngineConfig    `json:"engine"`
	Grid      grid.Config     `json:"grid"`
	Storage   StorageConfig   `json:"storage"`
	MQTT      MQTTConfig      `json:"mqtt"`
	Metrics   metrics.Config  `json:"metrics"`
	ActionLog ActionLogConfig `json:"action_log"`
}

// MQTTConfig wraps the broker settings with an enable switch.
type MQTTConfig struct {
	Enabled bool `json:"enabled"`
	mqtt.Config
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("GM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "gm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Engine.SetDefaults()
	cfg.Grid.SetDefaults()
	cfg.Storage.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.ActionLog.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Grid.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ActionLog.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
