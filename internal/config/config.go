// Package config loads the bot's tuning file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerURL string `yaml:"server_url"`
	AgentName string `yaml:"agent_name"`

	CatalogDir string `yaml:"catalog_dir"`
	TraceDir   string `yaml:"trace_dir"`
	MemoryPath string `yaml:"memory_path"`

	Goals []string `yaml:"goals"`

	Behavior Behavior `yaml:"behavior"`
}

type Behavior struct {
	HungerThreshold int     `yaml:"hunger_threshold"`
	LowHPThreshold  int     `yaml:"low_hp_threshold"`
	DangerRadius    float64 `yaml:"danger_radius"`
	FleeDistance    float64 `yaml:"flee_distance"`

	MoveTimeoutSeconds  float64 `yaml:"move_timeout_seconds"`
	CraftTimeoutSeconds float64 `yaml:"craft_timeout_seconds"`
	WanderRadius        int     `yaml:"wander_radius"`
	WanderPauseSeconds  float64 `yaml:"wander_pause_seconds"`
}

func Default() Config {
	return Config{
		ServerURL:  "ws://localhost:8080/v1/ws",
		AgentName:  "bot",
		CatalogDir: "catalogs",
		TraceDir:   "trace",
		MemoryPath: "memory.db",
		Behavior: Behavior{
			HungerThreshold:     8,
			LowHPThreshold:      5,
			DangerRadius:        6,
			FleeDistance:        12,
			MoveTimeoutSeconds:  45,
			CraftTimeoutSeconds: 30,
			WanderRadius:        10,
			WanderPauseSeconds:  4,
		},
	}
}

// Load reads path over the defaults; a missing file yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("bot config: %w", err)
	}
	return c, nil
}
