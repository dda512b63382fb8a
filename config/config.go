package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"caseta2mqtt/bridge"
	"caseta2mqtt/mqtt"
	"caseta2mqtt/ntfy"
	"caseta2mqtt/web"
)

// Duration parses both yaml values and environment overrides in the usual
// "500ms"/"1m" notation.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.Decode(raw)
}

// Decode implements envconfig's decoder.
func (d *Duration) Decode(value string) error {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	MQTT   mqtt.Config   `yaml:"mqtt"`
	Bridge bridge.Config `yaml:"bridge"`
	NTFY   ntfy.Config   `yaml:"ntfy"`
	Web    web.Config    `yaml:"web"`

	Zigbee struct {
		Prefix   string   `yaml:"prefix" envconfig:"ZIGBEE2MQTT_PREFIX"`
		SceneTTL Duration `yaml:"scene_ttl" envconfig:"ZIGBEE2MQTT_SCENE_TTL"`
	} `yaml:"zigbee"`

	// Rooms maps remote names to group names, for remotes that are not
	// named after the group they control.
	Rooms map[string]string `yaml:"rooms"`
}

func Get() (Config, error) {
	// First load the config from the yaml file
	f, err := os.Open("config.yml")
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Then load values from environment
	// This can be used to either override the config or pass in secrets
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}

	if cfg.Zigbee.Prefix == "" {
		cfg.Zigbee.Prefix = "zigbee2mqtt"
	}
	if cfg.Zigbee.SceneTTL == 0 {
		cfg.Zigbee.SceneTTL = Duration(time.Minute)
	}

	return cfg, nil
}
