package main

import (
	"fmt"
	"os"

	evdev "github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

// Config is the raw YAML representation of the daemon's settings.
type Config struct {
	GraveKey    string   `yaml:"grave_key"`
	PageUpKey   string   `yaml:"page_up_key"`
	PageDownKey string   `yaml:"page_down_key"`
	Modifiers   []string `yaml:"modifiers"`

	// Explicit device paths bypass classification for that role.
	KeyboardDevice string `yaml:"keyboard_device"`
	MouseDevice    string `yaml:"mouse_device"`

	ScanBound  int    `yaml:"scan_bound"`
	DeviceName string `yaml:"device_name"`
}

// Rules is a Config with all key names resolved to evdev codes, ready
// for the remap loop.
type Rules struct {
	Grave     evdev.EvCode
	PageUp    evdev.EvCode
	PageDown  evdev.EvCode
	Modifiers map[evdev.EvCode]bool
}

// DefaultConfig returns the compiled-in settings: grave recalls the last
// control-group key, the wheel pages the camera, and the usual modifier
// keys are excluded from recall.
func DefaultConfig() *Config {
	mods := make([]string, 0, len(DefaultModifiers))
	for _, m := range DefaultModifiers {
		mods = append(mods, keyName(m))
	}
	return &Config{
		GraveKey:    "KEY_GRAVE",
		PageUpKey:   "KEY_PAGEUP",
		PageDownKey: "KEY_PAGEDOWN",
		Modifiers:   mods,
		ScanBound:   100,
		DeviceName:  "sc2remap",
	}
}

// LoadConfig reads the YAML config at path. A missing file is not an
// error; the defaults are returned instead.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.ScanBound <= 0 {
		cfg.ScanBound = DefaultConfig().ScanBound
	}
	if cfg.DeviceName == "" {
		cfg.DeviceName = DefaultConfig().DeviceName
	}
	return cfg, nil
}

// Rules resolves the config's key names to evdev codes.
func (c *Config) Rules() (*Rules, error) {
	grave, err := keyCodeByName(c.GraveKey)
	if err != nil {
		return nil, fmt.Errorf("grave_key: %w", err)
	}
	pageUp, err := keyCodeByName(c.PageUpKey)
	if err != nil {
		return nil, fmt.Errorf("page_up_key: %w", err)
	}
	pageDown, err := keyCodeByName(c.PageDownKey)
	if err != nil {
		return nil, fmt.Errorf("page_down_key: %w", err)
	}

	mods := make(map[evdev.EvCode]bool, len(c.Modifiers))
	for _, name := range c.Modifiers {
		code, err := keyCodeByName(name)
		if err != nil {
			return nil, fmt.Errorf("modifiers: %w", err)
		}
		mods[code] = true
	}

	return &Rules{
		Grave:     grave,
		PageUp:    pageUp,
		PageDown:  pageDown,
		Modifiers: mods,
	}, nil
}
