package main

// Optional TOML tuning file. Values here seed the defaults that env vars and
// flags then override. Located at $XDG_CONFIG_HOME/edgemotion/config.toml
// unless -config / EDGE_CONFIG points elsewhere.

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"touchpad-edgemotion/edgemotion"
)

const configFile = "config.toml"

type fileConfig struct {
	EdgeMotion edgemotion.Config `toml:"edge_motion"`
	Accel      AccelConfig       `toml:"accel"`
	Device     DeviceConfig      `toml:"device"`
	Sink       SinkConfig        `toml:"sink"`
}

type AccelConfig struct {
	Speed float64 `toml:"speed"` // -1..1
}

// DeviceConfig overrides what EVIOCGABS reports. Zero values mean "use the
// device"; soft edges are in device units.
type DeviceConfig struct {
	Path        string  `toml:"path"`
	Grab        bool    `toml:"grab"`
	DragSource  string  `toml:"drag_source"`
	ResolutionX int32   `toml:"resolution_x"`
	ResolutionY int32   `toml:"resolution_y"`
	AccelScaleX float64 `toml:"accel_scale_x"`
	AccelScaleY float64 `toml:"accel_scale_y"`

	SoftEdgeLeft   *int32 `toml:"soft_edge_left"`
	SoftEdgeRight  *int32 `toml:"soft_edge_right"`
	SoftEdgeTop    *int32 `toml:"soft_edge_top"`
	SoftEdgeBottom *int32 `toml:"soft_edge_bottom"`
}

type SinkConfig struct {
	Kind               string  `toml:"kind"` // ws | uinput | log
	WsURL              string  `toml:"ws_url"`
	PingSeconds        float64 `toml:"ping_seconds"`
	PongTimeoutSeconds float64 `toml:"pong_timeout_seconds"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		EdgeMotion: edgemotion.DefaultConfig(),
		Device:     DeviceConfig{DragSource: "both"},
		Sink: SinkConfig{
			Kind:               "uinput",
			WsURL:              "ws://127.0.0.1:8000/ws/pointer",
			PingSeconds:        2,
			PongTimeoutSeconds: 8,
		},
	}
}

func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "edgemotion")
}

// loadConfig reads path over the defaults. An empty path means the default
// location, which is allowed to be missing.
func loadConfig(path string) (fileConfig, error) {
	conf := defaultFileConfig()
	explicit := path != ""
	if !explicit {
		path = filepath.Join(configDir(), configFile)
	}
	// Decoding into the default slice would let a partial zone entry inherit
	// the default zone's fields.
	conf.EdgeMotion.Zones = nil
	md, err := toml.DecodeFile(path, &conf)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultFileConfig(), nil
		}
		return conf, fmt.Errorf("read config %s: %w", path, err)
	}
	if !md.IsDefined("edge_motion", "zones") {
		conf.EdgeMotion.Zones = edgemotion.DefaultZones()
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return conf, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := conf.EdgeMotion.Validate(); err != nil {
		return conf, fmt.Errorf("config %s: %w", path, err)
	}
	return conf, nil
}

func writeConfig(path string, conf fileConfig) error {
	if path == "" {
		path = filepath.Join(configDir(), configFile)
	}
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(conf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, buffer.Bytes(), 0o644)
}
