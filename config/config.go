// Package config loads the settings of a headless compositor from a
// TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"deedles.dev/wlr"
	"deedles.dev/wlr/cursor"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override
// configuration keys. For example, WLR_KEYBOARD_LAYOUT overrides
// keyboard.layout.
const EnvPrefix = "WLR"

// Config is the full configuration of a compositor.
type Config struct {
	// Socket is the name of the Wayland socket, "auto" to pick a free
	// one, or empty to not listen at all.
	Socket    string `mapstructure:"socket" toml:"socket"`
	Seat      string `mapstructure:"seat" toml:"seat"`
	FrameRate int    `mapstructure:"frame_rate" toml:"frame_rate"`
	LogLevel  string `mapstructure:"log_level" toml:"log_level"`

	Keyboard KeyboardConfig `mapstructure:"keyboard" toml:"keyboard"`
	Cursor   CursorConfig   `mapstructure:"cursor" toml:"cursor"`
	Headless HeadlessConfig `mapstructure:"headless" toml:"headless"`
	Outputs  []OutputConfig `mapstructure:"outputs" toml:"outputs"`
}

// KeyboardConfig configures every keyboard. Empty rule names fall back
// to the XKB_DEFAULT_* environment variables.
type KeyboardConfig struct {
	Rules       string `mapstructure:"rules" toml:"rules"`
	Model       string `mapstructure:"model" toml:"model"`
	Layout      string `mapstructure:"layout" toml:"layout"`
	Variant     string `mapstructure:"variant" toml:"variant"`
	Options     string `mapstructure:"options" toml:"options"`
	RepeatRate  int32  `mapstructure:"repeat_rate" toml:"repeat_rate"`
	RepeatDelay int32  `mapstructure:"repeat_delay" toml:"repeat_delay"`
}

// CursorConfig selects the Xcursor theme. Both keys also fall back to
// XCURSOR_THEME and XCURSOR_SIZE.
type CursorConfig struct {
	Theme string `mapstructure:"theme" toml:"theme"`
	Size  int    `mapstructure:"size" toml:"size"`
}

// HeadlessConfig controls the outputs that the headless backend
// creates at startup.
type HeadlessConfig struct {
	Outputs int   `mapstructure:"outputs" toml:"outputs"`
	Width   int32 `mapstructure:"width" toml:"width"`
	Height  int32 `mapstructure:"height" toml:"height"`
}

// OutputConfig configures a single output, matched by name.
type OutputConfig struct {
	Name string `mapstructure:"name" toml:"name"`

	// Mode is WIDTHxHEIGHT, optionally followed by @REFRESH in Hz.
	Mode      string  `mapstructure:"mode" toml:"mode"`
	Scale     float32 `mapstructure:"scale" toml:"scale"`
	Transform string  `mapstructure:"transform" toml:"transform"`

	// X and Y place the output in the layout. If either is unset, the
	// output is placed automatically.
	X *int `mapstructure:"x" toml:"x,omitempty"`
	Y *int `mapstructure:"y" toml:"y,omitempty"`

	Disable bool `mapstructure:"disable" toml:"disable"`
}

// DefaultConfig is used for every key that isn't set anywhere else.
var DefaultConfig = Config{
	Socket:    wlr.SocketAuto,
	Seat:      "seat0",
	FrameRate: 60,
	Keyboard: KeyboardConfig{
		RepeatRate:  wlr.DefaultRepeatRate,
		RepeatDelay: wlr.DefaultRepeatDelay,
	},
	Cursor: CursorConfig{
		Theme: "default",
		Size:  cursor.DefaultSize,
	},
	Headless: HeadlessConfig{
		Outputs: 1,
		Width:   1280,
		Height:  720,
	},
}

// Paths returns the directories searched for wlr.toml, in order.
func Paths() []string {
	var paths []string
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "wlr"))
	}
	return append(paths, "/etc/wlr", ".")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("wlr")
		for _, p := range Paths() {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("socket", DefaultConfig.Socket)
	v.SetDefault("seat", DefaultConfig.Seat)
	v.SetDefault("frame_rate", DefaultConfig.FrameRate)
	v.SetDefault("log_level", DefaultConfig.LogLevel)

	v.SetDefault("keyboard.rules", DefaultConfig.Keyboard.Rules)
	v.SetDefault("keyboard.model", DefaultConfig.Keyboard.Model)
	v.SetDefault("keyboard.layout", DefaultConfig.Keyboard.Layout)
	v.SetDefault("keyboard.variant", DefaultConfig.Keyboard.Variant)
	v.SetDefault("keyboard.options", DefaultConfig.Keyboard.Options)
	v.SetDefault("keyboard.repeat_rate", DefaultConfig.Keyboard.RepeatRate)
	v.SetDefault("keyboard.repeat_delay", DefaultConfig.Keyboard.RepeatDelay)

	v.BindEnv("cursor.theme", EnvPrefix+"_CURSOR_THEME", "XCURSOR_THEME")
	v.BindEnv("cursor.size", EnvPrefix+"_CURSOR_SIZE", "XCURSOR_SIZE")
	v.SetDefault("cursor.theme", DefaultConfig.Cursor.Theme)
	v.SetDefault("cursor.size", DefaultConfig.Cursor.Size)

	v.SetDefault("headless.outputs", DefaultConfig.Headless.Outputs)
	v.SetDefault("headless.width", DefaultConfig.Headless.Width)
	v.SetDefault("headless.height", DefaultConfig.Headless.Height)

	return v
}

// Load reads the configuration. If path is empty, wlr.toml is searched
// for in Paths and it is not an error for it to not exist. Otherwise,
// path must exist.
func Load(path string) (*Config, error) {
	v := newViper(path)

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if (path != "") || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	err = v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks c for values that can't be applied.
func (c *Config) Validate() error {
	if c.FrameRate < 0 {
		return fmt.Errorf("invalid frame rate %v", c.FrameRate)
	}
	if c.Cursor.Size < 0 {
		return fmt.Errorf("invalid cursor size %v", c.Cursor.Size)
	}
	if c.Headless.Outputs < 0 {
		return fmt.Errorf("invalid headless output count %v", c.Headless.Outputs)
	}
	if (c.Headless.Outputs > 0) && ((c.Headless.Width <= 0) || (c.Headless.Height <= 0)) {
		return fmt.Errorf("invalid headless output size %vx%v", c.Headless.Width, c.Headless.Height)
	}

	names := make(map[string]struct{}, len(c.Outputs))
	for _, oc := range c.Outputs {
		if oc.Name == "" {
			return errors.New("output config without a name")
		}
		if _, ok := names[oc.Name]; ok {
			return fmt.Errorf("output %v configured twice", oc.Name)
		}
		names[oc.Name] = struct{}{}

		err := oc.validate()
		if err != nil {
			return fmt.Errorf("output %v: %w", oc.Name, err)
		}
	}
	return nil
}

// RuleNames returns the keymap rule names, with unset ones taken from
// the environment.
func (c *Config) RuleNames() wlr.RuleNames {
	env := wlr.RuleNamesFromEnv()
	names := wlr.RuleNames{
		Rules:   c.Keyboard.Rules,
		Model:   c.Keyboard.Model,
		Layout:  c.Keyboard.Layout,
		Variant: c.Keyboard.Variant,
		Options: c.Keyboard.Options,
	}
	fallback(&names.Rules, env.Rules)
	fallback(&names.Model, env.Model)
	fallback(&names.Layout, env.Layout)
	fallback(&names.Variant, env.Variant)
	fallback(&names.Options, env.Options)
	return names
}

func fallback(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// Builder returns a compositor builder with the compositor-wide
// settings of c filled in. Handlers are left for the caller.
func (c *Config) Builder() wlr.Builder {
	return wlr.Builder{
		Socket:      c.Socket,
		FrameRate:   c.FrameRate,
		Keymap:      c.RuleNames(),
		RepeatRate:  c.Keyboard.RepeatRate,
		RepeatDelay: c.Keyboard.RepeatDelay,
	}
}

// Output returns the configuration for the output called name.
func (c *Config) Output(name string) (OutputConfig, bool) {
	for _, oc := range c.Outputs {
		if oc.Name == name {
			return oc, true
		}
	}
	return OutputConfig{}, false
}

// Encode writes c to w in the same format that Load reads.
func (c *Config) Encode(w io.Writer) error {
	e := toml.NewEncoder(w)
	e.SetIndentTables(true)
	return e.Encode(c)
}
