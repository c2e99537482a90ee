package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"deedles.dev/wlr"
)

// ParseMode parses a mode of the form WIDTHxHEIGHT or
// WIDTHxHEIGHT@REFRESH. The refresh rate is given in Hz and returned
// in mHz. It is zero if it wasn't given.
func ParseMode(str string) (width, height, refresh int32, err error) {
	size, rate, hasRate := strings.Cut(str, "@")
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return 0, 0, 0, fmt.Errorf("parse mode %q: missing size", str)
	}

	width, err = parseDim(w)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse mode %q: width: %w", str, err)
	}
	height, err = parseDim(h)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse mode %q: height: %w", str, err)
	}

	if hasRate {
		hz, err := strconv.ParseFloat(strings.TrimSuffix(rate, "Hz"), 32)
		if (err != nil) || (hz <= 0) {
			return 0, 0, 0, fmt.Errorf("parse mode %q: invalid refresh rate %q", str, rate)
		}
		refresh = int32(math.Round(hz * 1000))
	}

	return width, height, refresh, nil
}

func parseDim(str string) (int32, error) {
	v, err := strconv.ParseInt(str, 10, 32)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.New("must be positive")
	}
	return int32(v), nil
}

func (oc OutputConfig) validate() error {
	if oc.Mode != "" {
		_, _, _, err := ParseMode(oc.Mode)
		if err != nil {
			return err
		}
	}
	if oc.Transform != "" {
		_, err := wlr.ParseTransform(oc.Transform)
		if err != nil {
			return err
		}
	}
	if oc.Scale < 0 {
		return fmt.Errorf("invalid scale %v", oc.Scale)
	}
	return nil
}

// Positioned reports whether the output has an explicit layout
// position.
func (oc OutputConfig) Positioned() bool {
	return (oc.X != nil) && (oc.Y != nil)
}

// Apply configures out. If the mode matches one of the output's modes
// it is used as is, otherwise it is set as a custom mode. Without a
// configured mode, the output's best mode is used.
func (oc OutputConfig) Apply(out *wlr.Output) error {
	if oc.Disable {
		out.Enable(false)
		return nil
	}

	err := oc.applyMode(out)
	if err != nil {
		return fmt.Errorf("configure %v: %w", out.Name(), err)
	}
	if oc.Scale > 0 {
		out.SetScale(oc.Scale)
	}
	if oc.Transform != "" {
		t, err := wlr.ParseTransform(oc.Transform)
		if err != nil {
			return fmt.Errorf("configure %v: %w", out.Name(), err)
		}
		out.SetTransform(t)
	}

	out.Enable(true)
	return nil
}

func (oc OutputConfig) applyMode(out *wlr.Output) error {
	if oc.Mode == "" {
		m, ok := out.ChooseBestMode()
		if !ok {
			return errors.New("no modes")
		}
		return out.SetMode(m)
	}

	width, height, refresh, err := ParseMode(oc.Mode)
	if err != nil {
		return err
	}
	for _, m := range out.Modes() {
		if (m.Width == width) && (m.Height == height) && ((refresh == 0) || (m.Refresh == refresh)) {
			return out.SetMode(m)
		}
	}
	return out.SetCustomMode(width, height, refresh)
}

// Place adds out to layout, either at its configured position or
// automatically.
func (oc OutputConfig) Place(layout *wlr.OutputLayout, out *wlr.Output) error {
	if oc.Disable {
		return nil
	}
	if oc.Positioned() {
		return layout.Add(out, *oc.X, *oc.Y)
	}
	return layout.AddAuto(out)
}
