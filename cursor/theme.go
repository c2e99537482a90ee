// Package cursor loads Xcursor themes, such as the ones installed in
// /usr/share/icons.
package cursor

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"deedles.dev/ximage/format"
)

// DefaultSize is the nominal cursor size used when none is given.
const DefaultSize = 24

// ErrThemeNotFound is returned by LoadTheme if neither the theme nor
// any theme it inherits from contain any cursors.
var ErrThemeNotFound = errors.New("theme not found")

var defaultLibraryPaths = []string{
	"~/.icons",
	"/usr/share/icons",
	"/usr/share/pixmaps",
	"~/.cursors",
	"/usr/share/cursors/xorg-x11",
	"/usr/X11R6/lib/X11/icons",
}

func libraryPaths() []string {
	if v, ok := os.LookupEnv("XCURSOR_PATH"); ok {
		return expandHome(filepath.SplitList(v))
	}

	v, ok := os.LookupEnv("XDG_DATA_HOME")
	if !ok || !filepath.IsAbs(v) {
		v = "~/.local/share"
	}
	return expandHome(append([]string{filepath.Join(v, "icons")}, defaultLibraryPaths...))
}

func expandHome(paths []string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}

	for i, p := range paths {
		if rest, ok := strings.CutPrefix(p, "~/"); ok {
			paths[i] = filepath.Join(home, rest)
		}
	}
	return paths
}

// Cursor is a single named cursor. It has more than one image if it is
// animated.
type Cursor struct {
	Comments []*Comment
	Images   []*Image
}

// Frame returns the image to show at time t into the cursor's
// animation.
func (c *Cursor) Frame(t time.Duration) *Image {
	if len(c.Images) == 0 {
		return nil
	}

	var total time.Duration
	for _, img := range c.Images {
		total += img.Delay
	}
	if total <= 0 {
		return c.Images[0]
	}

	t %= total
	for _, img := range c.Images {
		if t < img.Delay {
			return img
		}
		t -= img.Delay
	}
	return c.Images[len(c.Images)-1]
}

type Comment struct {
	Subtype CommentSubtype
	Comment string
}

type CommentSubtype uint32

const (
	CommentSubtypeCopyright CommentSubtype = 1 + iota
	CommentSubtypeLicense
	CommentSubtypeOther
)

// Image is one frame of a cursor. XHot and YHot are the position of
// the cursor's hotspot within the image.
type Image struct {
	NominalSize int
	XHot        int
	YHot        int
	Delay       time.Duration
	Image       *format.Image
}

// Theme is a set of cursors, keyed by name.
type Theme struct {
	Name    string
	Size    int
	Cursors map[string]*Cursor
}

// LoadTheme loads the theme called name, along with every theme that
// it inherits from, from the directories listed in $XCURSOR_PATH or a
// default set of directories if that isn't set. Cursors from the theme
// itself take precedence over inherited ones.
func LoadTheme(name string, size int) (*Theme, error) {
	if name == "" {
		name = "default"
	}
	if size <= 0 {
		size = DefaultSize
	}

	t := Theme{
		Name:    name,
		Size:    size,
		Cursors: make(map[string]*Cursor),
	}
	err := t.load(name, make(map[string]struct{}))
	if err != nil {
		return nil, err
	}
	if len(t.Cursors) == 0 {
		return nil, fmt.Errorf("load theme %q: %w", name, ErrThemeNotFound)
	}
	return &t, nil
}

func (t *Theme) load(theme string, seen map[string]struct{}) error {
	if _, ok := seen[theme]; ok {
		return nil
	}
	seen[theme] = struct{}{}

	var inherits []string
	for _, path := range libraryPaths() {
		dir := filepath.Join(path, theme, "cursors")
		err := t.loadDir(dir)
		if (err != nil) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load dir %q: %w", dir, err)
		}

		if inherits == nil {
			inherits, err = loadInherits(filepath.Join(path, theme, "index.theme"))
			if (err != nil) && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load inherited themes: %w", err)
			}
		}
	}

	for _, theme := range inherits {
		err := t.load(theme, seen)
		if err != nil {
			return fmt.Errorf("load inherited theme %q: %w", theme, err)
		}
	}

	return nil
}

func (t *Theme) loadDir(path string) error {
	dir, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read dir: %w", err)
	}

	for _, ent := range dir {
		if _, ok := t.Cursors[ent.Name()]; ok {
			continue
		}
		if t := ent.Type().Type(); !t.IsRegular() && (t != fs.ModeSymlink) {
			continue
		}

		entpath := filepath.Join(path, ent.Name())
		cur, err := DecodeFile(entpath, t.Size)
		if err != nil {
			// Dangling links and files that aren't cursors are common in
			// installed themes.
			if errors.Is(err, ErrBadMagic) || errors.Is(err, ErrNoImages) || errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %q: %w", entpath, err)
		}

		t.Cursors[ent.Name()] = cur
	}

	return nil
}

// Cursor returns the cursor called name. Some common names that
// different themes disagree on are tried as alternatives.
func (t *Theme) Cursor(name string) (*Cursor, bool) {
	if c, ok := t.Cursors[name]; ok {
		return c, true
	}
	for _, alt := range aliases[name] {
		if c, ok := t.Cursors[alt]; ok {
			return c, true
		}
	}
	return nil, false
}

var aliases = map[string][]string{
	"default":   {"left_ptr", "arrow"},
	"left_ptr":  {"default", "arrow"},
	"text":      {"xterm", "ibeam"},
	"pointer":   {"hand2", "hand1"},
	"move":      {"fleur", "grabbing"},
	"wait":      {"watch"},
	"crosshair": {"cross", "tcross"},
}

func loadInherits(index string) (inherits []string, err error) {
	file, err := os.Open(index)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s := bufio.NewScanner(file)
	for s.Scan() {
		line := s.Text()
		if !strings.HasPrefix(line, "Inherits") {
			continue
		}

		_, after, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		inherits = strings.FieldsFunc(after, func(c rune) bool {
			return (c == ':') || (c == ',')
		})
		for i, v := range inherits {
			inherits[i] = strings.TrimSpace(v)
		}

		break
	}
	if err := s.Err(); err != nil {
		return inherits, fmt.Errorf("scan: %w", err)
	}

	return inherits, nil
}
