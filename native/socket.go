package native

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"deedles.dev/wlr/internal/set"
)

// maxDisplayNum is the highest wayland-N socket number that
// NewSocketName will try.
const maxDisplayNum = 32

func xdgRuntimeDir() string {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if ok {
		return dir
	}
	return fmt.Sprintf("/var/run/user/%v", os.Getuid())
}

// SocketPath returns the path of the socket called name, which is
// relative to $XDG_RUNTIME_DIR unless it is absolute.
func SocketPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(xdgRuntimeDir(), name)
}

// NewSocketName picks the lowest numbered wayland-N name that isn't
// already present in $XDG_RUNTIME_DIR.
func NewSocketName() (string, error) {
	dir := xdgRuntimeDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read runtime dir: %w", err)
	}

	names := make(set.Set[int], len(entries))
	for _, ent := range entries {
		after, ok := strings.CutPrefix(ent.Name(), "wayland-")
		if !ok {
			continue
		}
		after, _ = strings.CutSuffix(after, ".lock")
		n, err := strconv.ParseInt(after, 10, 0)
		if err != nil {
			continue
		}
		names.Add(int(n))
	}

	for num := 0; num < maxDisplayNum; num++ {
		if !names.Has(num) {
			return fmt.Sprintf("wayland-%v", num), nil
		}
	}
	return "", fmt.Errorf("no free socket name in %v", dir)
}

// DisplayName returns the socket name from $WAYLAND_DISPLAY, falling
// back to wayland-0.
func DisplayName() string {
	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok {
		return "wayland-0"
	}
	return v
}

// Dial connects to the display socket called name. If name is empty,
// $WAYLAND_SOCKET is used if it is set, and DisplayName otherwise.
func Dial(name string) (*net.UnixConn, error) {
	if name == "" {
		if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
			return dialFD(v)
		}
		name = DisplayName()
	}

	c, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: SocketPath(name), Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("dial %q: %w", name, err)
	}
	return c, nil
}

func dialFD(v string) (*net.UnixConn, error) {
	fd, err := strconv.ParseInt(v, 10, 0)
	if err != nil {
		return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
	}
	file := os.NewFile(uintptr(fd), "WAYLAND_SOCKET")
	defer file.Close()

	c, err := net.FileConn(file)
	if err != nil {
		return nil, fmt.Errorf("open WAYLAND_SOCKET connection: %w", err)
	}

	uc, ok := c.(*net.UnixConn)
	if !ok {
		c.Close()
		return nil, fmt.Errorf("WAYLAND_SOCKET is not a Unix socket")
	}
	return uc, nil
}
