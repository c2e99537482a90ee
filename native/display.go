package native

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"deedles.dev/wlr/internal/log"
	"golang.org/x/sys/unix"
)

// Display is the root of the native object graph. It owns the event
// loop and the listening sockets.
type Display struct {
	Object
	Events struct {
		ClientCreated Signal[*Client]
		Destroy       Signal[*Display]
	}

	loop      *EventLoop
	sockets   []*net.UnixListener
	clients   []*Client
	destroyed bool
}

func NewDisplay() *Display {
	return &Display{
		Object: newObject(),
		loop:   NewEventLoop(),
	}
}

func (d *Display) EventLoop() *EventLoop {
	return d.loop
}

// AddSocketAuto listens on the first free wayland-N socket and returns
// its name.
func (d *Display) AddSocketAuto() (string, error) {
	name, err := NewSocketName()
	if err != nil {
		return "", err
	}
	return name, d.AddSocket(name)
}

// AddSocket listens for clients on the socket called name.
func (d *Display) AddSocket(name string) error {
	path := SocketPath(name)
	lis, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return fmt.Errorf("listen on %q: %w", path, err)
	}
	lis.SetUnlinkOnClose(true)

	d.sockets = append(d.sockets, lis)
	go d.accept(lis)

	log.Debug("listening", "socket", path)
	return nil
}

func (d *Display) accept(lis *net.UnixListener) {
	for {
		c, err := lis.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			err := d.loop.Post(func() error { return fmt.Errorf("accept: %w", err) })
			if err != nil {
				return
			}
			continue
		}

		cred, err := peerCredentials(c)
		if err != nil {
			log.Warn("failed to get client credentials", "err", err)
		}

		err = d.loop.Post(func() error { d.addClient(c, cred); return nil })
		if err != nil {
			c.Close()
			return
		}
	}
}

func peerCredentials(c *net.UnixConn) (*unix.Ucred, error) {
	raw, err := c.SyscallConn()
	if err != nil {
		return nil, err
	}

	var cred *unix.Ucred
	var credErr error
	err = raw.Control(func(fd uintptr) {
		cred, credErr = unix.GetsockoptUcred(int(fd), unix.SOL_SOCKET, unix.SO_PEERCRED)
	})
	return cred, errors.Join(err, credErr)
}

func (d *Display) addClient(c *net.UnixConn, cred *unix.Ucred) {
	if d.destroyed {
		c.Close()
		return
	}

	client := newClient(d, c, cred)
	d.clients = append(d.clients, client)
	go client.read()

	d.Events.ClientCreated.Emit(client)
}

// Clients returns the currently connected clients.
func (d *Display) Clients() []*Client {
	return append([]*Client(nil), d.clients...)
}

// Run runs the event loop until ctx is canceled or Terminate is
// called.
func (d *Display) Run(ctx context.Context) {
	d.loop.Run(ctx, func(err error) {
		log.Error("event loop", "err", err)
	})
}

// Terminate stops Run.
func (d *Display) Terminate() {
	d.loop.Terminate()
}

// Destroy disconnects all clients, closes all sockets, and destroys
// the event loop. Destroy listeners run before anything is torn down.
func (d *Display) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true

	d.Events.Destroy.Emit(d)

	for _, client := range d.Clients() {
		client.Destroy()
	}
	for _, lis := range d.sockets {
		lis.Close()
	}
	d.sockets = nil
	d.loop.Destroy()
}

// Client is a connection to the display. This library does not speak
// the Wayland protocol, so a client only carries its credentials.
type Client struct {
	Object
	Events struct {
		Destroy Signal[*Client]
	}

	display   *Display
	conn      *net.UnixConn
	cred      unix.Ucred
	destroyed bool
}

func newClient(d *Display, c *net.UnixConn, cred *unix.Ucred) *Client {
	client := Client{
		Object:  newObject(),
		display: d,
		conn:    c,
	}
	if cred != nil {
		client.cred = *cred
	}
	return &client
}

// NewClient creates a client that isn't backed by a connection, such
// as one created by the compositor for its own use.
func (d *Display) NewClient() *Client {
	client := Client{
		Object:  newObject(),
		display: d,
		cred: unix.Ucred{
			Pid: int32(os.Getpid()),
			Uid: uint32(os.Getuid()),
			Gid: uint32(os.Getgid()),
		},
	}
	d.clients = append(d.clients, &client)
	d.Events.ClientCreated.Emit(&client)
	return &client
}

func (client *Client) read() {
	io.Copy(io.Discard, client.conn)
	client.display.loop.Post(func() error {
		client.Destroy()
		return nil
	})
}

// Credentials returns the process, user, and group IDs of the client.
func (client *Client) Credentials() (pid, uid, gid int) {
	return int(client.cred.Pid), int(client.cred.Uid), int(client.cred.Gid)
}

// Destroy disconnects the client.
func (client *Client) Destroy() {
	if client.destroyed {
		return
	}
	client.destroyed = true

	client.Events.Destroy.Emit(client)

	if client.conn != nil {
		client.conn.Close()
	}

	d := client.display
	for i, c := range d.clients {
		if c == client {
			d.clients = append(d.clients[:i], d.clients[i+1:]...)
			break
		}
	}
}
