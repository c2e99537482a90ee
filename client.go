package wlr

import (
	"deedles.dev/wlr/handle"
	"deedles.dev/wlr/native"
)

type ClientHandle = handle.Handle[*native.Client, struct{}, *Client]

var clientKind = &handle.Kind[*native.Client, struct{}, *Client]{
	Name: "client",
	Wrap: func(ptr *native.Client, _ struct{}) *Client {
		return &Client{res: handle.Borrow(ptr)}
	},
}

// Client is a connected client.
type Client struct {
	res handle.Resource[*native.Client]
}

// Credentials returns the process, user, and group IDs of the client's
// process.
func (client *Client) Credentials() (pid, uid, gid int) {
	return client.res.Ptr().Credentials()
}

// Destroy disconnects the client, destroying every surface it owns.
func (client *Client) Destroy() {
	client.res.Ptr().Destroy()
}
