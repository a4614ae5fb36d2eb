package remote

import (
	"net/rpc"

	"tinygo.org/x/drivers"

	"tftlcd/pkg/proto"
)

var _ proto.Control = (*Client)(nil)

// New connects to a display served by Proxy.
func New(addr string) (*Client, error) {
	client, err := rpc.DialHTTP("tcp", addr)
	if err != nil {
		return nil, err
	}

	c := &Client{rpc: client}
	if err := c.call("Service.State", 0); err != nil {
		_ = client.Close()
		return nil, err
	}
	return c, nil
}

// Client drives a remote display. Size and ScrollOffset answer from the state
// seen by the last call, failed or not.
type Client struct {
	rpc   *rpc.Client
	state State
}

func (c *Client) Init() error {
	return c.call("Service.Init", 0)
}

func (c *Client) Size() (width, height int) {
	return c.state.Width, c.state.Height
}

func (c *Client) SetRotation(rotation drivers.Rotation) error {
	return c.call("Service.SetRotation", rotation)
}

func (c *Client) Scroll(dy int) error {
	return c.call("Service.Scroll", dy)
}

func (c *Client) ScrollOffset() int {
	return c.state.Scroll
}

func (c *Client) Blit(buf []byte, x, y, w, h int) error {
	return c.call("Service.Blit", &BlitRequest{
		Buf: buf,
		X:   x,
		Y:   y,
		W:   w,
		H:   h,
	})
}

func (c *Client) Close() error {
	return c.rpc.Close()
}

// call runs method and keeps the returned state. A failed call may still have
// changed the display, so the state is fetched again before the error returns.
func (c *Client) call(method string, args any) error {
	var state State
	if err := c.rpc.Call(method, args, &state); err != nil {
		var fresh State
		if c.rpc.Call("Service.State", 0, &fresh) == nil {
			c.state = fresh
		}
		return err
	}
	c.state = state
	return nil
}
