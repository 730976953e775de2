package room

import "sync"

// Client is one connected participant: an opaque id plus a bounded outbound
// delivery queue. The transport layer drains Out; room fan-out pushes onto it
// without ever blocking.
type Client struct {
	id   string
	out  chan []byte
	done chan struct{}
	once sync.Once
}

func NewClient(id string, queueDepth int) *Client {
	if queueDepth <= 0 {
		queueDepth = 256
	}
	return &Client{
		id:   id,
		out:  make(chan []byte, queueDepth),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

// Out is drained by the connection's writer goroutine.
func (c *Client) Out() <-chan []byte { return c.out }

// Done closes when the client is disconnected, either by its own teardown or
// because fan-out dropped it as a slow consumer.
func (c *Client) Done() <-chan struct{} { return c.done }

// Close is idempotent and safe from any goroutine.
func (c *Client) Close() { c.once.Do(func() { close(c.done) }) }

// TrySend enqueues without blocking. It reports false if the client is
// already closed or its queue is full.
func (c *Client) TrySend(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.out <- payload:
		return true
	default:
		return false
	}
}
