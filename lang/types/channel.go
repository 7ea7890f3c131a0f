package types

import "sync/atomic"

// Channel is a refcounted, fixed-capacity FIFO of Values used by the async
// Spawn/Await/Yield model (spec section 5). Blocking semantics (suspending
// a send on a full channel, a receive on an empty one, and waking the
// right waiter) are the machine's responsibility; Channel itself is a
// plain ring buffer plus the two waiter queues the scheduler consults.
type Channel struct {
	n        int32
	buf      []Value
	cap      int
	closed   bool
	sendWait []any // opaque resumption tokens, owned by the machine
	recvWait []any
}

// NewChannel returns an empty Channel with the given capacity, refcount 1.
func NewChannel(capacity int) Value {
	return fromHeap(KindChannel, &Channel{cap: capacity, n: 1})
}

func (c *Channel) retain()        { atomic.AddInt32(&c.n, 1) }
func (c *Channel) refcount() int32 { return atomic.LoadInt32(&c.n) }
func (c *Channel) release() {
	if atomic.AddInt32(&c.n, -1) == 0 {
		for _, v := range c.buf {
			v.Release()
		}
		c.buf, c.sendWait, c.recvWait = nil, nil, nil
	}
}

func (c *Channel) Cap() int  { return c.cap }
func (c *Channel) Len() int  { return len(c.buf) }
func (c *Channel) Full() bool { return len(c.buf) >= c.cap }
func (c *Channel) Closed() bool { return c.closed }

// TrySend appends v without blocking, reporting whether there was room.
func (c *Channel) TrySend(v Value) bool {
	if c.Full() {
		return false
	}
	v.Retain()
	c.buf = append(c.buf, v)
	return true
}

// TryRecv pops the oldest buffered value without blocking.
func (c *Channel) TryRecv() (Value, bool) {
	if len(c.buf) == 0 {
		return Value{}, false
	}
	v := c.buf[0]
	c.buf = c.buf[1:]
	return v, true
}

func (c *Channel) Close() { c.closed = true }

// PushSendWaiter/PopSendWaiter and PushRecvWaiter/PopRecvWaiter let the
// machine queue and wake suspended tasks without this package knowing
// anything about frames.
func (c *Channel) PushSendWaiter(token any) { c.sendWait = append(c.sendWait, token) }
func (c *Channel) PopSendWaiter() (any, bool) {
	if len(c.sendWait) == 0 {
		return nil, false
	}
	t := c.sendWait[0]
	c.sendWait = c.sendWait[1:]
	return t, true
}

func (c *Channel) PushRecvWaiter(token any) { c.recvWait = append(c.recvWait, token) }
func (c *Channel) PopRecvWaiter() (any, bool) {
	if len(c.recvWait) == 0 {
		return nil, false
	}
	t := c.recvWait[0]
	c.recvWait = c.recvWait[1:]
	return t, true
}

func (c *Channel) String() string { return "<channel>" }
