package types_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/require"
)

func newClosure() *types.Closure {
	proto := &compiler.Prototype{Name: "fn"}
	return types.NewClosure(proto, nil).AsClosure()
}

func TestTaskSettleIsIdempotent(t *testing.T) {
	task := types.NewTask(newClosure())
	tk := task.AsTask()
	require.Equal(t, types.TaskPending, tk.State)

	ok := tk.Settle(types.I32(7), types.Value{}, false)
	require.True(t, ok)
	require.Equal(t, types.TaskFulfilled, tk.State)
	require.EqualValues(t, 7, tk.Result.Int())

	ok = tk.Settle(types.I32(8), types.Value{}, false)
	require.False(t, ok, "a settled task ignores further settlement attempts")
	require.EqualValues(t, 7, tk.Result.Int())
}

func TestTaskSettleRejected(t *testing.T) {
	task := types.NewTask(newClosure())
	tk := task.AsTask()
	errVal := types.NewString("boom")
	require.True(t, tk.Settle(types.Value{}, errVal, true))
	require.Equal(t, types.TaskRejected, tk.State)
	require.Equal(t, "boom", tk.Err.String())
}

func TestChannelSendRecvRespectsCapacity(t *testing.T) {
	ch := types.NewChannel(1)
	c := ch.AsChannel()
	require.True(t, c.TrySend(types.I32(1)))
	require.False(t, c.TrySend(types.I32(2)), "channel is at capacity")
	require.True(t, c.Full())

	v, ok := c.TryRecv()
	require.True(t, ok)
	require.EqualValues(t, 1, v.Int())

	_, ok = c.TryRecv()
	require.False(t, ok)
}

func TestChannelWaiterQueues(t *testing.T) {
	ch := types.NewChannel(0)
	c := ch.AsChannel()
	c.PushRecvWaiter("frame-a")
	c.PushRecvWaiter("frame-b")

	tok, ok := c.PopRecvWaiter()
	require.True(t, ok)
	require.Equal(t, "frame-a", tok)

	tok, ok = c.PopRecvWaiter()
	require.True(t, ok)
	require.Equal(t, "frame-b", tok)

	_, ok = c.PopRecvWaiter()
	require.False(t, ok)
}

func TestChannelClose(t *testing.T) {
	ch := types.NewChannel(1)
	c := ch.AsChannel()
	require.False(t, c.Closed())
	c.Close()
	require.True(t, c.Closed())
}
