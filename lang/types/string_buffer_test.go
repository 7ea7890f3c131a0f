package types_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/require"
)

func TestStringIndexReturnsU8(t *testing.T) {
	s := types.NewString("ab")
	idx := s.AsString().Index(0)
	require.Equal(t, types.KindU8, idx.Kind)
	require.EqualValues(t, 'a', idx.Int())
}

func TestStringConcat(t *testing.T) {
	a := types.NewString("foo")
	b := types.NewString("bar")
	c := types.Concat(a.AsString(), b.AsString())
	require.Equal(t, "foobar", c.String())
}

func TestBufferFreeIsIdempotent(t *testing.T) {
	buf := types.NewBuffer(4)
	b := buf.AsBuffer()
	require.True(t, b.Free())
	require.False(t, b.Free())
	require.True(t, b.IsFreed())
}

func TestBufferIndexReturnsU8(t *testing.T) {
	buf := types.NewBuffer(4)
	b := buf.AsBuffer()
	b.SetIndex(0, types.U8(42))
	v := b.Index(0)
	require.Equal(t, types.KindU8, v.Kind)
	require.EqualValues(t, 42, v.Int())
}
