package types_test

import (
	"testing"

	"github.com/hemlang/hemlock/lang/types"
	"github.com/stretchr/testify/require"
)

func TestArrayPushAndIndex(t *testing.T) {
	a := types.NewArray(0)
	arr := a.AsArray()
	arr.Push(types.I32(1))
	arr.Push(types.I32(2))
	require.Equal(t, 2, arr.Len())
	require.EqualValues(t, 1, arr.Index(0).Int())
	require.EqualValues(t, 2, arr.Index(1).Int())
}

func TestArrayReleaseDropsElementRefs(t *testing.T) {
	inner := types.NewString("nested")
	a := types.NewArray(1)
	arr := a.AsArray()
	arr.Push(inner)
	require.EqualValues(t, 2, inner.Refcount())

	a.Release()
	require.EqualValues(t, 1, inner.Refcount())
}

func TestArraySetIndexReplacesAndReleasesOld(t *testing.T) {
	old := types.NewString("old")
	a := types.NewArray(1)
	arr := a.AsArray()
	arr.Push(old)
	require.EqualValues(t, 2, old.Refcount())

	arr.SetIndex(0, types.I32(9))
	require.EqualValues(t, 1, old.Refcount())
	require.EqualValues(t, 9, arr.Index(0).Int())
}

func TestObjectSetGetAndOrderedKeys(t *testing.T) {
	o := types.NewObject("Point")
	obj := o.AsObject()
	obj.Set("x", types.I32(1))
	obj.Set("y", types.I32(2))
	require.Equal(t, []string{"x", "y"}, obj.Keys())

	x, ok := obj.Get("x")
	require.True(t, ok)
	require.EqualValues(t, 1, x.Int())

	_, ok = obj.Get("z")
	require.False(t, ok)
	require.Equal(t, "Point", obj.Tag())
}

func TestObjectSetOverwriteReleasesDisplaced(t *testing.T) {
	held := types.NewString("held")
	o := types.NewObject("")
	obj := o.AsObject()
	obj.Set("k", held)
	require.EqualValues(t, 2, held.Refcount())

	obj.Set("k", types.Null)
	require.EqualValues(t, 1, held.Refcount())
}
