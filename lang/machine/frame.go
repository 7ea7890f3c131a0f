package machine

import (
	"github.com/hemlang/hemlock/lang/compiler"
	"github.com/hemlang/hemlock/lang/types"
)

// handlerRecord is the runtime counterpart of an OpPushHandler: where to jump
// on an exception reaching this try block, and how far to unwind this
// frame's defer stack before doing so.
type handlerRecord struct {
	target     int // pc to jump to (catch block, or finally if no catch)
	deferFloor int // len(frame.defers) at the moment the handler was pushed
}

// openUpvalue records one upvalue this frame's own registers are currently
// aliased by, keyed by register index so a second closure capturing the
// same local can be deduplicated onto the same cell (spec section 4.6:
// "Capturing is deduplicated by slot address via a per-VM open-upvalue
// list" -- here scoped per frame, since only a frame's own children can
// ever reference its registers as FromParentLocal upvalues).
type openUpvalue struct {
	index uint8
	uv    *types.Upvalue
}

// frame is one activation record: a closure, its register window, its
// handler stack and its LIFO defer stack. Registers are a fixed-size slice
// (sized to the closure's Prototype.MaxStack) allocated once per call, so
// pointers into it -- used by open Upvalues -- stay valid for the frame's
// whole lifetime (spec section 4.6: "register A inside a frame refers to
// stack[base_slot + A]"; this implementation gives each frame its own
// window rather than slicing one shared stack across all frames, an
// allowed implementation choice per section 4.6's dispatch note that
// externally observable semantics are what matters).
type frame struct {
	closure *types.Closure
	regs    []types.Value
	pc      int

	handlers []handlerRecord
	defers   []deferredCall
	openUV   []openUpvalue

	// pendingExc holds the exception value a just-dispatched handler still
	// needs to deliver to its OpCatch instruction, if any.
	pendingExc *exception
}

type deferredCall struct {
	callee types.Value
	args   []types.Value
}

func newFrame(closure *types.Closure) *frame {
	proto := closure.Proto
	return &frame{
		closure: closure,
		regs:    make([]types.Value, proto.MaxStack),
	}
}

func (fr *frame) proto() *compiler.Prototype { return fr.closure.Proto }

// setReg overwrites register idx with v, retaining v and releasing
// whatever was there before -- every write to a frame's register window
// goes through this (rather than a bare slice assignment) so refcounts
// stay sound no matter how many times a temp register is reused across a
// function's lifetime (I1/I2).
func (fr *frame) setReg(idx uint8, v types.Value) {
	v.Retain()
	fr.regs[idx].Release()
	fr.regs[idx] = v
}

// releaseAllRegs releases every register's current value and nulls it out,
// for frame teardown once nothing further will read this frame's window.
func (fr *frame) releaseAllRegs() {
	for i := range fr.regs {
		fr.regs[i].Release()
		fr.regs[i] = types.Value{}
	}
}

// upvalueForLocal returns the (possibly shared) open upvalue cell aliasing
// fr's register at index, creating one if this is the first capture of that
// register.
func (fr *frame) upvalueForLocal(index uint8) *types.Upvalue {
	for _, ov := range fr.openUV {
		if ov.index == index {
			return ov.uv
		}
	}
	uv := &types.Upvalue{Open: true, Stack: &fr.regs[index]}
	fr.openUV = append(fr.openUV, openUpvalue{index: index, uv: uv})
	return uv
}

// closeUpvalues closes every open upvalue cell this frame holds for a
// register index >= boundary (spec section 4.6's "Return": "close all
// upvalues >= current base slot", and OpClose's per-scope variant). Closing
// transfers that register's reference to the Upvalue's Closed cell, so the
// register is nulled out rather than left holding a second, now-unaccounted
// copy that frame teardown would otherwise release a second time.
func (fr *frame) closeUpvalues(boundary uint8) {
	kept := fr.openUV[:0]
	for _, ov := range fr.openUV {
		if ov.index >= boundary {
			ov.uv.Close()
			fr.regs[ov.index] = types.Value{}
			continue
		}
		kept = append(kept, ov)
	}
	fr.openUV = kept
}

// runDefers pops and invokes defers down to floor, in LIFO order. A defer
// that itself throws aborts the remaining defers and propagates the error
// (spec section 4.4: "A defer that itself throws aborts remaining defers
// and re-raises").
func (th *Thread) runDefers(fr *frame, floor int) error {
	for len(fr.defers) > floor {
		n := len(fr.defers) - 1
		d := fr.defers[n]
		fr.defers = fr.defers[:n]
		_, err := th.callValue(d.callee, d.args)
		d.callee.Release()
		for _, a := range d.args {
			a.Release()
		}
		if err != nil {
			return err
		}
	}
	return nil
}
