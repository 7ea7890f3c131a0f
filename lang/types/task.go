package types

import "sync/atomic"

// TaskState is a Task's lifecycle stage (spec section 5's cooperative
// single-threaded scheduling model).
type TaskState uint8

const (
	TaskPending TaskState = iota
	TaskFulfilled
	TaskRejected
)

// Task is the refcounted handle a `spawn` expression returns. The
// scheduling itself -- deciding when a spawned closure runs, resuming
// awaiters -- is the machine's job (lang/machine); Task only holds the
// state an Await/Yield dispatch needs to read and write.
type Task struct {
	n       int32
	State   TaskState
	Result  Value // valid once State == TaskFulfilled
	Err     Value // valid once State == TaskRejected
	Closure *Closure
	// Args are the positional arguments the spawn expression evaluated,
	// retained for the closure's eventual call.
	Args []Value
	// Awaiters are frames suspended on an `await` of this Task, recorded by
	// the machine as opaque resumption tokens (its own frame/pc pair); this
	// package has no notion of a frame, so it stores them as an any slice.
	Awaiters []any
}

// NewTask wraps closure in a pending Task, refcount 1.
func NewTask(closure *Closure) Value {
	return NewTaskWithArgs(closure, nil)
}

// NewTaskWithArgs wraps closure and the positional arguments it will be
// invoked with in a pending Task, refcount 1.
func NewTaskWithArgs(closure *Closure, args []Value) Value {
	closure.retain()
	for _, a := range args {
		a.Retain()
	}
	return fromHeap(KindTask, &Task{n: 1, State: TaskPending, Closure: closure, Args: args})
}

func (t *Task) retain()        { atomic.AddInt32(&t.n, 1) }
func (t *Task) refcount() int32 { return atomic.LoadInt32(&t.n) }
func (t *Task) release() {
	if atomic.AddInt32(&t.n, -1) == 0 {
		t.Result.Release()
		t.Err.Release()
		for _, a := range t.Args {
			a.Release()
		}
		if t.Closure != nil {
			t.Closure.release()
		}
		t.Args = nil
		t.Awaiters = nil
	}
}

// Settle records a task's outcome, idempotently: a task already fulfilled
// or rejected ignores further settlement attempts, since the spec models
// a Task as settling exactly once.
func (t *Task) Settle(result Value, err Value, rejected bool) bool {
	if t.State != TaskPending {
		return false
	}
	if rejected {
		t.State = TaskRejected
		t.Err = err
	} else {
		t.State = TaskFulfilled
		t.Result = result
	}
	return true
}

func (t *Task) String() string { return "<task>" }
