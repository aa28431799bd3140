package async

import "fmt"

// State is the lifecycle of a Future. Succeeded and Failed are terminal.
type State int

const (
	StatePending State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Future is a single-assignment result slot. It is not safe for concurrent
// use: settlement and continuation registration belong to the main thread
// (see core.MainThread). Done is the only method safe to use elsewhere.
type Future[T any] struct {
	state     State
	value     T
	err       error
	callbacks []func(T, error)
	done      chan struct{}
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	future *Future[T]
}

func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{
		future: &Future[T]{
			state: StatePending,
			done:  make(chan struct{}),
		},
	}
}

// Resolved returns an already succeeded future.
func Resolved[T any](value T) *Future[T] {
	p := NewPromise[T]()
	p.Resolve(value)
	return p.Future()
}

// Rejected returns an already failed future.
func Rejected[T any](err error) *Future[T] {
	p := NewPromise[T]()
	p.Reject(err)
	return p.Future()
}

func (p *Promise[T]) Future() *Future[T] {
	return p.future
}

// Resolve settles the future with value. It returns false if the future was
// already settled, in which case nothing changes.
func (p *Promise[T]) Resolve(value T) bool {
	return p.future.settle(value, nil)
}

// Reject settles the future with err. A nil err is replaced so that a failed
// future always carries a cause.
func (p *Promise[T]) Reject(err error) bool {
	if err == nil {
		err = fmt.Errorf("async: rejected without a cause")
	}
	var zero T
	return p.future.settle(zero, err)
}

func (f *Future[T]) settle(value T, err error) bool {
	if f.state != StatePending {
		return false
	}
	if err != nil {
		f.state = StateFailed
		f.err = err
	} else {
		f.state = StateSucceeded
		f.value = value
	}
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	for _, cb := range callbacks {
		cb(f.value, f.err)
	}
	return true
}

// Then registers fn to run once the future settles. If it already has, fn
// runs immediately on the calling goroutine.
func (f *Future[T]) Then(fn func(T, error)) {
	if f.state != StatePending {
		fn(f.value, f.err)
		return
	}
	f.callbacks = append(f.callbacks, fn)
}

// Result returns the settled value and error. On a pending future it returns
// the zero value and ErrPending.
func (f *Future[T]) Result() (T, error) {
	if f.state == StatePending {
		var zero T
		return zero, ErrPending
	}
	return f.value, f.err
}

func (f *Future[T]) State() State {
	return f.state
}

// Done is closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) onSettled(fn func(error)) {
	f.Then(func(_ T, err error) {
		fn(err)
	})
}

// MapError returns a future that settles like f, except that a failure is
// passed through fn first. fn may log and return a more specific error.
func MapError[T any](f *Future[T], fn func(error) error) *Future[T] {
	p := NewPromise[T]()
	f.Then(func(value T, err error) {
		if err != nil {
			p.Reject(fn(err))
			return
		}
		p.Resolve(value)
	})
	return p.Future()
}

// Map returns a future holding fn applied to the value of f. A failure of f
// or an error from fn fails the returned future.
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	p := NewPromise[U]()
	f.Then(func(value T, err error) {
		if err != nil {
			p.Reject(err)
			return
		}
		out, err := fn(value)
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(out)
	})
	return p.Future()
}
