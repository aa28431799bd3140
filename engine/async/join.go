package async

import "errors"

var ErrPending = errors.New("async: future is still pending")

// Settler is anything All can wait on. Every *Future[T] is one.
type Settler interface {
	onSettled(func(error))
}

// All joins deps. The returned future succeeds once every dependency has
// succeeded, or fails with the first failure observed. Dependencies that
// settle after the join has failed are ignored; nothing is cancelled.
func All(deps ...Settler) *Future[struct{}] {
	p := NewPromise[struct{}]()
	outstanding := len(deps)
	if outstanding == 0 {
		p.Resolve(struct{}{})
		return p.Future()
	}
	for _, d := range deps {
		d.onSettled(func(err error) {
			if err != nil {
				p.Reject(err)
				return
			}
			outstanding--
			if outstanding == 0 {
				p.Resolve(struct{}{})
			}
		})
	}
	return p.Future()
}
