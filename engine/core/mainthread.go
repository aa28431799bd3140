package core

import (
	"sync"

	"github.com/spaghettifunk/setmaterial/engine/containers"
)

// MainThread collects work posted from job workers and runs it on the
// goroutine that calls Pump. Everything that touches futures, materials or
// toggle state is funnelled through here.
type MainThread struct {
	mutex sync.Mutex
	queue *containers.RingQueue[func()]
	wake  chan struct{}
}

func NewMainThread(capacity int) *MainThread {
	return &MainThread{
		queue: containers.NewRingQueue[func()](capacity),
		wake:  make(chan struct{}, 1),
	}
}

// Post queues fn. Safe to call from any goroutine; never blocks on a full
// queue, the backing ring grows instead.
func (mt *MainThread) Post(fn func()) {
	if fn == nil {
		return
	}
	mt.mutex.Lock()
	if mt.queue.IsFull() {
		_ = mt.queue.Resize(mt.queue.Cap() * 2)
	}
	_ = mt.queue.Enqueue(fn)
	mt.mutex.Unlock()

	select {
	case mt.wake <- struct{}{}:
	default:
	}
}

// Pump runs the tasks that were queued when it was called and returns how
// many ran. Tasks posted while pumping wait for the next call.
func (mt *MainThread) Pump() int {
	mt.mutex.Lock()
	pending := mt.queue.Len()
	tasks := make([]func(), 0, pending)
	for i := 0; i < pending; i++ {
		fn, err := mt.queue.Dequeue()
		if err != nil {
			break
		}
		tasks = append(tasks, fn)
	}
	mt.mutex.Unlock()

	for _, fn := range tasks {
		fn()
	}
	return len(tasks)
}

// Pending reports the number of queued tasks.
func (mt *MainThread) Pending() int {
	mt.mutex.Lock()
	defer mt.mutex.Unlock()
	return mt.queue.Len()
}

// Wake receives a value after at least one Post since the last receive.
func (mt *MainThread) Wake() <-chan struct{} {
	return mt.wake
}
