package containers

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[int](3)
	test.That(t, rq.IsEmpty(), test.ShouldBeTrue)

	for i := 1; i <= 3; i++ {
		test.That(t, rq.Enqueue(i), test.ShouldBeNil)
	}
	test.That(t, rq.IsFull(), test.ShouldBeTrue)
	test.That(t, errors.Is(rq.Enqueue(4), ErrQueueFull), test.ShouldBeTrue)

	v, err := rq.Peek()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 1)

	for i := 1; i <= 3; i++ {
		v, err := rq.Dequeue()
		test.That(t, err, test.ShouldBeNil)
		test.That(t, v, test.ShouldEqual, i)
	}
	_, err = rq.Dequeue()
	test.That(t, errors.Is(err, ErrQueueEmpty), test.ShouldBeTrue)
}

func TestRingQueueResizeKeepsOrder(t *testing.T) {
	rq := NewRingQueue[string](3)
	_ = rq.Enqueue("a")
	_ = rq.Enqueue("b")
	_, _ = rq.Dequeue()
	_ = rq.Enqueue("c")
	_ = rq.Enqueue("d") // wraps around

	test.That(t, rq.Resize(6), test.ShouldBeNil)
	test.That(t, rq.Cap(), test.ShouldEqual, 6)
	test.That(t, rq.Enqueue("e"), test.ShouldBeNil)

	var got []string
	for !rq.IsEmpty() {
		v, _ := rq.Dequeue()
		got = append(got, v)
	}
	test.That(t, got, test.ShouldResemble, []string{"b", "c", "d", "e"})
}

func TestRingQueueRefusesShrink(t *testing.T) {
	rq := NewRingQueue[int](4)
	_ = rq.Enqueue(1)
	_ = rq.Enqueue(2)
	test.That(t, rq.Resize(1), test.ShouldNotBeNil)
	test.That(t, rq.Len(), test.ShouldEqual, 2)
}
