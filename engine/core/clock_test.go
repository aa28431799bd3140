package core

import (
	"testing"
	"time"

	"go.viam.com/test"
)

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock()
	c.now = func() time.Time { return now }

	c.Update()
	test.That(t, c.Elapsed(), test.ShouldEqual, time.Duration(0))

	c.Start()
	now = now.Add(250 * time.Millisecond)
	c.Update()
	test.That(t, c.Elapsed(), test.ShouldEqual, 250*time.Millisecond)

	c.Stop()
	now = now.Add(time.Second)
	c.Update()
	test.That(t, c.Elapsed(), test.ShouldEqual, 250*time.Millisecond)
}
