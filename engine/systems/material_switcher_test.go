package systems

import (
	"errors"
	"sync"
	"testing"

	"go.viam.com/test"

	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

func newTestBundle() *LoadBundle {
	return &LoadBundle{
		model:            testRenderable(modelSrc, metadata.ColorMapSlot),
		alternateTexture: testTexture(alternateSrc),
		defaultTexture:   testTexture(defaultSrc),
	}
}

func newTestSwitcher(t *testing.T) *MaterialSwitcher {
	t.Helper()
	logger, _ := newTestLogger()
	ms, err := NewMaterialSwitcher(newTestBundle(), logger)
	test.That(t, err, test.ShouldBeNil)
	return ms
}

func boundColorMap(ms *MaterialSwitcher) *metadata.Texture {
	return ms.Bundle().Material().Texture(metadata.ColorMapSlot)
}

func TestSwitcherRequiresBundle(t *testing.T) {
	logger, _ := newTestLogger()
	ms, err := NewMaterialSwitcher(nil, logger)
	test.That(t, ms, test.ShouldBeNil)
	test.That(t, errors.Is(err, core.ErrPrecondition), test.ShouldBeTrue)
}

func TestSwitcherStartsOnDefault(t *testing.T) {
	ms := newTestSwitcher(t)
	test.That(t, ms.State(), test.ShouldEqual, ToggleStateDefault)
	test.That(t, boundColorMap(ms), test.ShouldEqual, ms.Bundle().DefaultTexture())
}

func TestResetIsIdempotent(t *testing.T) {
	ms := newTestSwitcher(t)
	ms.Toggle()
	for i := 0; i < 2; i++ {
		ms.Reset()
		test.That(t, ms.State(), test.ShouldEqual, ToggleStateDefault)
		test.That(t, boundColorMap(ms), test.ShouldEqual, ms.Bundle().DefaultTexture())
	}
}

func TestToggleIsAnInvolution(t *testing.T) {
	for _, start := range []ToggleState{ToggleStateDefault, ToggleStateAlternate} {
		ms := newTestSwitcher(t)
		if start == ToggleStateAlternate {
			ms.Toggle()
		}
		before := boundColorMap(ms)

		ms.Toggle()
		test.That(t, ms.State(), test.ShouldNotEqual, start)
		ms.Toggle()
		test.That(t, ms.State(), test.ShouldEqual, start)
		test.That(t, boundColorMap(ms), test.ShouldEqual, before)
	}
}

func TestToggleScenario(t *testing.T) {
	ms := newTestSwitcher(t)
	alt := ms.Bundle().AlternateTexture()
	def := ms.Bundle().DefaultTexture()

	test.That(t, ms.State(), test.ShouldEqual, ToggleStateDefault)

	test.That(t, ms.Toggle(), test.ShouldEqual, ToggleStateAlternate)
	test.That(t, boundColorMap(ms), test.ShouldEqual, alt)

	test.That(t, ms.Toggle(), test.ShouldEqual, ToggleStateDefault)
	test.That(t, boundColorMap(ms), test.ShouldEqual, def)

	ms.Reset()
	test.That(t, ms.State(), test.ShouldEqual, ToggleStateDefault)
	test.That(t, boundColorMap(ms), test.ShouldEqual, def)
}

func TestActionLabel(t *testing.T) {
	test.That(t, ToggleStateDefault.ActionLabel(), test.ShouldEqual, "set color")
	test.That(t, ToggleStateAlternate.ActionLabel(), test.ShouldEqual, "reset color")
	test.That(t, ToggleStateAlternate.String(), test.ShouldEqual, "alternate")
}

func TestToggleWhileRendererReads(t *testing.T) {
	ms := newTestSwitcher(t)
	alt := ms.Bundle().AlternateTexture()
	def := ms.Bundle().DefaultTexture()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			got := boundColorMap(ms)
			if got != alt && got != def {
				t.Error("renderer observed a texture that was never bound")
				return
			}
		}
	}()
	for i := 0; i < 1000; i++ {
		ms.Toggle()
	}
	close(stop)
	wg.Wait()
}
