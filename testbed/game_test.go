package testbed

import (
	"bytes"
	"image/color"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/spaghettifunk/setmaterial/engine"
	"github.com/spaghettifunk/setmaterial/engine/assets"
	"github.com/spaghettifunk/setmaterial/engine/assets/assetstest"
	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
	"github.com/spaghettifunk/setmaterial/engine/systems"
)

// newTestbed wires a TestGame the way the engine does, minus the window.
func newTestbed(t *testing.T, material engine.MaterialConfig) (*TestGame, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	assetstest.WriteQuadModel(t, dir, "models/board.glb", assetstest.ModelOptions{MaterialName: "Board"})
	assetstest.WritePNG(t, dir, "textures/board_red.png", 2, 2, color.RGBA{R: 255, A: 255})

	logs := &bytes.Buffer{}
	logger := core.NewLogger(logs, core.DebugLevel)
	am, err := assets.NewAssetManager(logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, am.Initialize(dir), test.ShouldBeNil)

	mt := core.NewMainThread(8)
	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{WorkerCount: 2, JobQueueSize: 4}, mt, am, logger)
	test.That(t, err, test.ShouldBeNil)
	t.Cleanup(func() {
		_ = sm.Shutdown()
		_ = am.Shutdown()
	})

	cfg := engine.DefaultApplicationConfig()
	cfg.AssetsDir = dir
	cfg.Material = material

	g := NewTestGame(cfg)
	events := core.NewEventSystem()
	g.SystemManager = sm
	g.MainThread = mt
	g.Events = events
	g.Input = core.NewInput(events)
	g.Logger = logger
	return g, logs
}

func pumpUntil(t *testing.T, mt *core.MainThread, cond func() bool) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		mt.Pump()
		if cond() {
			return
		}
		select {
		case <-mt.Wake():
		case <-deadline:
			t.Fatal("condition not met before deadline")
		}
	}
}

func TestTestbedPlaceToggleReset(t *testing.T) {
	g, logs := newTestbed(t, engine.DefaultApplicationConfig().Material)
	test.That(t, g.Initialize(), test.ShouldBeNil)
	state := g.State.(*gameState)

	// nothing is ready yet: clicks are ignored, toggles disabled
	g.Input.ProcessButton(core.BUTTON_LEFT, true)
	g.Input.ProcessButton(core.BUTTON_LEFT, false)
	test.That(t, g.Placements(), test.ShouldBeEmpty)
	g.Input.ProcessKey(core.KEY_T, true)
	g.Input.ProcessKey(core.KEY_T, false)
	test.That(t, logs.String(), test.ShouldContainSubstring, "toggle disabled")

	pumpUntil(t, g.MainThread, func() bool { return state.switcher != nil })
	test.That(t, state.displayModel.Material(), test.ShouldEqual, state.bundle.Material())
	test.That(t, g.Label(), test.ShouldEqual, "set color")

	g.Input.ProcessMouseMove(10, 20)
	g.Input.ProcessButton(core.BUTTON_LEFT, true)
	test.That(t, g.Placements(), test.ShouldHaveLength, 1)
	test.That(t, g.Placements()[0].X, test.ShouldEqual, 10)
	test.That(t, g.Placements()[0].Y, test.ShouldEqual, 20)

	g.Input.ProcessKey(core.KEY_T, true)
	test.That(t, g.Label(), test.ShouldEqual, "reset color")
	slot := state.displayModel.Material().Texture(metadata.ColorMapSlot)
	test.That(t, slot, test.ShouldEqual, state.bundle.AlternateTexture())
	g.Input.ProcessKey(core.KEY_T, false)

	g.Input.ProcessKey(core.KEY_R, true)
	test.That(t, g.Label(), test.ShouldEqual, "set color")
	slot = state.displayModel.Material().Texture(metadata.ColorMapSlot)
	test.That(t, slot, test.ShouldEqual, state.bundle.DefaultTexture())

	test.That(t, g.Shutdown(), test.ShouldBeNil)
}

func TestTestbedLoadFailureDisablesControls(t *testing.T) {
	material := engine.DefaultApplicationConfig().Material
	material.AlternateTexture = "textures/missing.png"
	g, logs := newTestbed(t, material)
	test.That(t, g.Initialize(), test.ShouldBeNil)
	state := g.State.(*gameState)

	pumpUntil(t, g.MainThread, func() bool { return state.loadFailed })
	test.That(t, state.switcher, test.ShouldBeNil)

	g.Input.ProcessKey(core.KEY_R, true)
	test.That(t, logs.String(), test.ShouldContainSubstring, "reset disabled")
	test.That(t, g.Label(), test.ShouldEqual, "set color")
}

func TestTestbedMissingLocator(t *testing.T) {
	material := engine.DefaultApplicationConfig().Material
	material.Model = ""
	g, _ := newTestbed(t, material)
	test.That(t, g.Initialize(), test.ShouldNotBeNil)
}

func TestTestbedShutdownBeforeStartup(t *testing.T) {
	g := NewTestGame(engine.DefaultApplicationConfig())
	test.That(t, g.Events, test.ShouldBeNil)
	test.That(t, g.Shutdown(), test.ShouldBeNil)
}
