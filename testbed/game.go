package testbed

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/setmaterial/engine"
	"github.com/spaghettifunk/setmaterial/engine/async"
	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
	"github.com/spaghettifunk/setmaterial/engine/systems"
)

type TestGame struct {
	*engine.Game
}

// Placement records a surface point the user selected and the anchor the
// display model is attached to.
type Placement struct {
	AnchorID uuid.UUID
	X        uint16
	Y        uint16
}

type gameState struct {
	width  uint32
	height uint32

	bundle       *systems.LoadBundle
	switcher     *systems.MaterialSwitcher
	displayModel *metadata.Renderable
	loadFailed   bool

	placements []Placement
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	g.Logger.Debug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}

	cfg := g.ApplicationConfig.Material
	loader := systems.NewAssetLoader(g.SystemManager, g.Logger.WithPrefix("material"))
	bundle, err := loader.Load(cfg.Model, cfg.AlternateTexture, cfg.DefaultTexture)
	if err != nil {
		g.Logger.Error("unable to start material load", "err", err)
		return err
	}
	display := g.SystemManager.LoadRenderable(metadata.RenderableConfig{Source: cfg.DisplayModel})

	async.All(bundle, display).Then(func(_ struct{}, err error) {
		g.onResourcesLoaded(bundle, display, err)
	})

	g.Events.Register(core.EVENT_CODE_BUTTON_PRESSED, g, g.onButton)
	g.Events.Register(core.EVENT_CODE_KEY_PRESSED, g, g.onKey)

	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	return nil
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

func (g *TestGame) Shutdown() error {
	// Startup failed before the engine handed over its handles.
	if g.Events == nil || g.Logger == nil {
		return nil
	}
	state := g.State.(*gameState)
	g.Events.Unregister(core.EVENT_CODE_BUTTON_PRESSED, g)
	g.Events.Unregister(core.EVENT_CODE_KEY_PRESSED, g)
	g.Logger.Info("testbed shutting down", "placements", len(state.placements))
	return nil
}

// Label is the text of the colour control.
func (g *TestGame) Label() string {
	state := g.State.(*gameState)
	if state.switcher == nil {
		return systems.ToggleStateDefault.ActionLabel()
	}
	return state.switcher.State().ActionLabel()
}

func (g *TestGame) Placements() []Placement {
	return g.State.(*gameState).placements
}

func (g *TestGame) onResourcesLoaded(bundle *async.Future[*systems.LoadBundle], display *async.Future[*metadata.Renderable], err error) {
	state := g.State.(*gameState)
	if err != nil {
		state.loadFailed = true
		g.Logger.Error("material resources unavailable, color controls disabled", "err", err)
		return
	}

	b, _ := bundle.Result()
	model, _ := display.Result()
	model.SetMaterial(b.Material())

	switcher, err := systems.NewMaterialSwitcher(b, g.Logger.WithPrefix("switcher"))
	if err != nil {
		state.loadFailed = true
		g.Logger.Error("unable to create material switcher", "err", err)
		return
	}
	state.bundle = b
	state.displayModel = model
	state.switcher = switcher
	g.Logger.Info("display model ready", "model", model.Source, "label", g.Label())
}

func (g *TestGame) onButton(context core.EventContext) bool {
	me, ok := context.Data.(*core.MouseEvent)
	if !ok || me.Button != core.BUTTON_LEFT {
		return false
	}
	state := g.State.(*gameState)
	if state.displayModel == nil {
		g.Logger.Debug("display model not ready, ignoring placement", "x", me.PosX, "y", me.PosY)
		return true
	}
	p := Placement{AnchorID: uuid.New(), X: me.PosX, Y: me.PosY}
	state.placements = append(state.placements, p)
	g.Logger.Info("placed display model", "anchor", p.AnchorID, "x", p.X, "y", p.Y)
	return true
}

func (g *TestGame) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	state := g.State.(*gameState)

	switch ke.KeyCode {
	case core.KEY_T:
		if state.switcher == nil {
			g.Logger.Warn("toggle disabled, material not loaded")
			return true
		}
		s := state.switcher.Toggle()
		g.Logger.Info("color toggled", "state", s, "label", s.ActionLabel())
		return true
	case core.KEY_R:
		if state.switcher == nil {
			g.Logger.Warn("reset disabled, material not loaded")
			return true
		}
		state.switcher.Reset()
		g.Logger.Info("color reset", "label", g.Label())
		return true
	}
	return false
}
