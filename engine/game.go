package engine

import (
	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/systems"
)

// Game is implemented by the application driving the engine. The engine
// fills in the handles before FnInitialize runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	MainThread        *core.MainThread
	Events            *core.EventSystem
	Input             *core.Input
	Logger            *log.Logger
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
