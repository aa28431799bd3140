package engine

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/assets"
	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/platform"
	"github.com/spaghettifunk/setmaterial/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

const targetFrameSeconds = 1.0 / 60.0

// suspendedFrameSleep paces the loop while the window is minimized.
const suspendedFrameSleep = time.Duration(targetFrameSeconds * float64(time.Second))

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	minGL         platform.GLVersion
	platform      *platform.Platform
	mainThread    *core.MainThread
	events        *core.EventSystem
	input         *core.Input
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      time.Duration
	logger        *log.Logger
	shutdownOnce  sync.Once
}

// New wires the engine subsystems. Logs go to logOutput.
func New(g *Game, logOutput io.Writer) (*Engine, error) {
	config := g.ApplicationConfig
	if config == nil {
		config = DefaultApplicationConfig()
		g.ApplicationConfig = config
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	minGL, err := platform.ParseGLVersion(config.MinGLVersion)
	if err != nil {
		return nil, err
	}

	logger := core.NewLogger(logOutput, core.ParseLogLevel(config.LogLevel))
	mainThread := core.NewMainThread(64)
	events := core.NewEventSystem()
	input := core.NewInput(events)

	am, err := assets.NewAssetManager(logger.WithPrefix("assets"))
	if err != nil {
		logger.Error("unable to create asset manager", "err", err)
		return nil, err
	}

	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		WorkerCount:  config.WorkerCount,
		JobQueueSize: config.JobQueueSize,
	}, mainThread, am, logger)
	if err != nil {
		logger.Error("unable to create system manager", "err", err)
		_ = am.Shutdown()
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		gameInstance:  g,
		minGL:         minGL,
		platform:      platform.New(input, events, logger.WithPrefix("platform")),
		mainThread:    mainThread,
		events:        events,
		input:         input,
		assetManager:  am,
		systemManager: sm,
		clock:         core.NewClock(),
		isRunning:     true,
		width:         config.StartWidth,
		height:        config.StartHeight,
		logger:        logger,
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	config := e.gameInstance.ApplicationConfig

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	// Shutdown runs FnShutdown even when startup fails.
	e.gameInstance.SystemManager = e.systemManager
	e.gameInstance.MainThread = e.mainThread
	e.gameInstance.Events = e.events
	e.gameInstance.Input = e.input
	e.gameInstance.Logger = e.logger.WithPrefix("game")

	if err := e.platform.Startup(config.Name, config.StartPosX, config.StartPosY, config.StartWidth, config.StartHeight, e.minGL); err != nil {
		e.logger.Error("platform startup failed", "err", err)
		return err
	}

	// initialize subsystems
	if err := e.assetManager.Initialize(config.AssetsDir); err != nil {
		e.logger.Error("asset manager initialization failed", "err", err)
		return err
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if err := e.resize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine must be initialized before running")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
		}

		// Continuations posted by the job system.
		e.mainThread.Pump()

		if e.isSuspended {
			time.Sleep(suspendedFrameSleep)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := (currentTime - e.lastTime).Seconds()
		frameStart := platform.GetAbsoluteTime()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				e.logger.Error("game update failed, shutting down", "err", err)
				e.isRunning = false
				break
			}
		}

		e.platform.SwapBuffers()

		// Give the rest of the frame back to the OS.
		remaining := targetFrameSeconds - (platform.GetAbsoluteTime() - frameStart)
		if remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		e.input.Update()

		e.lastTime = currentTime
	}

	return e.Shutdown()
}

// Quit asks the main loop to stop. Safe from any goroutine.
func (e *Engine) Quit() {
	e.mainThread.Post(func() {
		e.isRunning = false
	})
}

func (e *Engine) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.currentStage = EngineStageShuttingDown
		if e.gameInstance.FnShutdown != nil {
			if gerr := e.gameInstance.FnShutdown(); gerr != nil {
				e.logger.Error("game shutdown failed", "err", gerr)
			}
		}
		if err = e.systemManager.Shutdown(); err != nil {
			return
		}
		if err = e.assetManager.Shutdown(); err != nil {
			return
		}
		if err = e.events.Shutdown(); err != nil {
			return
		}
		err = e.platform.Shutdown()
	})
	return err
}

// GetFramebufferSize returns the width and height (in this order) of the
// application framebuffer.
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) resize(width, height uint32) error {
	e.width = width
	e.height = height
	if width == 0 || height == 0 {
		// Minimized, nothing to draw.
		e.isSuspended = true
		return nil
	}
	e.isSuspended = false
	if e.gameInstance.FnOnResize != nil {
		return e.gameInstance.FnOnResize(width, height)
	}
	return nil
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		e.logger.Info("EVENT_CODE_APPLICATION_QUIT received, shutting down")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		return e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		return false
	}
	if se.WindowWidth == e.width && se.WindowHeight == e.height {
		return false
	}
	e.logger.Debug("window resized", "width", se.WindowWidth, "height", se.WindowHeight)
	if err := e.resize(se.WindowWidth, se.WindowHeight); err != nil {
		e.logger.Error("game resize failed", "err", err)
	}
	return false
}
