package platform

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/setmaterial/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// GLVersion is an OpenGL context version.
type GLVersion struct {
	Major int
	Minor int
}

// ParseGLVersion accepts "major" or "major.minor".
func ParseGLVersion(s string) (GLVersion, error) {
	majorStr, minorStr, found := strings.Cut(strings.TrimSpace(s), ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil || major < 1 {
		return GLVersion{}, fmt.Errorf("invalid OpenGL version '%s'", s)
	}
	minor := 0
	if found {
		if minor, err = strconv.Atoi(minorStr); err != nil || minor < 0 {
			return GLVersion{}, fmt.Errorf("invalid OpenGL version '%s'", s)
		}
	}
	return GLVersion{Major: major, Minor: minor}, nil
}

func (v GLVersion) AtLeast(other GLVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

func (v GLVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

type Platform struct {
	Window *glfw.Window

	input  *core.Input
	events *core.EventSystem
	logger *log.Logger
}

func New(input *core.Input, events *core.EventSystem, logger *log.Logger) *Platform {
	return &Platform{
		input:  input,
		events: events,
		logger: logger,
	}
}

// Startup opens the window with an OpenGL context of at least minGL. A
// driver that cannot provide one fails with core.ErrUnsupportedEnvironment.
func (p *Platform) Startup(applicationName string, x, y, width, height uint32, minGL GLVersion) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, minGL.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, minGL.Minor)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		glfw.Terminate()
		var glfwErr *glfw.Error
		if errors.As(err, &glfwErr) && (glfwErr.Code == glfw.VersionUnavailable || glfwErr.Code == glfw.APIUnavailable) {
			return fmt.Errorf("%w: OpenGL %s is not available: %v", core.ErrUnsupportedEnvironment, minGL, err)
		}
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	p.Window = window

	if err := p.CheckSupported(minGL); err != nil {
		window.Destroy()
		p.Window = nil
		glfw.Terminate()
		return err
	}

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

// CheckSupported compares the version of the current context with minGL.
func (p *Platform) CheckSupported(minGL GLVersion) error {
	if p.Window == nil {
		return fmt.Errorf("%w: no OpenGL context", core.ErrUnsupportedEnvironment)
	}
	got := GLVersion{
		Major: p.Window.GetAttrib(glfw.ContextVersionMajor),
		Minor: p.Window.GetAttrib(glfw.ContextVersionMinor),
	}
	if !got.AtLeast(minGL) {
		return fmt.Errorf("%w: OpenGL %s or later is required, context is %s", core.ErrUnsupportedEnvironment, minGL, got)
	}
	p.logger.Info("OpenGL context ready", "version", got)
	return nil
}

// Shutdown closes the window. A platform without a window holds no glfw
// state; Startup terminates glfw itself when it fails.
func (p *Platform) Shutdown() error {
	if p.Window == nil {
		return nil
	}
	p.Window.Destroy()
	p.Window = nil
	glfw.Terminate()
	return nil
}

// PumpMessages processes window events. It returns false once the window
// was asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return p.Window != nil && !p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	p.Window.SwapBuffers()
}

// GetAbsoluteTime returns seconds since glfw was initialised.
func GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	code, ok := TranslateKey(key)
	if !ok {
		return
	}
	p.input.ProcessKey(code, action != glfw.Release)
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	p.input.ProcessButton(b, action == glfw.Press)
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.input.ProcessMouseMove(clampCoord(xpos), clampCoord(ypos))
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.events.Fire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: uint32(width), WindowHeight: uint32(height)},
	})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}

func clampCoord(v float64) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

// TranslateKey maps a glfw key to the engine key codes.
func TranslateKey(key glfw.Key) (core.KeyCode, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KeyCode(key), true
	case key == glfw.KeySpace:
		return core.KEY_SPACE, true
	case key == glfw.KeyEscape:
		return core.KEY_ESCAPE, true
	case key == glfw.KeyEnter:
		return core.KEY_ENTER, true
	case key == glfw.KeyTab:
		return core.KEY_TAB, true
	case key == glfw.KeyBackspace:
		return core.KEY_BACKSPACE, true
	default:
		return 0, false
	}
}
