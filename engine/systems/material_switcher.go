package systems

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

// ToggleState is which colour map the bundle's material currently shows.
type ToggleState int

const (
	ToggleStateDefault ToggleState = iota
	ToggleStateAlternate
)

func (s ToggleState) String() string {
	switch s {
	case ToggleStateDefault:
		return "default"
	case ToggleStateAlternate:
		return "alternate"
	default:
		return fmt.Sprintf("ToggleState(%d)", int(s))
	}
}

// ActionLabel is the label of the control that performs the next toggle.
func (s ToggleState) ActionLabel() string {
	if s == ToggleStateAlternate {
		return "reset color"
	}
	return "set color"
}

// MaterialSwitcher flips the colour map of a loaded material between the
// default and the alternate texture. Main thread only.
type MaterialSwitcher struct {
	bundle *LoadBundle
	state  ToggleState
	logger *log.Logger
}

// NewMaterialSwitcher binds the default texture so that the slot agrees with
// the initial state.
func NewMaterialSwitcher(bundle *LoadBundle, logger *log.Logger) (*MaterialSwitcher, error) {
	if bundle == nil {
		return nil, &core.PreconditionError{Field: "load bundle"}
	}
	ms := &MaterialSwitcher{
		bundle: bundle,
		state:  ToggleStateDefault,
		logger: logger,
	}
	ms.bind(bundle.DefaultTexture())
	return ms, nil
}

// Toggle swaps the bound colour map and returns the new state.
func (ms *MaterialSwitcher) Toggle() ToggleState {
	if ms.state == ToggleStateDefault {
		ms.bind(ms.bundle.AlternateTexture())
		ms.state = ToggleStateAlternate
	} else {
		ms.bind(ms.bundle.DefaultTexture())
		ms.state = ToggleStateDefault
	}
	ms.logger.Debug("toggled color map", "state", ms.state)
	return ms.state
}

// Reset binds the default texture whatever the current state.
func (ms *MaterialSwitcher) Reset() {
	ms.bind(ms.bundle.DefaultTexture())
	ms.state = ToggleStateDefault
	ms.logger.Debug("reset color map")
}

func (ms *MaterialSwitcher) State() ToggleState {
	return ms.state
}

func (ms *MaterialSwitcher) Bundle() *LoadBundle {
	return ms.bundle
}

func (ms *MaterialSwitcher) bind(t *metadata.Texture) {
	if err := ms.bundle.Material().SetTexture(metadata.ColorMapSlot, t); err != nil {
		ms.logger.Error("unable to bind color map", "texture", t.Source, "err", err)
	}
}
