package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/setmaterial/engine/platform"
)

// MaterialConfig names the resources the material demo loads.
type MaterialConfig struct {
	// Model carrying the material whose colour map is switched.
	Model string `toml:"model"`
	// Colour map bound by the toggle.
	AlternateTexture string `toml:"alternate_texture"`
	// Colour map bound initially and by reset.
	DefaultTexture string `toml:"default_texture"`
	// Model shown at the placement, drawn with the loaded material.
	DisplayModel string `toml:"display_model"`
}

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// Directory the asset locators are relative to.
	AssetsDir    string `toml:"assets_dir"`
	WorkerCount  int    `toml:"worker_count"`
	JobQueueSize int    `toml:"job_queue_size"`
	// Lowest OpenGL context version the host accepts, "major.minor".
	MinGLVersion string         `toml:"min_gl_version"`
	Material     MaterialConfig `toml:"material"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:    100,
		StartPosY:    100,
		StartWidth:   1280,
		StartHeight:  720,
		Name:         "Set Material",
		LogLevel:     "info",
		AssetsDir:    "assets",
		WorkerCount:  4,
		JobQueueSize: 16,
		MinGLVersion: "3.0",
		Material: MaterialConfig{
			Model:            "models/board.glb",
			AlternateTexture: "textures/board_red.png",
			DefaultTexture:   "builtin://default_DIFF",
			DisplayModel:     "models/board.glb",
		},
	}
}

// LoadApplicationConfig decodes the TOML file at path over the defaults. A
// missing file yields the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ApplicationConfig) Validate() error {
	if c.StartWidth == 0 || c.StartHeight == 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.StartWidth, c.StartHeight)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("worker_count must be at least 1, got %d", c.WorkerCount)
	}
	if c.JobQueueSize < 0 {
		return fmt.Errorf("job_queue_size must not be negative, got %d", c.JobQueueSize)
	}
	if _, err := platform.ParseGLVersion(c.MinGLVersion); err != nil {
		return err
	}
	return nil
}
