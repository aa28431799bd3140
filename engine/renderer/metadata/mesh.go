package metadata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spaghettifunk/setmaterial/engine/math"
)

/**
 * @brief A single drawable primitive: vertices plus triangle indices.
 */
type Geometry struct {
	/** @brief The geometry name. */
	Name string
	/** @brief The vertex data. */
	Vertices []math.Vertex3D
	/** @brief Triangle list indices into Vertices. */
	Indices []uint32
	/** @brief Bounds of the vertex positions. */
	Extents math.Extents3D
}

type Mesh struct {
	Name       string
	Geometries []*Geometry
}

func (m *Mesh) VertexCount() int {
	n := 0
	for _, g := range m.Geometries {
		n += len(g.Vertices)
	}
	return n
}

/** @brief What the fetch pipeline needs to load a renderable. */
type RenderableConfig struct {
	/** @brief Content locator of the model file inside the assets directory. */
	Source string
}

func (c RenderableConfig) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("%w: renderable source is required", ErrInvalidConfig)
	}
	return nil
}

/**
 * @brief A loaded, GPU-ready mesh plus the material it is drawn with.
 */
type Renderable struct {
	ID       uuid.UUID
	Name     string
	Source   string
	Mesh     *Mesh
	material *Material
}

func NewRenderable(name, source string, mesh *Mesh, material *Material) *Renderable {
	return &Renderable{
		ID:       uuid.New(),
		Name:     name,
		Source:   source,
		Mesh:     mesh,
		material: material,
	}
}

func (r *Renderable) Material() *Material {
	return r.material
}

// SetMaterial replaces the material the renderable is drawn with. Main thread only.
func (r *Renderable) SetMaterial(m *Material) {
	r.material = m
}
