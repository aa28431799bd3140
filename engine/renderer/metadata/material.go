package metadata

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spaghettifunk/setmaterial/engine/math"
)

/** @brief The name of the default material. */
const DefaultMaterialName string = "default"

/** @brief The material parameter holding the base colour texture. */
const ColorMapSlot string = "baseColorMap"

/**
 * @brief A material, a shader parameter set bound to a renderable. Texture
 * slots are fixed when the material is created; their bindings can change at
 * any time and are read by the renderer every frame.
 */
type Material struct {
	/** @brief The material id. */
	ID uuid.UUID
	/** @brief The material name. */
	Name string
	/** @brief The diffuse colour. */
	DiffuseColour math.Vec4

	slots map[string]*atomic.Pointer[Texture]
	/** @brief Incremented every time a slot is rebound. */
	generation atomic.Uint32
}

func NewMaterial(name string, diffuse math.Vec4, slotNames ...string) *Material {
	m := &Material{
		ID:            uuid.New(),
		Name:          name,
		DiffuseColour: diffuse,
		slots:         make(map[string]*atomic.Pointer[Texture], len(slotNames)),
	}
	for _, s := range slotNames {
		m.slots[s] = &atomic.Pointer[Texture]{}
	}
	return m
}

// SetTexture binds texture to slot. The write is a single pointer store, so
// a concurrent reader sees either the old or the new texture.
func (m *Material) SetTexture(slot string, texture *Texture) error {
	p, ok := m.slots[slot]
	if !ok {
		return fmt.Errorf("%w: material '%s' has no slot '%s'", ErrUnknownTextureSlot, m.Name, slot)
	}
	p.Store(texture)
	m.generation.Add(1)
	return nil
}

// Texture returns the texture bound to slot, or nil.
func (m *Material) Texture(slot string) *Texture {
	p, ok := m.slots[slot]
	if !ok {
		return nil
	}
	return p.Load()
}

func (m *Material) HasSlot(slot string) bool {
	_, ok := m.slots[slot]
	return ok
}

// Slots returns the slot names in lexical order.
func (m *Material) Slots() []string {
	names := make([]string, 0, len(m.slots))
	for s := range m.slots {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

func (m *Material) Generation() uint32 {
	return m.generation.Load()
}
