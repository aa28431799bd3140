// Package assetstest writes small asset files for tests.
package assetstest

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// WritePNG writes a w x h image filled with c to dir/name and returns its path.
func WritePNG(tb testing.TB, dir, name string, w, h int, c color.RGBA) string {
	tb.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		tb.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		tb.Fatal(err)
	}
	return path
}

// ModelOptions describes the single material of a fixture model.
type ModelOptions struct {
	MaterialName string
	BaseColour   *[4]float64
	// TextureURI is referenced as the base colour texture when not empty.
	TextureURI string
}

// WriteQuadModel writes a binary glTF holding one quad (two triangles) to
// dir/name and returns its path.
func WriteQuadModel(tb testing.TB, dir, name string, opts ModelOptions) string {
	tb.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})

	primitive := &gltf.Primitive{
		Indices:    gltf.Index(idx),
		Attributes: map[string]uint32{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
	}

	if opts.MaterialName != "" || opts.BaseColour != nil || opts.TextureURI != "" {
		pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: opts.BaseColour}
		if opts.TextureURI != "" {
			doc.Images = append(doc.Images, &gltf.Image{URI: opts.TextureURI})
			doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(uint32(len(doc.Images) - 1))})
			pbr.BaseColorTexture = &gltf.TextureInfo{Index: uint32(len(doc.Textures) - 1)}
		}
		doc.Materials = append(doc.Materials, &gltf.Material{Name: opts.MaterialName, PBRMetallicRoughness: pbr})
		primitive.Material = gltf.Index(uint32(len(doc.Materials) - 1))
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "quad", Primitives: []*gltf.Primitive{primitive}})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "quad", Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatal(err)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		tb.Fatal(err)
	}
	return path
}
