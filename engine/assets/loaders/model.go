package loaders

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/spaghettifunk/setmaterial/engine/math"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

var (
	ErrNoGeometry  = errors.New("model contains no triangle geometry")
	ErrBadAccessor = errors.New("accessor reference out of range")
)

// ModelLoader reads .gltf and .glb files. Only triangle list primitives are
// imported; the material of the first primitive becomes the model material.
type ModelLoader struct{}

func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model %q: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data := &metadata.ModelResourceData{
		Name:         name,
		MaterialName: metadata.DefaultMaterialName,
		BaseColour:   math.NewVec4(1, 1, 1, 1),
	}

	var material *uint32
	for mi, mesh := range doc.Meshes {
		for pi, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}
			geometry, err := readGeometry(doc, primitive)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			if geometry == nil {
				continue
			}
			geometry.Name = fmt.Sprintf("%s_%d_%d", name, mi, pi)
			data.Geometries = append(data.Geometries, geometry)
			if material == nil && primitive.Material != nil {
				material = primitive.Material
			}
		}
	}
	if len(data.Geometries) == 0 {
		return nil, fmt.Errorf("%q: %w", path, ErrNoGeometry)
	}

	if material != nil && int(*material) < len(doc.Materials) {
		applyMaterial(doc, doc.Materials[*material], filepath.Dir(path), data)
	}

	size := uint64(0)
	for _, g := range data.Geometries {
		size += uint64(len(g.Vertices))*32 + uint64(len(g.Indices))*4
	}
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		DataSize: size,
		Data:     data,
	}, nil
}

func (ml *ModelLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return nil
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// accessor resolves idx and checks that the buffer view and buffer it refers
// to exist in doc.
func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrBadAccessor)
	}
	acr := doc.Accessors[idx]
	if acr == nil {
		return nil, fmt.Errorf("accessor %d: %w", idx, ErrBadAccessor)
	}
	if acr.BufferView != nil {
		if int(*acr.BufferView) >= len(doc.BufferViews) || doc.BufferViews[*acr.BufferView] == nil {
			return nil, fmt.Errorf("accessor %d buffer view %d: %w", idx, *acr.BufferView, ErrBadAccessor)
		}
		if int(doc.BufferViews[*acr.BufferView].Buffer) >= len(doc.Buffers) {
			return nil, fmt.Errorf("accessor %d buffer %d: %w", idx, doc.BufferViews[*acr.BufferView].Buffer, ErrBadAccessor)
		}
	}
	if acr.Sparse != nil {
		if int(acr.Sparse.Indices.BufferView) >= len(doc.BufferViews) || int(acr.Sparse.Values.BufferView) >= len(doc.BufferViews) {
			return nil, fmt.Errorf("accessor %d sparse buffer view: %w", idx, ErrBadAccessor)
		}
	}
	return acr, nil
}

func readGeometry(doc *gltf.Document, primitive *gltf.Primitive) (*metadata.Geometry, error) {
	posIdx, ok := primitive.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", gltf.POSITION, err)
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, err
	}

	var normals [][3]float32
	if idx, ok := primitive.Attributes[gltf.NORMAL]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return nil, fmt.Errorf("%s: %w", gltf.NORMAL, err)
		}
		if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
			return nil, err
		}
	}
	var texcoords [][2]float32
	if idx, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
		if acr, err = accessor(doc, idx); err != nil {
			return nil, fmt.Errorf("%s: %w", gltf.TEXCOORD_0, err)
		}
		if texcoords, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
			return nil, err
		}
	}

	var indices []uint32
	if primitive.Indices != nil {
		if acr, err = accessor(doc, *primitive.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		if indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, err
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range for %d vertices", i, len(positions))
		}
	}

	vertices := make([]math.Vertex3D, len(positions))
	for i, p := range positions {
		vertices[i].Position = math.NewVec3(p[0], p[1], p[2])
		if i < len(normals) {
			vertices[i].Normal = math.NewVec3(normals[i][0], normals[i][1], normals[i][2])
		}
		if i < len(texcoords) {
			vertices[i].Texcoord = math.Vec2{X: texcoords[i][0], Y: texcoords[i][1]}
		}
	}

	return &metadata.Geometry{
		Vertices: vertices,
		Indices:  indices,
		Extents:  math.ExtentsOf(vertices),
	}, nil
}

func applyMaterial(doc *gltf.Document, m *gltf.Material, dir string, data *metadata.ModelResourceData) {
	if m.Name != "" {
		data.MaterialName = m.Name
	}
	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if f := pbr.BaseColorFactor; f != nil {
		data.BaseColour = math.ClampVec4(math.NewVec4(float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])))
	}
	if pbr.BaseColorTexture == nil || int(pbr.BaseColorTexture.Index) >= len(doc.Textures) {
		return
	}
	texture := doc.Textures[pbr.BaseColorTexture.Index]
	if texture.Source == nil || int(*texture.Source) >= len(doc.Images) {
		return
	}
	// Images embedded in a buffer or a data URI are not addressable by path.
	img := doc.Images[*texture.Source]
	if img.URI == "" || img.IsEmbeddedResource() {
		return
	}
	uri, err := url.PathUnescape(img.URI)
	if err != nil {
		uri = img.URI
	}
	data.BaseColourTexturePath = filepath.Join(dir, filepath.FromSlash(uri))
}
