package math

import (
	"testing"

	"go.viam.com/test"
)

func TestClamp(t *testing.T) {
	test.That(t, Clamp(5, 0, 3), test.ShouldEqual, 3)
	test.That(t, Clamp(-1.5, 0.0, 1.0), test.ShouldEqual, 0.0)
	test.That(t, Clamp(uint32(2), 1, 4), test.ShouldEqual, uint32(2))

	c := ClampVec4(NewVec4(1.5, -0.25, 0.5, 1))
	test.That(t, c, test.ShouldResemble, Vec4{X: 1, Y: 0, Z: 0.5, W: 1})
}

func TestExtentsOf(t *testing.T) {
	test.That(t, ExtentsOf(nil), test.ShouldResemble, Extents3D{})

	ext := ExtentsOf([]Vertex3D{
		{Position: NewVec3(0, 1, 0)},
		{Position: NewVec3(-1, 0, 2)},
		{Position: NewVec3(1, -1, 0)},
	})
	test.That(t, ext.Min, test.ShouldResemble, NewVec3(-1, -1, 0))
	test.That(t, ext.Max, test.ShouldResemble, NewVec3(1, 1, 2))
}
