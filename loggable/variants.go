package loggable

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Built-in kinds.
const (
	KindPoint     = "vec3"
	KindTransform = "mat4"
	KindRotation  = "quat"
	KindScalar    = "float"
	KindPolyline  = "line"
	KindPolygon   = "polygon"
	KindMesh      = "mesh"
	KindArmature  = "armature"
	KindCapsule   = "capsule"
	KindSphere    = "sphere"
)

// Point is a single position.
type Point mgl32.Vec3

func (p Point) Kind() string         { return KindPoint }
func (p Point) Position() mgl32.Vec3 { return mgl32.Vec3(p) }
func (p Point) Metadata() (Document, error) {
	return Document{"pt": vec(mgl32.Vec3(p))}, nil
}

func (p Point) Validate() error { return finite(KindPoint, p[:]...) }

// Transform is a 4x4 affine transform. Its document lists the x, y and z
// basis vectors followed by the translation, four values each.
type Transform mgl32.Mat4

func (t Transform) Kind() string         { return KindTransform }
func (t Transform) Position() mgl32.Vec3 { return translation(mgl32.Mat4(t)) }
func (t Transform) Metadata() (Document, error) {
	xform := make([]float32, 16)
	copy(xform, t[:])
	return Document{"xform": xform}, nil
}

func (t Transform) Validate() error { return finite(KindTransform, t[:]...) }

// Rotation is a unit quaternion. Its document orders components x, y, z, w.
type Rotation mgl32.Quat

func (r Rotation) Kind() string         { return KindRotation }
func (r Rotation) Position() mgl32.Vec3 { return mgl32.Vec3{} }
func (r Rotation) Metadata() (Document, error) {
	return Document{"quat": []float32{r.V[0], r.V[1], r.V[2], r.W}}, nil
}

func (r Rotation) Validate() error { return finite(KindRotation, r.V[0], r.V[1], r.V[2], r.W) }

// Scalar is a single number.
type Scalar float32

func (s Scalar) Kind() string         { return KindScalar }
func (s Scalar) Position() mgl32.Vec3 { return mgl32.Vec3{} }
func (s Scalar) Metadata() (Document, error) {
	return Document{"float": float32(s)}, nil
}

func (s Scalar) Validate() error { return finite(KindScalar, float32(s)) }

// Line is a segment. It is recorded as a two point Polyline.
type Line struct {
	Start mgl32.Vec3
	End   mgl32.Vec3
}

// NewLine returns a segment from start to end.
func NewLine(start, end mgl32.Vec3) Line { return Line{Start: start, End: end} }

// ToLoggable implements Converter.
func (l Line) ToLoggable() Value { return Polyline{Points: []mgl32.Vec3{l.Start, l.End}} }

// Polyline is an open sequence of at least one point.
type Polyline struct {
	Points []mgl32.Vec3
}

// NewPolyline returns a polyline through points.
func NewPolyline(points ...mgl32.Vec3) Polyline { return Polyline{Points: points} }

func (p Polyline) Kind() string         { return KindPolyline }
func (p Polyline) Position() mgl32.Vec3 { return first(p.Points) }
func (p Polyline) Metadata() (Document, error) {
	x, y, z := columns(p.Points)
	return Document{"x": x, "y": y, "z": z}, nil
}

func (p Polyline) Validate() error {
	if len(p.Points) == 0 {
		return invalidf("%s has no points", KindPolyline)
	}
	return finitePoints(KindPolyline, p.Points)
}

func (p Polyline) clone() Value {
	return Polyline{Points: append([]mgl32.Vec3(nil), p.Points...)}
}

// Polygon is a closed loop of at least one point.
type Polygon struct {
	Points []mgl32.Vec3
}

// NewPolygon returns a closed loop through points.
func NewPolygon(points ...mgl32.Vec3) Polygon { return Polygon{Points: points} }

func (p Polygon) Kind() string         { return KindPolygon }
func (p Polygon) Position() mgl32.Vec3 { return first(p.Points) }
func (p Polygon) Metadata() (Document, error) {
	x, y, z := columns(p.Points)
	return Document{"x": x, "y": y, "z": z}, nil
}

func (p Polygon) Validate() error {
	if len(p.Points) == 0 {
		return invalidf("%s has no points", KindPolygon)
	}
	return finitePoints(KindPolygon, p.Points)
}

func (p Polygon) clone() Value {
	return Polygon{Points: append([]mgl32.Vec3(nil), p.Points...)}
}

// Mesh is an indexed polygon mesh. IndexCounts holds the vertex count of each
// face so Indices can be split back into faces.
type Mesh struct {
	Vertices    []mgl32.Vec3
	Indices     []int
	IndexCounts []int
}

// NewMesh returns a mesh.
func NewMesh(vertices []mgl32.Vec3, indices, indexCounts []int) Mesh {
	return Mesh{Vertices: vertices, Indices: indices, IndexCounts: indexCounts}
}

func (m Mesh) Kind() string         { return KindMesh }
func (m Mesh) Position() mgl32.Vec3 { return first(m.Vertices) }
func (m Mesh) Metadata() (Document, error) {
	x, y, z := columns(m.Vertices)
	i := append([]int{}, m.Indices...)
	c := append([]int{}, m.IndexCounts...)
	return Document{"x": x, "y": y, "z": z, "i": i, "c": c}, nil
}

func (m Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return invalidf("%s has no vertices", KindMesh)
	}
	sum := 0
	for _, c := range m.IndexCounts {
		if c < 0 {
			return invalidf("%s has negative face size %d", KindMesh, c)
		}
		sum += c
	}
	if sum != len(m.Indices) {
		return invalidf("%s face sizes sum to %d, have %d indices", KindMesh, sum, len(m.Indices))
	}
	for _, idx := range m.Indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return invalidf("%s index %d out of range [0,%d)", KindMesh, idx, len(m.Vertices))
		}
	}
	return finitePoints(KindMesh, m.Vertices)
}

func (m Mesh) clone() Value {
	return Mesh{
		Vertices:    append([]mgl32.Vec3(nil), m.Vertices...),
		Indices:     append([]int(nil), m.Indices...),
		IndexCounts: append([]int(nil), m.IndexCounts...),
	}
}

// Armature is a joint hierarchy. Parents holds the parent index of every joint,
// -1 for roots.
type Armature struct {
	Names   []string
	Parents []int32
	Xforms  []mgl32.Mat4
}

// NewArmature returns an armature.
func NewArmature(names []string, parents []int32, xforms []mgl32.Mat4) Armature {
	return Armature{Names: names, Parents: parents, Xforms: xforms}
}

func (a Armature) Kind() string { return KindArmature }

func (a Armature) Position() mgl32.Vec3 {
	if len(a.Xforms) == 0 {
		return mgl32.Vec3{}
	}
	return translation(a.Xforms[0])
}

// Metadata lists the transforms column by column, 16 values per joint.
func (a Armature) Metadata() (Document, error) {
	xforms := make([]float32, 0, 16*len(a.Xforms))
	for _, m := range a.Xforms {
		xforms = append(xforms, m[:]...)
	}
	return Document{
		"names":   append([]string{}, a.Names...),
		"xforms":  xforms,
		"parents": append([]int32{}, a.Parents...),
	}, nil
}

func (a Armature) Validate() error {
	n := len(a.Names)
	if n == 0 {
		return invalidf("%s has no joints", KindArmature)
	}
	if len(a.Parents) != n || len(a.Xforms) != n {
		return invalidf("%s has %d names, %d parents and %d transforms", KindArmature, n, len(a.Parents), len(a.Xforms))
	}
	for i, p := range a.Parents {
		if p != -1 && (p < 0 || int(p) >= n) {
			return invalidf("%s joint %d has parent %d", KindArmature, i, p)
		}
	}
	for _, m := range a.Xforms {
		if err := finite(KindArmature, m[:]...); err != nil {
			return err
		}
	}
	return nil
}

func (a Armature) clone() Value {
	return Armature{
		Names:   append([]string(nil), a.Names...),
		Parents: append([]int32(nil), a.Parents...),
		Xforms:  append([]mgl32.Mat4(nil), a.Xforms...),
	}
}

// Capsule is a segment swept by a sphere.
type Capsule struct {
	A      mgl32.Vec3
	B      mgl32.Vec3
	Radius float32
}

// NewCapsule returns a capsule.
func NewCapsule(a, b mgl32.Vec3, radius float32) Capsule {
	return Capsule{A: a, B: b, Radius: radius}
}

func (c Capsule) Kind() string         { return KindCapsule }
func (c Capsule) Position() mgl32.Vec3 { return c.A.Add(c.B).Mul(0.5) }
func (c Capsule) Metadata() (Document, error) {
	return Document{"a": vec(c.A), "b": vec(c.B), "r": c.Radius}, nil
}

func (c Capsule) Validate() error {
	if c.Radius < 0 {
		return invalidf("%s has negative radius %v", KindCapsule, c.Radius)
	}
	return finite(KindCapsule, c.A[0], c.A[1], c.A[2], c.B[0], c.B[1], c.B[2], c.Radius)
}

// Sphere is a ball. The center is carried by Position only; the document
// holds just the radius.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// NewSphere returns a sphere.
func NewSphere(center mgl32.Vec3, radius float32) Sphere {
	return Sphere{Center: center, Radius: radius}
}

func (s Sphere) Kind() string         { return KindSphere }
func (s Sphere) Position() mgl32.Vec3 { return s.Center }
func (s Sphere) Metadata() (Document, error) {
	return Document{"radius": s.Radius}, nil
}

func (s Sphere) Validate() error {
	if s.Radius < 0 {
		return invalidf("%s has negative radius %v", KindSphere, s.Radius)
	}
	return finite(KindSphere, s.Center[0], s.Center[1], s.Center[2], s.Radius)
}
