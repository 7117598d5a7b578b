package loggable

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrInvalid is returned for values that violate their shape invariants.
	ErrInvalid = errors.New("loggable: invalid value")
	// ErrUnsupported is returned by Convert for types it does not recognize.
	ErrUnsupported = errors.New("loggable: unsupported type")
	// ErrUnknownKind is returned by Convert for values whose kind is not registered.
	ErrUnknownKind = errors.New("loggable: unknown kind")
)

// Document is a JSON-shaped metadata document: nested maps, slices, numbers
// and strings.
type Document map[string]interface{}

// Value is a recordable geometric value.
type Value interface {
	// Kind returns the discriminator of the variant. It must not depend on
	// instance data.
	Kind() string
	// Position returns a representative point of the value.
	Position() mgl32.Vec3
	// Metadata returns the full payload of the value.
	Metadata() (Document, error)
}

// Validator is implemented by values with shape invariants.
type Validator interface {
	Validate() error
}

// Converter is implemented by producer types that normalize themselves into a
// Value before they are recorded.
type Converter interface {
	ToLoggable() Value
}

// cloner is implemented by variants holding slices; clone returns a copy that
// shares no memory with the producer.
type cloner interface {
	clone() Value
}

func invalidf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf("loggable: "+format, args...), ErrInvalid)
}

func vec(v mgl32.Vec3) []float32 { return []float32{v[0], v[1], v[2]} }

// columns splits points into parallel x, y and z slices.
func columns(points []mgl32.Vec3) (x, y, z []float32) {
	x = make([]float32, len(points))
	y = make([]float32, len(points))
	z = make([]float32, len(points))
	for i, p := range points {
		x[i], y[i], z[i] = p[0], p[1], p[2]
	}
	return x, y, z
}

func first(points []mgl32.Vec3) mgl32.Vec3 {
	if len(points) == 0 {
		return mgl32.Vec3{}
	}
	return points[0]
}

func translation(m mgl32.Mat4) mgl32.Vec3 { return m.Col(3).Vec3() }

func finite(kind string, values ...float32) error {
	for i, v := range values {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return invalidf("%s has non-finite value %v at %d", kind, v, i)
		}
	}
	return nil
}

func finitePoints(kind string, points []mgl32.Vec3) error {
	for _, p := range points {
		if err := finite(kind, p[:]...); err != nil {
			return err
		}
	}
	return nil
}
