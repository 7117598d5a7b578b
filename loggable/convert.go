package loggable

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// Convert normalizes v into a registered, valid Value. Slice-backed variants
// are copied, so the result shares no memory with v.
//
// Values convert to themselves, Converters through ToLoggable. The mgl32
// vector, matrix and quaternion types, plain numbers and []mgl32.Vec3 map to
// Point, Transform, Rotation, Scalar and Polyline.
func Convert(v interface{}) (Value, error) {
	var out Value
	switch actual := v.(type) {
	case nil:
		return nil, errors.Wrap(ErrUnsupported, "loggable: nil value")
	case Value:
		out = actual
	case Converter:
		out = actual.ToLoggable()
		if out == nil {
			return nil, errors.Wrapf(ErrUnsupported, "loggable: %T converted to nil", v)
		}
	case mgl32.Vec3:
		out = Point(actual)
	case mgl32.Mat4:
		out = Transform(actual)
	case mgl32.Quat:
		out = Rotation(actual)
	case float32:
		out = Scalar(actual)
	case float64:
		out = Scalar(float32(actual))
	case int:
		out = Scalar(float32(actual))
	case []mgl32.Vec3:
		out = Polyline{Points: actual}
	default:
		return nil, errors.Wrapf(ErrUnsupported, "loggable: %T", v)
	}
	if kind := out.Kind(); !IsRegistered(kind) {
		return nil, errors.Wrapf(ErrUnknownKind, "loggable: %q", kind)
	}
	if c, ok := out.(cloner); ok {
		out = c.clone()
	}
	if validator, ok := out.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
