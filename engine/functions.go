package engine

import (
	"database/sql/driver"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/geo"
	"github.com/viant/vec/search"
	sqlite "modernc.org/sqlite"
)

var registerOnce sync.Once

// RegisterGeoFunctions registers geo_distance with the driver so it is
// available on new connections opened after this call. Existing open
// connections will not see the function. Safe to call repeatedly.
//
//	geo_distance(a BLOB, b BLOB) -> REAL
//
// returns the Euclidean distance between two float32 BLOBs of equal length,
// or NULL when either argument is NULL.
func RegisterGeoFunctions() error {
	var err error
	registerOnce.Do(func() {
		err = sqlite.RegisterDeterministicScalarFunction("geo_distance", 2, geoDistanceImpl)
	})
	return err
}

func asFloats(arg driver.Value) ([]float32, error) {
	switch v := arg.(type) {
	case nil:
		return nil, nil
	case []byte:
		return geo.DecodeFloats(v)
	default:
		return nil, errors.Newf("geo_distance: unsupported argument type %T; want BLOB", arg)
	}
}

func geoDistanceImpl(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	if len(args) != 2 {
		return nil, errors.Newf("geo_distance: expected 2 arguments, got %d", len(args))
	}
	a, err := asFloats(args[0])
	if err != nil {
		return nil, err
	}
	b, err := asFloats(args[1])
	if err != nil {
		return nil, err
	}
	if a == nil || b == nil {
		return nil, nil
	}
	d, err := distance(a, b)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func distance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Newf("geo_distance: dimension mismatch %d vs %d", len(a), len(b))
	}
	return float64(search.Float32s(a).EuclideanDistance(b)), nil
}
