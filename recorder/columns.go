package recorder

import (
	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/viant/houlog/geo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Columns are the flattened export attributes. Row i of every column
// describes the same entry.
type Columns struct {
	// Positions holds x, y, z per row.
	Positions []float32
	Names     []string
	Kinds     []string
	// Times holds the 1-based frame index of each row.
	Times []float32
	// Metadata holds the JSON encoded document of each row.
	Metadata []string
}

// Rows returns the number of rows.
func (c Columns) Rows() int { return len(c.Names) }

// Flatten walks frames in order and their entries in recording order,
// producing one row per entry.
func Flatten(frames []Frame) (Columns, error) {
	n := 0
	for _, f := range frames {
		n += len(f.Entries)
	}
	c := Columns{
		Positions: make([]float32, 0, 3*n),
		Names:     make([]string, 0, n),
		Kinds:     make([]string, 0, n),
		Times:     make([]float32, 0, n),
		Metadata:  make([]string, 0, n),
	}
	for i, f := range frames {
		t := float32(i + 1)
		for _, e := range f.Entries {
			doc, err := e.Value.Metadata()
			if err != nil {
				return Columns{}, errors.Mark(errors.Wrapf(err, "recorder: metadata of %q in frame %d", e.Name, i), ErrSerialization)
			}
			data, err := json.Marshal(doc)
			if err != nil {
				return Columns{}, errors.Mark(errors.Wrapf(err, "recorder: encode metadata of %q in frame %d", e.Name, i), ErrSerialization)
			}
			p := e.Value.Position()
			c.Positions = append(c.Positions, p[0], p[1], p[2])
			c.Names = append(c.Names, e.Name)
			c.Kinds = append(c.Kinds, e.Value.Kind())
			c.Times = append(c.Times, t)
			c.Metadata = append(c.Metadata, string(data))
		}
	}
	return c, nil
}

// Geometry returns the columns as point attributes of a single mesh part.
func (c Columns) Geometry() *geo.Geometry {
	n := c.Rows()
	point := func(name string, storage geo.Storage, size int) geo.AttributeInfo {
		info := geo.AttributeInfo{Name: name, Owner: geo.OwnerPoint, Storage: storage, TupleSize: size, Count: n}
		if name == geo.AttrP {
			info.TypeInfo = geo.TypeInfoPoint
		}
		return info
	}
	return &geo.Geometry{
		Part: geo.PartInfo{Type: geo.PartMesh, PointCount: n},
		Attributes: []*geo.Attribute{
			{Info: point(geo.AttrP, geo.StorageFloat, 3), Floats: c.Positions},
			{Info: point(geo.AttrName, geo.StorageString, 1), Strings: c.Names},
			{Info: point(geo.AttrKind, geo.StorageString, 1), Strings: c.Kinds},
			{Info: point(geo.AttrTime, geo.StorageFloat, 1), Floats: c.Times},
			{Info: point(geo.AttrMetadata, geo.StorageString, 1), Strings: c.Metadata},
		},
	}
}
