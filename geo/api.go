package geo

import (
	"github.com/cockroachdb/errors"
)

// Owner identifies the geometry element class an attribute is attached to.
type Owner string

const (
	OwnerPoint  Owner = "point"
	OwnerVertex Owner = "vertex"
	OwnerPrim   Owner = "prim"
	OwnerDetail Owner = "detail"
)

// Storage is the value storage type of an attribute.
type Storage string

const (
	StorageFloat  Storage = "float"
	StorageString Storage = "string"
)

// TypeInfo is an optional hint about how a numeric tuple should be interpreted.
type TypeInfo string

const (
	TypeInfoNone  TypeInfo = ""
	TypeInfoPoint TypeInfo = "point"
)

// Point attribute names written by the recorder. Names and arities are a
// compatibility contract with downstream parsers.
const (
	AttrP        = "P"
	AttrName     = "name"
	AttrKind     = "kind"
	AttrTime     = "time"
	AttrMetadata = "metadata"
)

// PartType names the kind of part held by a geometry.
type PartType string

const (
	PartMesh PartType = "mesh"
)

// PartInfo describes the single part of a geometry.
type PartInfo struct {
	Type       PartType `json:"type"`
	PointCount int      `json:"pointCount"`
}

// AttributeInfo declares an attribute before values are assigned.
type AttributeInfo struct {
	Name      string   `json:"name"`
	Owner     Owner    `json:"owner"`
	Storage   Storage  `json:"storage"`
	TypeInfo  TypeInfo `json:"typeInfo,omitempty"`
	TupleSize int      `json:"tupleSize"`
	Count     int      `json:"count"`
}

// Validate checks that the descriptor is internally consistent.
func (a AttributeInfo) Validate() error {
	if a.Name == "" {
		return errors.New("geo: attribute name is empty")
	}
	if a.TupleSize <= 0 {
		return errors.Newf("geo: attribute %q has tuple size %d", a.Name, a.TupleSize)
	}
	if a.Count < 0 {
		return errors.Newf("geo: attribute %q has negative count %d", a.Name, a.Count)
	}
	switch a.Storage {
	case StorageFloat, StorageString:
	default:
		return errors.Newf("geo: attribute %q has unsupported storage %q", a.Name, a.Storage)
	}
	switch a.Owner {
	case OwnerPoint, OwnerVertex, OwnerPrim, OwnerDetail:
	default:
		return errors.Newf("geo: attribute %q has unknown owner %q", a.Name, a.Owner)
	}
	switch a.TypeInfo {
	case TypeInfoNone:
	case TypeInfoPoint:
		if a.Storage != StorageFloat || a.TupleSize != 3 {
			return errors.Newf("geo: attribute %q: type info %q needs 3 floats", a.Name, a.TypeInfo)
		}
	default:
		return errors.Newf("geo: attribute %q has unknown type info %q", a.Name, a.TypeInfo)
	}
	return nil
}

// Attribute is a declared attribute together with its assigned values. Only
// the slice matching Info.Storage is populated.
type Attribute struct {
	Info    AttributeInfo
	Floats  []float32
	Strings []string
}

// Len returns the number of scalar values held by the attribute.
func (a *Attribute) Len() int {
	if a.Info.Storage == StorageString {
		return len(a.Strings)
	}
	return len(a.Floats)
}

// Validate checks that the value count matches Count * TupleSize.
func (a *Attribute) Validate() error {
	if err := a.Info.Validate(); err != nil {
		return err
	}
	if want := a.Info.Count * a.Info.TupleSize; a.Len() != want {
		return errors.Newf("geo: attribute %q holds %d values, want %d (count %d x tuple %d)",
			a.Info.Name, a.Len(), want, a.Info.Count, a.Info.TupleSize)
	}
	return nil
}

// Geometry is a single-part geometry with named attributes kept in declaration
// order.
type Geometry struct {
	Part       PartInfo
	Attributes []*Attribute
}

// Attribute returns the attribute with the given name, or nil.
func (g *Geometry) Attribute(name string) *Attribute {
	if g == nil {
		return nil
	}
	for _, a := range g.Attributes {
		if a.Info.Name == name {
			return a
		}
	}
	return nil
}

// Validate checks every attribute and, for point attributes, that their count
// matches the declared point count.
func (g *Geometry) Validate() error {
	if g == nil {
		return errors.New("geo: geometry is nil")
	}
	if g.Part.PointCount < 0 {
		return errors.Newf("geo: negative point count %d", g.Part.PointCount)
	}
	seen := make(map[string]bool, len(g.Attributes))
	for _, a := range g.Attributes {
		if seen[a.Info.Name] {
			return errors.Newf("geo: duplicate attribute %q", a.Info.Name)
		}
		seen[a.Info.Name] = true
		if err := a.Validate(); err != nil {
			return err
		}
		if a.Info.Owner == OwnerPoint && a.Info.Count != g.Part.PointCount {
			return errors.Newf("geo: point attribute %q has count %d, part declares %d points",
				a.Info.Name, a.Info.Count, g.Part.PointCount)
		}
	}
	return nil
}

// Clone returns a deep copy of the geometry.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	out := &Geometry{Part: g.Part, Attributes: make([]*Attribute, len(g.Attributes))}
	for i, a := range g.Attributes {
		out.Attributes[i] = &Attribute{
			Info:    a.Info,
			Floats:  append([]float32(nil), a.Floats...),
			Strings: append([]string(nil), a.Strings...),
		}
	}
	return out
}
