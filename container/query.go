package container

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/engine"
	"github.com/viant/houlog/geo"
)

// Row is one recorded entry decoded from the point columns of a container.
type Row struct {
	Index    int
	Position [3]float32
	Name     string
	Kind     string
	Time     float32
	Metadata string
}

// Neighbor is a row returned by Nearest together with its distance to the
// query position.
type Neighbor struct {
	Row
	Distance float64
}

// Rows decodes the recorder columns of g into per-point rows. Missing columns
// leave the corresponding field at its zero value.
func Rows(g *geo.Geometry) ([]Row, error) {
	if g == nil {
		return nil, errors.New("container: geometry is nil")
	}
	n := g.Part.PointCount
	out := make([]Row, n)
	for i := range out {
		out[i].Index = i
	}
	if a := g.Attribute(geo.AttrP); a != nil {
		if a.Info.TupleSize != 3 || len(a.Floats) != 3*n {
			return nil, errors.Newf("container: %s column has %d values for %d points", geo.AttrP, len(a.Floats), n)
		}
		for i := range out {
			copy(out[i].Position[:], a.Floats[i*3:i*3+3])
		}
	}
	if a := g.Attribute(geo.AttrTime); a != nil {
		if len(a.Floats) != n {
			return nil, errors.Newf("container: %s column has %d values for %d points", geo.AttrTime, len(a.Floats), n)
		}
		for i := range out {
			out[i].Time = a.Floats[i]
		}
	}
	for _, col := range []struct {
		name string
		set  func(r *Row, v string)
	}{
		{geo.AttrName, func(r *Row, v string) { r.Name = v }},
		{geo.AttrKind, func(r *Row, v string) { r.Kind = v }},
		{geo.AttrMetadata, func(r *Row, v string) { r.Metadata = v }},
	} {
		a := g.Attribute(col.name)
		if a == nil {
			continue
		}
		if len(a.Strings) != n {
			return nil, errors.Newf("container: %s column has %d values for %d points", col.name, len(a.Strings), n)
		}
		for i := range out {
			col.set(&out[i], a.Strings[i])
		}
	}
	return out, nil
}

// ReadRows loads the container at path and decodes its rows.
func ReadRows(ctx context.Context, path string) ([]Row, error) {
	g, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return Rows(g)
}

// Nearest returns up to k rows of the container at path ordered by ascending
// distance between their position and pos. k <= 0 returns every row.
func Nearest(ctx context.Context, path string, pos [3]float32, k int) ([]Neighbor, error) {
	if err := engine.RegisterGeoFunctions(); err != nil {
		return nil, errors.Wrap(err, "container: register geo functions")
	}
	db, err := openExisting(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	g, err := read(ctx, db)
	if err != nil {
		return nil, err
	}
	all, err := Rows(g)
	if err != nil {
		return nil, err
	}
	limit := k
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx,
		`SELECT ptnum, geo_distance(p, ?) AS d FROM points ORDER BY d ASC, ptnum ASC LIMIT ?`,
		geo.EncodeFloats(pos[:]), limit)
	if err != nil {
		return nil, errors.Wrap(err, "container: nearest query")
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var (
			ptnum int
			d     float64
		)
		if err := rows.Scan(&ptnum, &d); err != nil {
			return nil, err
		}
		if ptnum < 0 || ptnum >= len(all) {
			return nil, errors.Newf("container: point %d out of range", ptnum)
		}
		out = append(out, Neighbor{Row: all[ptnum], Distance: d})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
