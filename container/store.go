package container

import (
	"context"
	"database/sql"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/engine"
	"github.com/viant/houlog/geo"
)

// Save writes g to a container file at path, replacing any existing file. The
// container is first written next to path and renamed into place, so readers
// never observe a partially written file.
func Save(ctx context.Context, path string, g *geo.Geometry) error {
	if path == "" {
		return errors.New("container: empty path")
	}
	if err := g.Validate(); err != nil {
		return errors.Wrap(err, "container: refusing to save invalid geometry")
	}
	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "container: remove stale %s", tmp)
	}
	if err := write(ctx, tmp, g); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "container: rename into %s", path)
	}
	return nil
}

func write(ctx context.Context, path string, g *geo.Geometry) (err error) {
	db, err := engine.Open(path)
	if err != nil {
		return errors.Wrapf(err, "container: open %s", path)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "container: close %s", path)
		}
	}()
	if err := EnsureSchema(ctx, db); err != nil {
		return errors.Wrap(err, "container: create schema")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT INTO detail(id, part_type, point_count) VALUES(1, ?, ?)`,
		string(g.Part.Type), g.Part.PointCount); err != nil {
		return errors.Wrap(err, "container: insert detail")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO attributes(name, ord, owner, storage, type_info, tuple_size, count, data) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, a := range g.Attributes {
		data, err := encodeAttribute(a)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, a.Info.Name, i, string(a.Info.Owner), string(a.Info.Storage),
			string(a.Info.TypeInfo), a.Info.TupleSize, a.Info.Count, data); err != nil {
			return errors.Wrapf(err, "container: insert attribute %q", a.Info.Name)
		}
	}

	if p := g.Attribute(geo.AttrP); p != nil && p.Info.Storage == geo.StorageFloat && p.Info.TupleSize == 3 {
		pstmt, err := tx.PrepareContext(ctx, `INSERT INTO points(ptnum, p) VALUES(?, ?)`)
		if err != nil {
			return err
		}
		defer pstmt.Close()
		for i := 0; i < p.Info.Count; i++ {
			if _, err := pstmt.ExecContext(ctx, i, geo.EncodeFloats(p.Floats[i*3:i*3+3])); err != nil {
				return errors.Wrapf(err, "container: insert point %d", i)
			}
		}
	}
	return tx.Commit()
}

func encodeAttribute(a *geo.Attribute) ([]byte, error) {
	switch a.Info.Storage {
	case geo.StorageFloat:
		return geo.EncodeFloats(a.Floats), nil
	case geo.StorageString:
		return geo.EncodeStrings(a.Strings)
	}
	return nil, errors.Newf("container: attribute %q has unsupported storage %q", a.Info.Name, a.Info.Storage)
}

// Load reads a container file written by Save.
func Load(ctx context.Context, path string) (*geo.Geometry, error) {
	db, err := openExisting(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return read(ctx, db)
}

func openExisting(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "container: stat %s", path)
	}
	db, err := engine.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "container: open %s", path)
	}
	return db, nil
}

func read(ctx context.Context, db *sql.DB) (*geo.Geometry, error) {
	g := &geo.Geometry{}
	var partType string
	if err := db.QueryRowContext(ctx, `SELECT part_type, point_count FROM detail WHERE id = 1`).
		Scan(&partType, &g.Part.PointCount); err != nil {
		return nil, errors.Wrap(err, "container: read detail")
	}
	g.Part.Type = geo.PartType(partType)

	rows, err := db.QueryContext(ctx, `SELECT name, owner, storage, type_info, tuple_size, count, data FROM attributes ORDER BY ord`)
	if err != nil {
		return nil, errors.Wrap(err, "container: read attributes")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			a                       geo.Attribute
			owner, storage, typInfo string
			data                    []byte
		)
		if err := rows.Scan(&a.Info.Name, &owner, &storage, &typInfo, &a.Info.TupleSize, &a.Info.Count, &data); err != nil {
			return nil, err
		}
		a.Info.Owner = geo.Owner(owner)
		a.Info.Storage = geo.Storage(storage)
		a.Info.TypeInfo = geo.TypeInfo(typInfo)
		switch a.Info.Storage {
		case geo.StorageFloat:
			if a.Floats, err = geo.DecodeFloats(data); err != nil {
				return nil, err
			}
		case geo.StorageString:
			if a.Strings, err = geo.DecodeStrings(data); err != nil {
				return nil, err
			}
		}
		g.Attributes = append(g.Attributes, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(err, "container: corrupt geometry")
	}
	return g, nil
}
