// Package container persists geometry into a single-file SQLite container and
// reads it back. It includes:
//   - Schema helpers for the detail, attributes and points tables
//   - Save/Load of a geo.Geometry
//   - Row decoding of the recorder's point columns (P, name, kind, time, metadata)
//   - Nearest-point queries ordered by the geo_distance SQL function
package container
