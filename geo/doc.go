// Package geo defines the geometry data model shared by the recorder, the host
// implementations and the container file format. It includes:
//   - Part and attribute descriptors (owner, storage, tuple size, count)
//   - Geometry: a committed set of point attributes
//   - Column encoding helpers (float32 BLOB, JSON string arrays)
package geo
