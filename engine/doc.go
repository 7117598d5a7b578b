// Package engine provides helpers for working with the modernc.org/sqlite
// driver in this module: opening container databases and registering the SQL
// scalar functions used to query them. It intentionally keeps a thin surface so
// other packages can share the same driver instance.
package engine
