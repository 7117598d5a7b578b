// Package loggable defines the values a recorder can store: a closed set of
// geometric variants, the metadata document each variant serializes to, a
// registry of kinds the downstream parser understands, and the conversion
// layer that normalizes producer types into one of those variants.
//
// Every recorded value ends up as a Value:
//   - Kind: a stable discriminator, independent of the instance
//   - Position: a representative point, the origin when none is meaningful
//   - Metadata: the full payload as a JSON-shaped Document
package loggable
