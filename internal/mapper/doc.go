// Package mapper translates between the canonical symbol model and the
// vendor's two addressing schemes:
//
//   - OCC21: a self-describing option symbol ("{root:6}#{yyMMdd}{C|P}{strike}")
//     derivable locally in both directions
//   - FOS id: an opaque vendor-assigned id (e.g. "AAPL.US#C229V") that
//     requires a reference-data round trip to obtain
//
// Each direction is cached for the process lifetime; symbol identity is
// immutable so entries are never evicted or refreshed.
package mapper
