// Package model defines shared data types used across the iVolatility data
// adapter.
//
// Conventions:
//   - Symbols are immutable once created; Key() provides a stable map key
//   - Dates for daily data are UTC midnight time.Time values
//   - Vendor wire points (PricePoint, VolumePoint) carry pointer fields
//     because the vendor emits null-valued sentinel rows
package model
