// Package provider is the engine-facing surface of the adapter. It
// validates inbound history and chain requests, delegates to the vendor
// client through the mapper, retry and reconciliation layers, and adapts
// vendor rows into engine data types.
//
// The provider distinguishes "request not supported" (nil result, no
// vendor call) from "vendor has no data" (empty non-nil result).
package provider
