// Package archive persists raw fetched batches for offline reuse.
// Entries are laid out under {securityType}/{market}/{resolution}/{symbol}
// with one file per logical batch; a batch whose entry already exists is
// skipped, so re-running a download never rewrites data.
package archive
