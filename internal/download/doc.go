// Package download orchestrates bulk history production. A request for a
// plain contract passes straight through to the provider; a request for
// a canonical option root is expanded into the full dated contract set
// across the range's trading days, fetched with bounded parallelism and
// unioned into one ordered result.
package download
