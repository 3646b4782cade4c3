// Package chain fetches the option contract set for one underlying and
// as-of date. The vendor exposes the chain per option right, so a fetch
// fans out into a call leg and a put leg and unions the results.
//
// Chain fetching is best-effort: a leg that fails after retries degrades
// the whole fetch to an empty result rather than an error.
package chain
