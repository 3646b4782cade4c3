// Package ivol provides the REST client for the iVolatility market data API.
//
// Endpoints used:
//   - /options/reference — contract metadata (FOS id, style) by symbol batch
//   - /options/chain — contract ids for one underlying, right and date
//   - /options/eod/prices — daily OHLC series by FOS id
//   - /options/eod/volumes — daily volume/open-interest series by FOS id
//
// Every outbound call, including each leg of a fan-out, acquires a permit
// from the client's rate gate before hitting the wire. The client itself
// never retries; bounded retry lives in the retry package.
package ivol
