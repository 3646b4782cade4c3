// Package series merges the vendor's independently fetched daily price
// and volume series into single bars keyed by date. The two feeds are
// sorted but not guaranteed aligned; dates present on only one side are
// dropped.
package series
