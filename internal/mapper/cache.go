package mapper

import (
	"sync"

	"github.com/quantlayer/ivol-data/internal/model"
)

// Cache is a bidirectional symbol-to-vendor-id table. One exclusive lock
// guards both directions; lookups are cheap and contention is bounded by
// vendor call latency dominating the critical path.
type Cache struct {
	mu       sync.Mutex
	toVendor map[string]string // symbol key -> vendor id
	toSymbol map[string]*model.Symbol
}

// NewCache creates an empty cache. Construct once per process and hand to
// the mapper; entries live for the process lifetime.
func NewCache() *Cache {
	return &Cache{
		toVendor: make(map[string]string),
		toSymbol: make(map[string]*model.Symbol),
	}
}

// VendorID returns the cached vendor id for a symbol.
func (c *Cache) VendorID(sym *model.Symbol) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.toVendor[sym.Key()]
	return id, ok
}

// Symbol returns the cached symbol for a vendor id.
func (c *Cache) Symbol(vendorID string) (*model.Symbol, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sym, ok := c.toSymbol[vendorID]
	return sym, ok
}

// Put stores both directions. Concurrent writers racing on the same entry
// store value-equal results, so last-write-wins is safe.
func (c *Cache) Put(sym *model.Symbol, vendorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toVendor[sym.Key()] = vendorID
	c.toSymbol[vendorID] = sym
}

// Len returns the number of symbol-keyed entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.toVendor)
}
