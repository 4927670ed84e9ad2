// Package vendors is the registry of per-vendor record table extensions.
//
// Each DNS backend a domain may be hosted on contributes a display name
// and optional extra record columns. The table output and the TUI ask the
// registry instead of branching on the vendor.
package vendors

import (
	"fmt"
	"sort"
	"sync"

	dnsdomain "domain0/d0ctl/internal/dns/domain"
	"domain0/d0ctl/internal/domain"
	"domain0/d0ctl/internal/util"
)

// Column is an extra record column.
type Column struct {
	Header string
	Width  int
	Value  func(dnsdomain.Record) string
}

// Entry describes one vendor.
type Entry struct {
	Tag         domain.Vendor
	DisplayName string
	Columns     []Column

	// Proxyable vendors accept the proxied flag on records.
	Proxyable bool
}

var (
	mu       sync.RWMutex
	registry = map[string]Entry{}
)

// Register adds a vendor entry. It panics on an empty tag or a duplicate
// registration (programmer errors detected at startup).
func Register(entry Entry) {
	key := util.NormalizeKey(string(entry.Tag))
	if key == "" {
		panic("dns/vendors: empty vendor tag")
	}
	for _, col := range entry.Columns {
		if col.Value == nil {
			panic(fmt.Sprintf("dns/vendors: column %q of %q has no value func", col.Header, entry.Tag))
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("dns/vendors: vendor %q already registered", entry.Tag))
	}
	registry[key] = entry
}

// Get returns the entry for a vendor. Unknown vendors get a plain entry
// with no extra columns.
func Get(tag domain.Vendor) Entry {
	mu.RLock()
	entry, ok := registry[util.NormalizeKey(string(tag))]
	mu.RUnlock()
	if ok {
		return entry
	}
	return Entry{Tag: tag, DisplayName: string(tag)}
}

// List returns the registered vendor tags in sorted order.
func List() []domain.Vendor {
	mu.RLock()
	defer mu.RUnlock()

	tags := make([]domain.Vendor, 0, len(registry))
	for _, e := range registry {
		tags = append(tags, e.Tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Reset clears the registry. Intended for use in tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = map[string]Entry{}
	builtins = sync.Once{}
}
