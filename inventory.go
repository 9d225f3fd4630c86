package docdex

import (
	"context"
	"strings"
)

// Inventory is one parsed symbol inventory. Entries preserve the order of
// the inventory payload so that merging them into the symbol table is
// deterministic.
type Inventory struct {
	// ProjectName and Version come from the inventory header.
	ProjectName string
	Version     string

	Entries []InventoryEntry

	// Hash fingerprints the raw inventory payload. Two fetches of an
	// unchanged inventory produce the same hash.
	Hash string
}

// InventoryEntry is one symbol listed by an inventory.
type InventoryEntry struct {
	// Name is the symbol name as published, e.g. "zlib.compress".
	Name string

	// Type is the namespaced group tag, e.g. "py:class" or "std:label".
	Type string

	// Priority is the search priority hint carried by the inventory.
	// It does not affect resolution.
	Priority int

	// URI is the location relative to the source base URL, with an
	// optional "#fragment" anchor. An anchor ending in "$" abbreviates
	// the entry name.
	URI string

	// DisplayName is the human-facing name, or "-" when it matches Name.
	DisplayName string
}

// Group returns the entry's group with the domain namespace stripped:
// "py:class" yields "class".
func (e *InventoryEntry) Group() string {
	if i := strings.Index(e.Type, ":"); i >= 0 {
		return e.Type[i+1:]
	}
	return e.Type
}

// Location splits the entry URI into the page path and the anchor,
// expanding the "$" abbreviation to the entry name.
func (e *InventoryEntry) Location() (path, anchor string) {
	path, anchor, _ = strings.Cut(e.URI, "#")
	if strings.HasSuffix(anchor, "$") {
		anchor = anchor[:len(anchor)-1] + e.Name
	}
	return path, anchor
}

// InventoryFetcher retrieves and parses a symbol inventory.
type InventoryFetcher interface {
	// FetchInventory downloads the inventory at the URL and parses it.
	// Errors carry application error codes: ETIMEOUT and EUNAVAILABLE
	// for transient network conditions, EINTERNAL for HTTP status and
	// connection failures, EINVALID for malformed payloads.
	FetchInventory(ctx context.Context, url string) (*Inventory, error)
}
