package resolve

import (
	"sort"
	"strings"

	"github.com/fwojciec/docdex"
)

// noOverrideGroups lists symbol groups that never displace an existing
// table entry on a name collision. These groups are almost never the
// intended target of a plain-name lookup.
var noOverrideGroups = map[string]struct{}{
	"2to3fixer":  {},
	"token":      {},
	"label":      {},
	"pdbcommand": {},
	"term":       {},
}

// noOverridePackages lists host substrings whose existing symbols are
// never displaced by later sources.
var noOverridePackages = []string{"python"}

// index is one generation of the merged symbol table. It is written only
// during ingest; once a generation is published, readers use it without
// locking.
type index struct {
	symbols map[string]*docdex.Symbol
	renamed map[string]struct{}
}

func newIndex() *index {
	return &index{
		symbols: make(map[string]*docdex.Symbol),
		renamed: make(map[string]struct{}),
	}
}

// ingest merges one fetched inventory into the table, applying entries
// in payload order. Entries whose names contain a path separator are not
// addressable and are skipped. It returns the symbols it stored, already
// carrying their final names.
func (idx *index) ingest(src *docdex.Source, inv *docdex.Inventory) []*docdex.Symbol {
	stored := make([]*docdex.Symbol, 0, len(inv.Entries))
	for i := range inv.Entries {
		entry := &inv.Entries[i]
		if strings.Contains(entry.Name, "/") {
			continue
		}
		path, anchor := entry.Location()
		sym := &docdex.Symbol{
			Name:            entry.Name,
			Package:         src.Package,
			Group:           entry.Group(),
			BaseURL:         src.BaseURL,
			RelativeURLPath: path,
			AnchorID:        anchor,
		}
		idx.insert(sym)
		stored = append(stored, sym)
	}
	return stored
}

// insert stores sym under a collision-free name. On a collision exactly
// one rule applies:
//
//  1. the new symbol belongs to a no-override group, or the existing
//     symbol lives on a protected host: the new symbol is stored as
//     "group.name";
//  2. the existing symbol belongs to a no-override group: it moves to
//     "group.name" (package-qualified when that name was already handed
//     out) and the new symbol keeps the plain name;
//  3. the plain name was already the subject of a rename: the new symbol
//     is stored as "package.name".
//
// Renamed keys are recorded so resolutions can report the symbols that
// lost a plain name.
func (idx *index) insert(sym *docdex.Symbol) {
	name := sym.Name
	if existing, ok := idx.symbols[name]; ok {
		switch {
		case isNoOverrideGroup(sym.Group) || isProtectedHost(existing):
			name = sym.Group + "." + sym.Name
			idx.renamed[name] = struct{}{}

		case isNoOverrideGroup(existing.Group):
			moved := existing.Group + "." + existing.Name
			if idx.isRenamed(moved) {
				moved = sym.Package + "." + moved
			}
			existing.Name = moved
			idx.symbols[moved] = existing
			idx.renamed[moved] = struct{}{}

		case idx.isRenamed(name):
			name = sym.Package + "." + sym.Name
			idx.renamed[name] = struct{}{}
		}
	}
	sym.Name = name
	idx.symbols[name] = sym
}

// lookup returns the symbol stored under name.
func (idx *index) lookup(name string) (*docdex.Symbol, bool) {
	sym, ok := idx.symbols[name]
	return sym, ok
}

// related returns the renamed table keys ending in "."+name, sorted.
// Resolving a plain name surfaces these as pointers to the symbols that
// lost the collision for it.
func (idx *index) related(name string) []string {
	var keys []string
	suffix := "." + name
	for key := range idx.renamed {
		if strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// clone copies the table so a merge can build on it without racing
// readers of the current generation. Symbol values are copied because
// insert renames in place.
func (idx *index) clone() *index {
	c := &index{
		symbols: make(map[string]*docdex.Symbol, len(idx.symbols)),
		renamed: make(map[string]struct{}, len(idx.renamed)),
	}
	for key, sym := range idx.symbols {
		dup := *sym
		c.symbols[key] = &dup
	}
	for key := range idx.renamed {
		c.renamed[key] = struct{}{}
	}
	return c
}

func (idx *index) isRenamed(name string) bool {
	_, ok := idx.renamed[name]
	return ok
}

func isNoOverrideGroup(group string) bool {
	_, ok := noOverrideGroups[group]
	return ok
}

func isProtectedHost(sym *docdex.Symbol) bool {
	host := sym.Host()
	for _, pkg := range noOverridePackages {
		if strings.Contains(host, pkg) {
			return true
		}
	}
	return false
}
