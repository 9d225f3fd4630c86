// Package docdex resolves documentation symbol names to rendered markdown.
// It merges intersphinx-style inventories from registered documentation
// sources into a single disambiguated symbol table, fetches the HTML page
// backing a symbol on first demand, extracts the relevant fragment, and
// converts it to length-bounded markdown.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, intersphinx/).
package docdex
