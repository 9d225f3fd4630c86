// Package intersphinx fetches and parses Sphinx object inventories
// (objects.inv files), the symbol indexes published alongside generated
// documentation sites.
package intersphinx

import (
	"bufio"
	"compress/zlib"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/docdex"
)

// entryRe matches one inventory line: name, namespaced type, priority,
// URI, display name. Names may contain spaces, so the name group is lazy.
var entryRe = regexp.MustCompile(`^(.+?)\s+(\S+)\s+(-?\d+)\s+(\S*)\s+(.*)$`)

// Parse reads an inventory in either the version 1 plaintext format or
// the version 2 zlib-compressed format. Lines that don't match the entry
// grammar are skipped; a broken header or compression stream returns
// EINVALID.
func Parse(r io.Reader) (*docdex.Inventory, error) {
	br := bufio.NewReader(r)

	version, err := headerLine(br, "# Sphinx inventory version ")
	if err != nil {
		return nil, err
	}

	inv := &docdex.Inventory{}
	if inv.ProjectName, err = headerLine(br, "# Project: "); err != nil {
		return nil, err
	}
	if inv.Version, err = headerLine(br, "# Version: "); err != nil {
		return nil, err
	}

	switch version {
	case "1":
		err = parseV1(br, inv)
	case "2":
		err = parseV2(br, inv)
	default:
		return nil, docdex.Errorf(docdex.EINVALID, "unsupported inventory version %q", version)
	}
	if err != nil {
		return nil, err
	}

	return inv, nil
}

func headerLine(br *bufio.Reader, prefix string) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", docdex.Errorf(docdex.EINVALID, "malformed inventory header: %v", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, prefix) {
		return "", docdex.Errorf(docdex.EINVALID, "malformed inventory header: expected %q, got %q", prefix, line)
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), nil
}

// parseV1 reads the legacy plaintext format: "name type location" per
// line. Types are normalized into the py domain and anchors derived from
// the name, matching how Sphinx upgrades v1 inventories.
func parseV1(br *bufio.Reader, inv *docdex.Inventory) error {
	scanner := bufio.NewScanner(br)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 3 {
			continue
		}
		name, typ, location := fields[0], fields[1], fields[2]
		if typ == "mod" {
			typ = "py:module"
			location += "#module-" + name
		} else {
			typ = "py:" + typ
			location += "#" + name
		}
		inv.Entries = append(inv.Entries, docdex.InventoryEntry{
			Name:        name,
			Type:        typ,
			Priority:    1,
			URI:         location,
			DisplayName: "-",
		})
	}
	if err := scanner.Err(); err != nil {
		return docdex.Errorf(docdex.EINVALID, "malformed inventory body: %v", err)
	}
	return nil
}

func parseV2(br *bufio.Reader, inv *docdex.Inventory) error {
	compressed, err := headerLine(br, "#")
	if err != nil {
		return err
	}
	if !strings.Contains(compressed, "zlib") {
		return docdex.Errorf(docdex.EINVALID, "malformed inventory header: missing zlib marker")
	}

	zr, err := zlib.NewReader(br)
	if err != nil {
		return docdex.Errorf(docdex.EINVALID, "malformed inventory payload: %v", err)
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := entryRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		typ := m[2]
		if !strings.Contains(typ, ":") {
			// Plain types are unresolvable leftovers; Sphinx skips them too.
			continue
		}
		priority, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		inv.Entries = append(inv.Entries, docdex.InventoryEntry{
			Name:        m[1],
			Type:        typ,
			Priority:    priority,
			URI:         m[4],
			DisplayName: m[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return docdex.Errorf(docdex.EINVALID, "malformed inventory payload: %v", err)
	}
	return nil
}
