// Package oui implements the vendor OUI registry (spec.md §4.2): a
// read-only, load-once mapping from vendor name to IEEE OUI, parsed from
// the IEEE-published text database format. Grounded on the teacher's
// internal/adapters/fingerprint/oui_database.go (the lookup/cache shape)
// and tools/oui/oui_updater/main.go (text-format parsing conventions),
// reworked from a SQLite-backed live cache to the spec's in-memory
// read-only table — nothing in this system ever updates the registry at
// run time.
package oui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

// reIEEELine matches the IEEE-published "HH-HH-HH   (hex)   Vendor Name"
// line format (spec.md §6).
var reIEEELine = regexp.MustCompile(`^([0-9A-Fa-f]{2}-[0-9A-Fa-f]{2}-[0-9A-Fa-f]{2})\s+\(hex\)\s+(.+)$`)

// entry is one normalized registry row.
type entry struct {
	oui       [3]byte
	canonical string
}

// Registry is a read-only vendor->OUI lookup table, built once at load
// time and safe for concurrent read access thereafter.
type Registry struct {
	byNormalizedName map[string]entry
	order            []string // normalized names, insertion order, for substring scans
}

// Load parses an IEEE OUI database text file (or any text of the form
// produced by its Wireshark/manuf sibling, tolerated alongside the
// canonical format) and builds a Registry. On conflict — more than one
// line normalizing to the same vendor name — the first encountered entry
// wins (spec.md §4.2).
func Load(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ResourceError{Path: path, Err: err}
	}
	defer f.Close()
	return parse(f)
}

func parse(r io.Reader) (*Registry, error) {
	reg := &Registry{byNormalizedName: make(map[string]entry)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var prefixStr, vendor string
		if m := reIEEELine.FindStringSubmatch(line); m != nil {
			prefixStr, vendor = m[1], m[2]
		} else if parts := strings.SplitN(line, "\t", 2); len(parts) == 2 {
			// Wireshark manuf format: "XX:XX:XX<tab>Vendor[...]"
			prefixStr = parts[0]
			fields := strings.SplitN(parts[1], "\t", 2)
			vendor = fields[0]
		} else {
			continue
		}

		oui, err := parsePrefix(prefixStr)
		if err != nil {
			continue
		}
		vendor = strings.TrimSpace(vendor)
		if vendor == "" {
			continue
		}

		key := normalize(vendor)
		if _, exists := reg.byNormalizedName[key]; exists {
			continue
		}
		reg.byNormalizedName[key] = entry{oui: oui, canonical: vendor}
		reg.order = append(reg.order, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("oui: scan failed: %w", err)
	}
	if len(reg.byNormalizedName) == 0 {
		return nil, &domain.ConfigError{Record: "oui database", Reason: "no entries parsed"}
	}
	return reg, nil
}

// Lookup resolves a vendor name to its OUI using substring/prefix
// tolerant matching against the normalized registry (spec.md §4.2):
// exact normalized match first, then the first normalized registry entry
// containing the query (or vice versa) in insertion order.
func (r *Registry) Lookup(vendor string) (oui [3]byte, canonical string, ok bool) {
	key := normalize(vendor)
	if e, found := r.byNormalizedName[key]; found {
		return e.oui, e.canonical, true
	}
	for _, k := range r.order {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			e := r.byNormalizedName[k]
			return e.oui, e.canonical, true
		}
	}
	return [3]byte{}, "", false
}

// Len returns the number of distinct vendor entries loaded.
func (r *Registry) Len() int { return len(r.byNormalizedName) }

func normalize(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	return strings.Join(fields, " ")
}

func parsePrefix(s string) ([3]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, ":", "")
	if len(s) < 6 {
		return [3]byte{}, fmt.Errorf("oui: prefix %q too short", s)
	}
	var out [3]byte
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return [3]byte{}, err
		}
		out[i] = byte(v)
	}
	return out, nil
}
