package composer

// Information Element IDs used by the Probe Request body (spec.md §4.4).
const (
	ieSSID            = 0
	ieSupportedRates  = 1
	ieDSSSParamSet    = 3
	ieHTCapabilities  = 45
	ieExtendedRates   = 50
	ieExtendedCap     = 127
	ieVHTCapabilities = 191
	ieVendorSpecific  = 221
)

// wpsOUI identifies both vendor-specific elements (WPS and UUID-E) this composer
// may append after the mandatory IE set (spec.md §4.4: "optional WPS and
// UUID-E vendor-specific elements"). 00:50:F2 is the Microsoft/WPS OUI.
var wpsOUI = [3]byte{0x00, 0x50, 0xF2}

const wpsVendorType = 0x04

// appendIE writes one TLV-encoded information element.
func appendIE(buf []byte, id int, data []byte) []byte {
	buf = append(buf, byte(id), byte(len(data)))
	return append(buf, data...)
}

// ratesToBytes renders a rate list (500 kbps units) as the byte sequence
// used by Supported Rates / Extended Supported Rates. Per spec.md §9 Open
// Questions, the basic-rate bit is never set — the source this spec
// follows drops the basic-rate flag entirely, so every byte here is the
// bare rate value with the high bit clear.
func ratesToBytes(rates []int) []byte {
	out := make([]byte, len(rates))
	for i, r := range rates {
		out[i] = byte(r & 0x7F)
	}
	return out
}

// buildIEs assembles the full Probe Request IE sequence in the fixed
// order mandated by spec.md §4.4.
type ieParams struct {
	ssid        string
	rates       []int
	extRates    []int
	channel     int
	htCap       []byte
	hasVHT      bool
	vhtCap      []byte
	extCap      []byte
	vendorOUI   [3]byte
	includeWPS  bool
	wpsData     []byte
	includeUUID bool
	uuidEData   []byte
}

func buildIEs(p ieParams) []byte {
	var buf []byte

	buf = appendIE(buf, ieSSID, []byte(p.ssid))
	buf = appendIE(buf, ieSupportedRates, ratesToBytes(p.rates))
	if len(p.extRates) > 0 {
		buf = appendIE(buf, ieExtendedRates, ratesToBytes(p.extRates))
	}
	buf = appendIE(buf, ieDSSSParamSet, []byte{byte(p.channel)})
	if len(p.htCap) > 0 {
		buf = appendIE(buf, ieHTCapabilities, p.htCap)
	}
	if p.hasVHT {
		buf = appendIE(buf, ieVHTCapabilities, p.vhtCap)
	}
	if len(p.extCap) > 0 {
		buf = appendIE(buf, ieExtendedCap, p.extCap)
	}

	vendor := append([]byte{p.vendorOUI[0], p.vendorOUI[1], p.vendorOUI[2]}, 0x00)
	buf = appendIE(buf, ieVendorSpecific, vendor)

	if p.includeWPS {
		wps := append([]byte{wpsOUI[0], wpsOUI[1], wpsOUI[2], wpsVendorType}, p.wpsData...)
		buf = appendIE(buf, ieVendorSpecific, wps)
	}
	if p.includeUUID {
		uuid := append([]byte{wpsOUI[0], wpsOUI[1], wpsOUI[2], wpsVendorType}, p.uuidEData...)
		buf = appendIE(buf, ieVendorSpecific, uuid)
	}

	return buf
}

// --- Parsing side: IE iteration, adapted from the teacher's
// internal/adapters/sniffer/ie/ie_parser.go to read back the round-trip
// properties spec.md §8 requires.

// iterateIEs calls fn for each well-formed IE in data, stopping early if a
// malformed length is encountered (mirrors IterateIEs' tolerant scan).
func iterateIEs(data []byte, fn func(id int, val []byte)) {
	offset := 0
	limit := len(data)
	for offset < limit {
		if offset+2 > limit {
			break
		}
		id := int(data[offset])
		length := int(data[offset+1])
		offset += 2
		if offset+length > limit {
			break
		}
		fn(id, data[offset:offset+length])
		offset += length
	}
}

func findIE(data []byte, id int) []byte {
	var result []byte
	iterateIEs(data, func(gotID int, val []byte) {
		if result == nil && gotID == id {
			result = val
		}
	})
	return result
}
