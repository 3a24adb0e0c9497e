package domain

// MAC generation per spec.md §4.3 "MAC management" / §3 invariants. Every
// generator takes an explicit uniform-[0,1) source so callers can thread a
// single seeded RNG through device creation and rotation (spec.md §9
// "Global state").

// randomBytes fills n bytes from u01, each scaled to [0,256).
func randomBytes(n int, u01 func() float64) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(u01() * 256)
	}
	return b
}

// GeneratePermanentMAC returns a MAC with the universal/unicast bits clear,
// imitating a real factory-assigned address (spec.md §3: "Permanent uses a
// single random MAC held forever"; only non-Permanent policies are
// required to carry the locally-administered bit).
func GeneratePermanentMAC(u01 func() float64) [6]byte {
	var mac [6]byte
	copy(mac[:], randomBytes(6, u01))
	mac[0] &^= 0x03 // clear LA and multicast bits
	return mac
}

// GenerateFullyRandomMAC returns a MAC with the locally-administered bit
// set and the multicast bit clear (spec.md §3: "the first octet's two low
// bits are set to binary 10").
func GenerateFullyRandomMAC(u01 func() float64) [6]byte {
	var mac [6]byte
	copy(mac[:], randomBytes(6, u01))
	mac[0] = (mac[0] &^ 0x03) | 0x02
	return mac
}

// GeneratePreserveOUIMAC returns a MAC whose first three octets equal oui
// and whose trailing three octets are randomized. The LA bit is not set —
// real hardware under this policy preserves the OUI's universal/local bit
// (spec.md §3).
func GeneratePreserveOUIMAC(oui [3]byte, u01 func() float64) [6]byte {
	var mac [6]byte
	mac[0], mac[1], mac[2] = oui[0], oui[1], oui[2]
	copy(mac[3:], randomBytes(3, u01))
	return mac
}

// NewDedicatedPool pre-generates a device's private rotation pool for the
// Dedicated MAC policy (spec.md §4.3: "Dedicated draws from a
// pre-generated private pool"), each entry carrying the fully-random bit
// pattern.
func NewDedicatedPool(size int, u01 func() float64) [][6]byte {
	pool := make([][6]byte, size)
	for i := range pool {
		pool[i] = GenerateFullyRandomMAC(u01)
	}
	return pool
}
