package domain

import (
	"fmt"
	"net"
)

// IsValidMAC reports whether mac parses as a standard 6-byte hardware
// address. Used to validate generated/composed MACs against spec.md §8's
// "addr2 is a valid 6-byte MAC" invariant.
func IsValidMAC(mac [6]byte) bool {
	hw := net.HardwareAddr(mac[:])
	_, err := net.ParseMAC(hw.String())
	return err == nil && len(hw) == 6
}

// HasLocallyAdministeredBit reports whether bit 1 of the first octet (the
// "locally administered" bit) is set.
func HasLocallyAdministeredBit(mac [6]byte) bool {
	return mac[0]&0x02 != 0
}

// IsMulticast reports whether the multicast bit (bit 0 of the first
// octet) is set.
func IsMulticast(mac [6]byte) bool {
	return mac[0]&0x01 != 0
}

// FormatMAC renders a MAC in colon-separated hex, matching every output
// format this system writes (capture metadata, CSV, mapping file).
func FormatMAC(mac [6]byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}
