package composer

import "fmt"

// ChannelToFrequencyMHz converts an 802.11 2.4GHz channel number to its
// center frequency in MHz (spec.md §4.4, boundary behaviors in §8):
// channel 14 maps to 2484 MHz; channels 1..13 map to 2407+5*n.
func ChannelToFrequencyMHz(channel int) (int, error) {
	switch {
	case channel == 14:
		return 2484, nil
	case channel >= 1 && channel <= 13:
		return 2407 + 5*channel, nil
	default:
		return 0, fmt.Errorf("composer: channel %d outside 1..14", channel)
	}
}
