// Package composer implements the 802.11 frame composer and its
// round-trip parser (spec.md §4.4). It is grounded on the teacher's
// internal/adapters/sniffer/injection/builders.go, which already
// constructs RadioTap + Dot11 frames with gopacket/layers for Deauth,
// Disassoc, CSA, and a minimal Probe Request — this composer generalizes
// that file's SerializeProbeRequest to the full spec.md §4.4 IE set and
// adds per-burst sequence continuation plus a Parse() counterpart.
package composer

import (
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

var broadcastMAC = []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Composer implements ports.FrameComposer.
type Composer struct{}

var _ ports.FrameComposer = Composer{}

// New returns a stateless frame Composer (sequence bookkeeping lives in
// the caller per spec.md §4.4: "the composer never mutates device state
// other than the sequence counter it returns").
func New() Composer { return Composer{} }

// ComposeBurst builds burstLength frames for one device burst, serializing
// RadioTap + 802.11 header + IEs in the fixed layer order of spec.md §4.4.
func (Composer) ComposeBurst(req ports.BurstRequest) (ports.BurstResult, error) {
	if req.BurstLength <= 0 {
		return ports.BurstResult{}, fmt.Errorf("composer: burst length must be positive, got %d", req.BurstLength)
	}

	freqMHz, err := ChannelToFrequencyMHz(req.Channel)
	if err != nil {
		return ports.BurstResult{}, err
	}

	hw := req.Hardware
	ssid := ""
	if len(req.Device.SSIDs) > 0 {
		idx := int(req.U01() * float64(len(req.Device.SSIDs)))
		if idx >= len(req.Device.SSIDs) {
			idx = len(req.Device.SSIDs) - 1
		}
		ssid = req.Device.SSIDs[idx]
	}

	frames := make([]ports.ComposedFrame, 0, req.BurstLength)
	seq := req.StartSeq
	var elapsed int64 // nanoseconds since burst start

	for i := 0; i < req.BurstLength; i++ {
		frame, err := composeOne(req.Device.CurrentMAC, req.Device.VendorOUI, seq, uint8(req.Channel), freqMHz, hw, ssid, req.U01)
		if err != nil {
			return ports.BurstResult{}, err
		}

		jitterSeconds := 0.0
		if !req.JitterDist.IsZero() {
			jitterSeconds = req.JitterDist.Sample(req.U01)
		}

		frames = append(frames, ports.ComposedFrame{
			Bytes:        frame,
			RelativeTime: time.Duration(elapsed),
		})

		elapsed += int64((req.IntraInterval.Seconds() + jitterSeconds) * 1e9)
		seq = (seq + 1) % 4096
	}

	return ports.BurstResult{Frames: frames, NextSeq: seq}, nil
}

func composeOne(srcMAC [6]byte, vendorOUI [3]byte, seq uint16, channel uint8, freqMHz int, hw *domain.HardwareProfile, ssid string, u01 func() float64) ([]byte, error) {
	radiotap := &layers.RadioTap{
		Present: layers.RadioTapPresentTSFT |
			layers.RadioTapPresentFlags |
			layers.RadioTapPresentRate |
			layers.RadioTapPresentChannel |
			layers.RadioTapPresentDBMAntennaSignal |
			layers.RadioTapPresentAntenna,
		TSFT:             0,
		Flags:            0,
		Rate:             2, // 2 * 500kbps = 1.0 Mbps
		ChannelFrequency: layers.RadioTapChannelFrequency(freqMHz),
		ChannelFlags:     layers.RadioTapChannelFlagsCCK | layers.RadioTapChannelFlags2GHz,
		DBMAntennaSignal: int8(-70 + int(u01()*40)), // uniform in -70..-30 dBm
		Antenna:          0,
	}

	dot11 := &layers.Dot11{
		Type:           layers.Dot11TypeMgmtProbeReq,
		Address1:       broadcastMAC,
		Address2:       srcMAC[:],
		Address3:       broadcastMAC,
		SequenceNumber: seq,
	}

	ies := buildIEs(ieParams{
		ssid:      ssid,
		rates:     hw.Rates,
		extRates:  hw.ExtRates,
		channel:   int(channel),
		htCap:     hw.HTCap,
		hasVHT:    hw.HasVHT,
		vhtCap:    hw.VHTCap,
		extCap:    hw.ExtCap,
		vendorOUI: vendorOUI,
	})

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, radiotap, dot11, gopacket.Payload(ies)); err != nil {
		return nil, fmt.Errorf("composer: serialize failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes a previously composed frame back into its constituent
// fields, for the round-trip law in spec.md §8 and the engine's optional
// qa_sample_rate self-consistency dump.
func (Composer) Parse(frame []byte) (ports.ParsedFrame, error) {
	packet := gopacket.NewPacket(frame, layers.LayerTypeRadioTap, gopacket.NoCopy)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return ports.ParsedFrame{}, fmt.Errorf("composer: decode error: %w", errLayer.Error())
	}

	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return ports.ParsedFrame{}, fmt.Errorf("composer: no Dot11 layer found")
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok {
		return ports.ParsedFrame{}, fmt.Errorf("composer: unexpected Dot11 layer type")
	}

	var src [6]byte
	copy(src[:], dot11.Address2)

	body := dot11.LayerPayload()

	parsed := ports.ParsedFrame{
		SourceMAC: src,
		Sequence:  dot11.SequenceNumber,
		SSID:      string(findIE(body, ieSSID)),
	}

	iterateIEs(body, func(id int, val []byte) {
		parsed.IEOrder = append(parsed.IEOrder, id)
		switch id {
		case ieDSSSParamSet:
			if len(val) >= 1 {
				parsed.Channel = int(val[0])
			}
		case ieHTCapabilities:
			parsed.HasHT = true
		case ieVHTCapabilities:
			parsed.HasVHT = true
		case ieExtendedCap:
			parsed.HasExtCap = true
		case ieVendorSpecific:
			if len(val) >= 3 {
				var oui [3]byte
				copy(oui[:], val[:3])
				parsed.VendorOUIs = append(parsed.VendorOUIs, oui)
			}
		}
	})

	return parsed, nil
}
