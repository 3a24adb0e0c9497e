// Package capture writes a simulation run's output artifacts: the PCAP
// file of surviving frames, a per-frame text log, the device CSV, and the
// probe-id mapping file (spec.md §4.6, §6). Grounded on the teacher's
// internal/adapters/sniffer/handshake/handshake_manager.go, which opens a
// pcapgo.Writer against an os.File, writes LinkTypeIEEE80211Radio as the
// file header, and appends packets with their CaptureInfo one at a time —
// this package keeps that shape and drives it from the engine's frame
// stream instead of a live handshake session.
package capture

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

// PCAPWriter implements ports.CaptureWriter against a pcapgo.Writer,
// snapshot-format DLT 127 (IEEE802.11 + RadioTap) per spec.md §6.
type PCAPWriter struct {
	f   *os.File
	w   *pcapgo.Writer
	base time.Time
}

var _ ports.CaptureWriter = (*PCAPWriter)(nil)

// NewPCAPWriter creates (or truncates) path and writes the pcap file
// header, using base as the wall-clock instant that simulation time 0
// corresponds to.
func NewPCAPWriter(path string, base time.Time) (*PCAPWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &domain.ResourceError{Path: path, Err: err}
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeIEEE80211Radio); err != nil {
		f.Close()
		return nil, &domain.ResourceError{Path: path, Err: err}
	}
	return &PCAPWriter{f: f, w: w, base: base}, nil
}

// WriteFrame appends one frame, with its capture timestamp computed as
// base + timestamp.
func (p *PCAPWriter) WriteFrame(timestamp time.Duration, data []byte) error {
	ci := gopacket.CaptureInfo{
		Timestamp:     p.base.Add(timestamp),
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := p.w.WritePacket(ci, data); err != nil {
		return fmt.Errorf("capture: write packet: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (p *PCAPWriter) Close() error {
	return p.f.Close()
}

// LineLogWriter implements ports.LogWriter, appending one buffered text
// line per surviving frame (spec.md §4.6 SendPacket's "human-readable
// summary").
type LineLogWriter struct {
	f *os.File
	w *bufio.Writer
}

var _ ports.LogWriter = (*LineLogWriter)(nil)

// NewLineLogWriter creates (or truncates) path for line-oriented logging.
func NewLineLogWriter(path string) (*LineLogWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &domain.ResourceError{Path: path, Err: err}
	}
	return &LineLogWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// WriteLine appends line followed by a newline.
func (l *LineLogWriter) WriteLine(line string) error {
	if _, err := l.w.WriteString(line); err != nil {
		return err
	}
	return l.w.WriteByte('\n')
}

// Close flushes the buffer and closes the file.
func (l *LineLogWriter) Close() error {
	if err := l.w.Flush(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// WriteDeviceCSV writes the end-of-run device log (spec.md §6: header
// `mac_address,device_name,device_id`, one row per (device, MAC) pair in
// first-use order).
func WriteDeviceCSV(path string, devices []*domain.Device) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.ResourceError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"mac_address", "device_name", "device_id"}); err != nil {
		return err
	}
	for _, d := range devices {
		deviceID := strconv.FormatInt(int64(d.ID), 10)
		seen := make(map[[6]byte]bool, len(d.MACHistory))
		for _, mac := range d.MACHistory {
			if seen[mac] {
				continue
			}
			seen[mac] = true
			row := []string{domain.FormatMAC(mac), d.Model, deviceID}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return w.Error()
}

// WriteProbeIDMapping writes the probe-id mapping file: one line per
// emitted frame, tab-separated `timestamp device_id mac`, in send order
// (spec.md §6/§8: its line count must equal the capture frame count).
func WriteProbeIDMapping(path string, records []domain.CapturedFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return &domain.ResourceError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, r := range records {
		line := fmt.Sprintf("%.6f\t%d\t%s\n", r.Timestamp.Seconds(), r.DeviceID, domain.FormatMAC(r.MAC))
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return w.Flush()
}
