package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

func TestPCAPWriterWritesFramesReadableBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pcap")
	base := time.Now()

	w, err := NewPCAPWriter(path, base)
	require.NoError(t, err)

	require.NoError(t, w.WriteFrame(0, []byte{0x01, 0x02, 0x03}))
	require.NoError(t, w.WriteFrame(time.Millisecond, []byte{0x04, 0x05}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	require.NoError(t, err)

	data1, _, err := r.ReadPacketData()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, data1)

	data2, _, err := r.ReadPacketData()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x05}, data2)
}

func TestLineLogWriterAppendsLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	w, err := NewLineLogWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.WriteLine("first"))
	require.NoError(t, w.WriteLine("second"))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func testDevices() []*domain.Device {
	d1 := &domain.Device{
		ID:         1,
		Vendor:     "Acme",
		Model:      "Phone1",
		Hardware:   &domain.HardwareProfile{MACPolicy: domain.MACFullyRandom},
		FramesSent: 10,
	}
	d1.RecordMAC([6]byte{0x02, 1, 1, 1, 1, 1})
	d1.RecordMAC([6]byte{0x02, 2, 2, 2, 2, 2})

	d2 := &domain.Device{
		ID:         2,
		Vendor:     "Acme",
		Model:      "Phone2",
		Hardware:   &domain.HardwareProfile{MACPolicy: domain.MACPermanent},
		FramesSent: 3,
	}
	d2.RecordMAC([6]byte{0x00, 9, 9, 9, 9, 9})

	return []*domain.Device{d1, d2}
}

func TestWriteDeviceCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devices.csv")

	require.NoError(t, WriteDeviceCSV(path, testDevices()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "mac_address,device_name,device_id")
	assert.Contains(t, content, "02:01:01:01:01:01,Phone1,1")
	assert.Contains(t, content, "02:02:02:02:02:02,Phone1,1")
	assert.Contains(t, content, "00:09:09:09:09:09,Phone2,2")
}

func testProbeRecords() []domain.CapturedFrame {
	return []domain.CapturedFrame{
		{Timestamp: 0, DeviceID: 1, MAC: [6]byte{0x02, 1, 1, 1, 1, 1}},
		{Timestamp: time.Second, DeviceID: 1, MAC: [6]byte{0x02, 2, 2, 2, 2, 2}},
		{Timestamp: 2 * time.Second, DeviceID: 2, MAC: [6]byte{0x00, 9, 9, 9, 9, 9}},
	}
}

func TestWriteProbeIDMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.txt")

	records := testProbeRecords()
	require.NoError(t, WriteProbeIDMapping(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, len(records))
	assert.Equal(t, "0.000000\t1\t02:01:01:01:01:01", lines[0])
	assert.Equal(t, "1.000000\t1\t02:02:02:02:02:02", lines[1])
	assert.Equal(t, "2.000000\t2\t00:09:09:09:09:09", lines[2])
}
