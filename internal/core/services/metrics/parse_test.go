package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
)

func TestParseMACString(t *testing.T) {
	m, ok := parseMACString("02:11:22:33:44:55")
	require.True(t, ok)
	assert.Equal(t, [6]byte{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}, m)

	_, ok = parseMACString("not-a-mac")
	assert.False(t, ok)
}

func TestParseLogBytes(t *testing.T) {
	data := []byte("time=1.500000 device=3 mac=02:11:22:33:44:55 channel=6 rssi=-70\nnoise line\ntime=2.750000 device=3 mac=02:11:22:33:44:66 channel=6 rssi=-71\n")
	samples := parseLogBytes(data)
	require.Len(t, samples, 2)
	assert.Equal(t, [6]byte{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}, samples[0].MAC)
}

func TestLoadStatsPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "stats.json")
	want := domain.RunStats{MCR: 1.23, FrameCount: 7}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(jsonPath, data, 0o644))

	got := LoadStats(jsonPath, filepath.Join(dir, "nonexistent.log"), 10)
	assert.Equal(t, want.MCR, got.MCR)
	assert.Equal(t, want.FrameCount, got.FrameCount)
}

func TestLoadStatsFallsBackToLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "run.log")
	content := "time=0.000000 device=1 mac=02:00:00:00:00:01 channel=1 rssi=-50\n" +
		"time=1.000000 device=1 mac=02:00:00:00:00:02 channel=1 rssi=-51\n"
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0o644))

	got := LoadStats(filepath.Join(dir, "missing.json"), logPath, 10)
	assert.Equal(t, 2, got.FrameCount)
}

func TestLoadStatsZeroValueWhenNothingAvailable(t *testing.T) {
	got := LoadStats("", "", 10)
	assert.Equal(t, domain.RunStats{}, got)
}
