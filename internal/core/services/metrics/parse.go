package metrics

import (
	"encoding/json"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/lcalzada-xor/probegen/internal/core/domain"
	"github.com/lcalzada-xor/probegen/internal/core/ports"
)

// logLineRE matches the text log format written by capture.LineLogWriter
// ("time=%f device=%d mac=%s channel=%d rssi=%d"), used as the second
// rung of the metric-parsing fallback chain (spec.md §4.8).
var logLineRE = regexp.MustCompile(`time=([0-9.eE+-]+)\s+device=(\d+)\s+mac=([0-9A-Fa-f:]+)`)

// LoadStats implements the robust parsing cascade spec.md §4.8 requires
// of the auto-tuner: prefer the engine's structured JSON stats file;
// failing that, recompute from the text log via regex; failing that,
// return a zero-valued RunStats (never an error) so scoring can proceed
// with defaulted metrics.
func LoadStats(jsonPath, logPath string, segmentSeconds float64) domain.RunStats {
	if stats, ok := loadJSON(jsonPath); ok {
		return stats
	}
	if stats, ok := loadFromLog(logPath, segmentSeconds); ok {
		return stats
	}
	return domain.RunStats{}
}

func loadJSON(path string) (domain.RunStats, bool) {
	if path == "" {
		return domain.RunStats{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RunStats{}, false
	}
	var stats domain.RunStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.RunStats{}, false
	}
	return stats, true
}

// loadFromLog re-derives MACSamples from the text log via regexp and
// feeds them back through Extract, so a run whose JSON stats file is
// missing or unreadable still yields usable metrics (NUMR and MCIV are
// computed by Extract from the recovered samples like any other run).
func loadFromLog(path string, segmentSeconds float64) (domain.RunStats, bool) {
	if path == "" {
		return domain.RunStats{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.RunStats{}, false
	}

	samples := parseLogBytes(data)
	if len(samples) == 0 {
		return domain.RunStats{}, false
	}
	return New().Extract(samples, segmentSeconds), true
}

func parseLogBytes(data []byte) []ports.MACSample {
	lines := regexp.MustCompile(`\r?\n`).Split(string(data), -1)
	var out []ports.MACSample
	for _, line := range lines {
		m := logLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		mac, ok := parseMACString(m[3])
		if !ok {
			continue
		}
		out = append(out, ports.MACSample{
			Timestamp: time.Duration(ts * float64(time.Second)),
			MAC:       mac,
		})
	}
	return out
}

func parseMACString(s string) ([6]byte, bool) {
	var mac [6]byte
	if len(s) != 17 {
		return mac, false
	}
	for i := 0; i < 6; i++ {
		b, err := strconv.ParseUint(s[i*3:i*3+2], 16, 8)
		if err != nil {
			return mac, false
		}
		mac[i] = byte(b)
	}
	return mac, true
}
