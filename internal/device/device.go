// Package device holds the static registry of supported tablet profiles.
// Profiles are read-only for the engine's lifetime; layout geometry is
// derived from them per render call.
package device

import (
	"sort"
	"strings"

	appLog "rmagenda/internal/log"
)

// Profile describes the page geometry and capabilities of one device.
type Profile struct {
	ID            string
	Name          string
	PageWidthPt   float64
	PageHeightPt  float64
	DPI           int
	SupportsColor bool
}

// DefaultID is the profile used when a device id is unknown or absent.
// An unconfigured device degrades to a safe layout instead of failing.
const DefaultID = "remarkable2"

var registry = map[string]Profile{
	"remarkable1": {
		ID:           "remarkable1",
		Name:         "reMarkable 1",
		PageWidthPt:  pointsFromPixels(1404, 226),
		PageHeightPt: pointsFromPixels(1872, 226),
		DPI:          226,
	},
	"remarkable2": {
		ID:           "remarkable2",
		Name:         "reMarkable 2",
		PageWidthPt:  pointsFromPixels(1404, 226),
		PageHeightPt: pointsFromPixels(1872, 226),
		DPI:          226,
	},
	// Color model with experimental profile values.
	"paperpro": {
		ID:            "paperpro",
		Name:          "Paper Pro",
		PageWidthPt:   pointsFromPixels(1620, 229),
		PageHeightPt:  pointsFromPixels(2160, 229),
		DPI:           229,
		SupportsColor: true,
	},
}

// pointsFromPixels converts a pixel dimension at the given panel DPI into
// PostScript points (72/in).
func pointsFromPixels(px, dpi int) float64 {
	return float64(px) * 72.0 / float64(dpi)
}

// ProfileFor resolves a device id to its profile, falling back to the
// reMarkable 2 profile for unknown or empty ids. It never fails.
func ProfileFor(id string) Profile {
	key := normalizeID(id)
	if p, ok := registry[key]; ok {
		return p
	}
	if id != "" {
		appLog.Debug("unknown device id, using default profile", "device", id, "default", DefaultID)
	}
	return registry[DefaultID]
}

// IDs returns the registered device ids in stable order.
func IDs() []string {
	out := make([]string, 0, len(registry))
	for id := range registry {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// normalizeID accepts both registry keys and the human model names used by
// older configs ("reMarkable 2" -> "remarkable2").
func normalizeID(id string) string {
	key := strings.ToLower(id)
	key = strings.ReplaceAll(key, " ", "")
	return key
}
