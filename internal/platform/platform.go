package platform

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Profile defines how rendered stages are encoded for a destination
type Profile interface {
	// GetName returns the profile name
	GetName() string

	// GetMaxDimensions returns the largest frame the destination accepts, 0 means no limit
	GetMaxDimensions() (width, height int)

	// GetMaxDuration returns the longest video in seconds the destination accepts, 0 means no limit
	GetMaxDuration() int

	// GetVideoCodec returns the preferred video codec
	GetVideoCodec() string

	// GetAudioCodec returns the preferred audio codec
	GetAudioCodec() string

	// GetVideoBitrate returns the target video bitrate, empty keeps encoder defaults
	GetVideoBitrate() string

	// GetAudioBitrate returns the target audio bitrate, empty keeps encoder defaults
	GetAudioBitrate() string

	// GetOutputFormat returns the container format (e.g., "mp4")
	GetOutputFormat() string
}

var profiles = make(map[string]Profile)

// Register adds a profile to the registry
func Register(p Profile) {
	profiles[p.GetName()] = p
}

// Get returns a profile by name
func Get(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unsupported profile: %s (supported: %s)", name, strings.Join(GetSupportedProfiles(), ", "))
	}
	return p, nil
}

// GetSupportedProfiles returns registered profile names in sorted order
func GetSupportedProfiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Exceeds reports whether a video of the given size and length in seconds
// is over the profile limits.
func Exceeds(p Profile, width, height int, seconds float64) bool {
	maxW, maxH := p.GetMaxDimensions()
	if maxW > 0 && maxH > 0 {
		// orientation does not matter, compare long and short sides
		long, short := max(width, height), min(width, height)
		if long > max(maxW, maxH) || short > min(maxW, maxH) {
			return true
		}
	}
	if d := p.GetMaxDuration(); d > 0 && seconds > float64(d) {
		return true
	}
	return false
}
