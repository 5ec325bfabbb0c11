package config

import (
	"sort"
	"time"
)

// Profile presets the pacing of a scan.
type Profile struct {
	Timeout  time.Duration
	Interval time.Duration
	Passes   int
	Random   bool
}

const DefaultProfile = "default"

var Profiles = map[string]Profile{
	"default": {Timeout: 3 * time.Second, Passes: 1},
	"fast":    {Timeout: time.Second, Passes: 1},
	"stealth": {Timeout: 10 * time.Second, Interval: 20 * time.Millisecond, Passes: 1, Random: true},
	"chaos":   {Timeout: 2 * time.Second, Passes: 3, Random: true},
}

func init() {
	// single letter aliases
	for _, name := range ProfileNames() {
		Profiles[name[:1]] = Profiles[name]
	}
}

// ProfileNames lists the full profile names, sorted.
func ProfileNames() []string {
	names := []string{}
	for name := range Profiles {
		if len(name) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
