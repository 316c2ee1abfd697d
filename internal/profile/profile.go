package profile

import "sort"

// DefaultName is the profile used when none or an unknown one is asked for.
const DefaultName = "screen"

// Profile describes how a preview is captured: the device pixel ratio it is
// rendered at and the format it is encoded to.
type Profile struct {
	Name    string
	Scale   float64 // device pixel ratio; output is nominal size × Scale
	Format  string  // encoder format name
	Quality int     // 1-100, lossy formats only
}

// Built-in profiles.
var profiles = map[string]Profile{
	"screen": {
		Name:   "screen",
		Scale:  1,
		Format: "png",
	},
	"retina": {
		Name:   "retina",
		Scale:  2,
		Format: "png",
	},
	"retina-3x": {
		Name:   "retina-3x",
		Scale:  3,
		Format: "png",
	},
	"jpeg": {
		Name:    "jpeg",
		Scale:   1,
		Format:  "jpeg",
		Quality: 90,
	},
	"webp": {
		Name:    "webp",
		Scale:   1,
		Format:  "webp",
		Quality: 90,
	},
}

// Get returns a profile by name. Unknown names fall back to screen while
// keeping the requested name for reporting.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	if name != "" {
		p.Name = name
	}
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profiles alphabetically.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
