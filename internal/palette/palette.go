// Package palette holds the fixed set of selectable preview backgrounds.
//
// Each entry pairs a background colour with the text colour drawn on top of
// it, so picking a background always picks its contrast colour too.
package palette

import "strings"

// Entry is one selectable background.
type Entry struct {
	Token      string `json:"token"`      // stable value token, e.g. "bg-blue-500"
	Label      string `json:"label"`      // human label shown in pickers
	Background string `json:"background"` // hex colour of the region
	Foreground string `json:"foreground"` // hex colour of the name and body text
}

// Muted is the secondary text colour used for the handle and the counters,
// independent of the selected background.
const Muted = "#6b7280"

// entries is kept in display order.
var entries = []Entry{
	{Token: "bg-black", Label: "Black", Background: "#000000", Foreground: "#ffffff"},
	{Token: "bg-white", Label: "White", Background: "#ffffff", Foreground: "#000000"},
	{Token: "bg-blue-500", Label: "Blue", Background: "#3b82f6", Foreground: "#ffffff"},
	{Token: "bg-red-500", Label: "Red", Background: "#ef4444", Foreground: "#ffffff"},
	{Token: "bg-green-500", Label: "Green", Background: "#22c55e", Foreground: "#ffffff"},
	{Token: "bg-purple-500", Label: "Purple", Background: "#a855f7", Foreground: "#ffffff"},
	{Token: "bg-yellow-500", Label: "Yellow", Background: "#eab308", Foreground: "#000000"},
	{Token: "bg-orange-500", Label: "Orange", Background: "#f97316", Foreground: "#ffffff"},
	{Token: "bg-pink-500", Label: "Pink", Background: "#ec4899", Foreground: "#ffffff"},
	{Token: "bg-gray-500", Label: "Gray", Background: "#6b7280", Foreground: "#ffffff"},
}

var byToken = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Token] = e
	}
	return m
}()

// All returns every entry in display order. The slice is a copy.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Default returns the entry a new session starts with.
func Default() Entry {
	return entries[0]
}

// Lookup returns the entry for a value token.
func Lookup(token string) (Entry, bool) {
	e, ok := byToken[token]
	return e, ok
}

// ByLabel finds an entry by its label, ignoring case. A token is accepted
// as well so CLI users can pass either form.
func ByLabel(label string) (Entry, bool) {
	if e, ok := byToken[label]; ok {
		return e, true
	}
	for _, e := range entries {
		if strings.EqualFold(e.Label, strings.TrimSpace(label)) {
			return e, true
		}
	}
	return Entry{}, false
}
