// Package state holds the editable fields of one post preview session.
package state

import "github.com/AnyUserName/tweetshot/internal/palette"

// Dimension hints offered by the editor. The store does not enforce them.
const (
	MinDimension = 200
	MaxDimension = 1200
)

// DefaultAvatar is the avatar every session starts with.
const DefaultAvatar = "https://api.dicebear.com/7.x/avataaars/png?seed=John"

// Post is a snapshot of every editable field. Counters are display strings
// and are passed through verbatim.
type Post struct {
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	Avatar      string `json:"avatar"`
	Body        string `json:"body"`
	Likes       string `json:"likes"`
	Retweets    string `json:"retweets"`
	Replies     string `json:"replies"`
	Views       string `json:"views"`
	Background  string `json:"background"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Defaults returns the fields a new session starts with.
func Defaults() Post {
	return Post{
		DisplayName: "John Doe",
		Handle:      "johndoe",
		Avatar:      DefaultAvatar,
		Body:        "This is my awesome tweet!",
		Likes:       "1,234",
		Retweets:    "123",
		Replies:     "45",
		Views:       "12.5K",
		Background:  palette.Default().Token,
		Width:       600,
		Height:      400,
	}
}

// Palette returns the palette entry selected by the post. Posts only ever
// hold known tokens, but a zero Post falls back to the default entry.
func (p Post) Palette() palette.Entry {
	if e, ok := palette.Lookup(p.Background); ok {
		return e
	}
	return palette.Default()
}
