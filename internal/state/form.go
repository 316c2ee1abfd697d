package state

// Form is a partial update submitted by the editor. Nil fields are left as
// they are.
type Form struct {
	DisplayName *string `form:"display_name" json:"display_name"`
	Handle      *string `form:"handle" json:"handle"`
	Avatar      *string `form:"avatar" json:"avatar"`
	Body        *string `form:"body" json:"body"`
	Likes       *string `form:"likes" json:"likes"`
	Retweets    *string `form:"retweets" json:"retweets"`
	Replies     *string `form:"replies" json:"replies"`
	Views       *string `form:"views" json:"views"`
	Background  *string `form:"background" json:"background"`
	Width       *int    `form:"width" json:"width"`
	Height      *int    `form:"height" json:"height"`
}

// Apply writes every field present in f through the regular setters.
func (s *Store) Apply(f Form) {
	str := []struct {
		v   *string
		set func(string)
	}{
		{f.DisplayName, s.SetDisplayName},
		{f.Handle, s.SetHandle},
		{f.Avatar, s.SetAvatar},
		{f.Body, s.SetBody},
		{f.Likes, s.SetLikes},
		{f.Retweets, s.SetRetweets},
		{f.Replies, s.SetReplies},
		{f.Views, s.SetViews},
	}
	for _, field := range str {
		if field.v != nil {
			field.set(*field.v)
		}
	}
	if f.Background != nil {
		s.SetBackground(*f.Background)
	}
	if f.Width != nil {
		s.SetWidth(*f.Width)
	}
	if f.Height != nil {
		s.SetHeight(*f.Height)
	}
}
