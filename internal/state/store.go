package state

import (
	"io"
	"sync"

	"github.com/AnyUserName/tweetshot/internal/avatar"
	"github.com/AnyUserName/tweetshot/internal/palette"
)

// Store owns the fields of one session. Every setter writes exactly one
// field; the only coupling is background → text colour, which lives in the
// palette table. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	post      Post
	uploadSeq uint64
}

// New creates a store seeded with Defaults.
func New() *Store {
	return &Store{post: Defaults()}
}

// Snapshot returns a consistent copy of all fields.
func (s *Store) Snapshot() Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.post
}

func (s *Store) set(fn func(p *Post)) {
	s.mu.Lock()
	fn(&s.post)
	s.mu.Unlock()
}

func (s *Store) SetDisplayName(v string) { s.set(func(p *Post) { p.DisplayName = v }) }
func (s *Store) SetHandle(v string)      { s.set(func(p *Post) { p.Handle = v }) }
func (s *Store) SetBody(v string)        { s.set(func(p *Post) { p.Body = v }) }
func (s *Store) SetLikes(v string)       { s.set(func(p *Post) { p.Likes = v }) }
func (s *Store) SetRetweets(v string)    { s.set(func(p *Post) { p.Retweets = v }) }
func (s *Store) SetReplies(v string)     { s.set(func(p *Post) { p.Replies = v }) }
func (s *Store) SetViews(v string)       { s.set(func(p *Post) { p.Views = v }) }
func (s *Store) SetWidth(v int)          { s.set(func(p *Post) { p.Width = v }) }
func (s *Store) SetHeight(v int)         { s.set(func(p *Post) { p.Height = v }) }

// SetAvatar replaces the avatar source with a URL or data URI. It counts as
// the newest avatar write, so uploads still in flight are discarded.
func (s *Store) SetAvatar(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadSeq++
	s.post.Avatar = v
}

// SetBackground selects a palette entry by token. Unknown tokens leave the
// current selection untouched.
func (s *Store) SetBackground(token string) bool {
	e, ok := palette.Lookup(token)
	if !ok {
		return false
	}
	s.set(func(p *Post) { p.Background = e.Token })
	return true
}

// BeginUpload registers a new avatar upload and returns its sequence number.
func (s *Store) BeginUpload() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadSeq++
	return s.uploadSeq
}

// CompleteUpload stores the avatar produced by upload seq, unless a newer
// upload has been started since. Reports whether the field was written.
func (s *Store) CompleteUpload(seq uint64, dataURI string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.uploadSeq {
		return false
	}
	s.post.Avatar = dataURI
	return true
}

// UploadAvatar reads an uploaded file into a data URI and stores it under
// the upload ordering guard. On error the avatar is unchanged.
func (s *Store) UploadAvatar(r io.Reader, filename string) (applied bool, err error) {
	return s.FinishUpload(s.BeginUpload(), r, filename)
}

// FinishUpload is UploadAvatar for an upload whose sequence number was taken
// when it was submitted, before its body finished arriving.
func (s *Store) FinishUpload(seq uint64, r io.Reader, filename string) (applied bool, err error) {
	uri, err := avatar.ReadDataURI(r, filename)
	if err != nil {
		return false, err
	}
	return s.CompleteUpload(seq, uri), nil
}
