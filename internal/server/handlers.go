package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/AnyUserName/tweetshot/internal/export"
	"github.com/AnyUserName/tweetshot/internal/palette"
	"github.com/AnyUserName/tweetshot/internal/state"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func storeOf(c *gin.Context) *state.Store {
	return c.MustGet(storeKey).(*state.Store)
}

type editorPage struct {
	Post    state.Post
	Avatar  template.URL
	Palette []palette.Entry
	Min     int
	Max     int
	Profile string
}

func (s *Server) editor(c *gin.Context) {
	post := storeOf(c).Snapshot()
	c.HTML(http.StatusOK, "editor.html", editorPage{
		Post:    post,
		Avatar:  avatarURL(post.Avatar),
		Palette: palette.All(),
		Min:     state.MinDimension,
		Max:     state.MaxDimension,
		Profile: s.exporter.Profile().Name,
	})
}

// avatarURL lets image data URIs and http(s) URLs through html/template's
// URL filter; anything else renders as an empty src.
func avatarURL(src string) template.URL {
	switch {
	case strings.HasPrefix(src, "data:image/"),
		strings.HasPrefix(src, "https://"),
		strings.HasPrefix(src, "http://"):
		return template.URL(src)
	}
	return ""
}

func (s *Server) listPalette(c *gin.Context) {
	c.JSON(http.StatusOK, palette.All())
}

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, storeOf(c).Snapshot())
}

// updateState binds whichever fields the form carries. Values are never
// validated; an unknown background token is ignored.
func (s *Server) updateState(c *gin.Context) {
	var form state.Form
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	store := storeOf(c)
	store.Apply(form)
	c.JSON(http.StatusOK, store.Snapshot())
}

// uploadAvatar reads the multipart "avatar" file into the store. A failed
// upload leaves the avatar as it was and answers 204. The upload's place in
// line is taken before the body is read, so a slow older upload cannot
// replace a newer one.
func (s *Server) uploadAvatar(c *gin.Context) {
	store := storeOf(c)
	seq := store.BeginUpload()
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		s.log.Warn("avatar upload missing", zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}
	defer file.Close()

	applied, err := store.FinishUpload(seq, file, header.Filename)
	if err != nil {
		s.log.Warn("avatar upload ignored", zap.String("file", header.Filename), zap.Error(err))
		c.Status(http.StatusNoContent)
		return
	}
	if !applied {
		s.log.Debug("avatar upload superseded", zap.String("file", header.Filename))
	}
	c.JSON(http.StatusOK, store.Snapshot())
}

// preview renders the current state inline.
func (s *Server) preview(c *gin.Context) {
	a, err := s.exporter.Export(c.Request.Context(), storeOf(c).Snapshot())
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header("ETag", `"`+a.Hash+`"`)
	c.Data(http.StatusOK, a.MediaType, a.Data)
}

// download is the "Download Screenshot" button. Each request yields its own
// attachment; a failed capture answers 204 with no file.
func (s *Server) download(c *gin.Context) {
	sink := export.DownloaderFunc(func(_ context.Context, a *export.Artifact) (string, error) {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Filename))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, a.MediaType, a.Data)
		return "response", nil
	})
	if a := s.exporter.Trigger(c.Request.Context(), storeOf(c).Snapshot(), sink); a == nil {
		c.Status(http.StatusNoContent)
	}
}
