package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/AnyUserName/tweetshot/internal/export"
	"github.com/AnyUserName/tweetshot/internal/palette"
	"github.com/AnyUserName/tweetshot/internal/profile"
	"github.com/AnyUserName/tweetshot/internal/render"
	"github.com/AnyUserName/tweetshot/internal/state"
	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	r, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	s, err := New(Config{
		Exporter:   export.New(export.Config{Renderer: r, Profile: profile.Get("screen")}),
		SessionTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return s
}

// client keeps the session cookie between requests like a browser tab.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) upload(filename string, data []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	body, contentType := multipartAvatar(c.t, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/api/avatar", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	return c.do(req)
}

func (c *client) state() state.Post {
	c.t.Helper()
	w := c.get("/api/state")
	if w.Code != http.StatusOK {
		c.t.Fatalf("GET /api/state = %d", w.Code)
	}
	var p state.Post
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		c.t.Fatalf("decode state: %v", err)
	}
	return p
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestEditorPage(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}
	w := c.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("GET / = %d", w.Code)
	}

	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	opts := doc.Find(`select[name="background"] option`)
	if opts.Length() != len(palette.All()) {
		t.Errorf("background options = %d, want %d", opts.Length(), len(palette.All()))
	}
	if v, _ := doc.Find(`select[name="background"] option[selected]`).Attr("value"); v != "bg-black" {
		t.Errorf("selected background = %q, want bg-black", v)
	}
	if fg, _ := doc.Find(`option[value="bg-yellow-500"]`).Attr("data-foreground"); fg != "#000000" {
		t.Errorf("yellow foreground = %q, want #000000", fg)
	}

	for _, name := range []string{"display_name", "handle", "width", "height", "likes", "retweets", "replies", "views"} {
		if doc.Find(`input[name="`+name+`"]`).Length() != 1 {
			t.Errorf("missing input %q", name)
		}
	}
	if v, _ := doc.Find(`input[name="display_name"]`).Attr("value"); v != "John Doe" {
		t.Errorf("display_name = %q", v)
	}
	if min, _ := doc.Find(`input[name="width"]`).Attr("min"); min != "200" {
		t.Errorf("width min = %q, want 200", min)
	}
	if max, _ := doc.Find(`input[name="height"]`).Attr("max"); max != "1200" {
		t.Errorf("height max = %q, want 1200", max)
	}
	if got := strings.TrimSpace(doc.Find(`textarea[name="body"]`).Text()); got != "This is my awesome tweet!" {
		t.Errorf("body = %q", got)
	}
	if accept, _ := doc.Find(`input[type="file"][name="avatar"]`).Attr("accept"); accept != "image/*" {
		t.Errorf("avatar accept = %q", accept)
	}
	if src, _ := doc.Find("#avatar-thumb").Attr("src"); !strings.HasPrefix(src, "https://") {
		t.Errorf("avatar thumb src = %q", src)
	}
	if href, _ := doc.Find("a#download").Attr("href"); href != "/export" {
		t.Errorf("download href = %q", href)
	}
}

func TestSessionCookieReused(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}

	w := c.get("/api/state")
	if c.cookie == nil {
		t.Fatal("no session cookie issued")
	}
	first := c.cookie.Value

	c.postForm("/api/state", url.Values{"handle": {"ada"}})
	w = c.get("/api/state")
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			t.Errorf("cookie reissued for a live session")
		}
	}
	if c.cookie.Value != first {
		t.Errorf("session id changed")
	}
	if got := c.state().Handle; got != "ada" {
		t.Errorf("handle = %q, want ada", got)
	}

	// A second browser gets its own defaults.
	other := &client{t: t, h: c.h}
	if got := other.state().Handle; got != "johndoe" {
		t.Errorf("other session handle = %q, want johndoe", got)
	}
}

func TestUpdateState(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}

	w := c.postForm("/api/state", url.Values{
		"display_name": {"Ada Lovelace"},
		"likes":        {"abc"},
		"background":   {"bg-blue-500"},
		"width":        {"150"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/state = %d: %s", w.Code, w.Body.String())
	}
	p := c.state()
	if p.DisplayName != "Ada Lovelace" || p.Likes != "abc" || p.Background != "bg-blue-500" || p.Width != 150 {
		t.Errorf("state = %+v", p)
	}
	if p.Handle != "johndoe" || p.Height != 400 {
		t.Errorf("untouched fields changed: %+v", p)
	}

	c.postForm("/api/state", url.Values{"background": {"bg-teal-500"}})
	if got := c.state().Background; got != "bg-blue-500" {
		t.Errorf("unknown background applied: %q", got)
	}

	w = c.postForm("/api/state", url.Values{"width": {"wide"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric width = %d, want 400", w.Code)
	}
}

func TestUploadAvatar(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}

	w := c.upload("me.png", pngBytes(t))
	if w.Code != http.StatusOK {
		t.Fatalf("upload = %d", w.Code)
	}
	uploaded := c.state().Avatar
	if !strings.HasPrefix(uploaded, "data:image/png;base64,") {
		t.Fatalf("avatar = %.40q", uploaded)
	}

	w = c.upload("notes.txt", []byte("plain text, not a picture"))
	if w.Code != http.StatusNoContent {
		t.Errorf("text upload = %d, want 204", w.Code)
	}
	if got := c.state().Avatar; got != uploaded {
		t.Errorf("failed upload changed the avatar")
	}
}

func multipartAvatar(t *testing.T, filename string, data []byte) ([]byte, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()
	return body.Bytes(), mw.FormDataContentType()
}

func TestUploadAvatar_SlowOlderUploadLoses(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}
	c.get("/api/state")
	if c.cookie == nil {
		t.Fatal("no session cookie issued")
	}

	// Upload A is submitted first but its body trickles in.
	bodyA, typeA := multipartAvatar(t, "a.png", pngBytes(t))
	pr, pw := io.Pipe()
	reqA := httptest.NewRequest(http.MethodPost, "/api/avatar", pr)
	reqA.Header.Set("Content-Type", typeA)
	reqA.AddCookie(c.cookie)
	wA := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.h.ServeHTTP(wA, reqA)
	}()
	// Returns once the handler has started reading A's body.
	if _, err := pw.Write(bodyA[:64]); err != nil {
		t.Fatal(err)
	}

	// Upload B is submitted later and completes first.
	wB := c.upload("b.webp", pngBytes(t))
	if wB.Code != http.StatusOK {
		t.Fatalf("upload B = %d", wB.Code)
	}

	pw.Write(bodyA[64:])
	pw.Close()
	<-done
	if wA.Code != http.StatusOK {
		t.Fatalf("upload A = %d", wA.Code)
	}

	if got := c.state().Avatar; !strings.HasPrefix(got, "data:image/webp;base64,") {
		t.Errorf("older upload replaced the newer one: %.40q", got)
	}
}

func TestPreview(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}
	c.postForm("/api/state", url.Values{"width": {"300"}, "height": {"250"}})

	w := c.get("/preview.png")
	if w.Code != http.StatusOK {
		t.Fatalf("preview = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
	cfg, err := png.DecodeConfig(w.Body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 250 {
		t.Errorf("size = %dx%d, want 300x250", cfg.Width, cfg.Height)
	}
}

func TestExportAttachment(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}

	for i := 0; i < 2; i++ {
		w := c.get("/export")
		if w.Code != http.StatusOK {
			t.Fatalf("export #%d = %d", i, w.Code)
		}
		cd := w.Header().Get("Content-Disposition")
		if cd != `attachment; filename="tweet-screenshot.png"` {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if _, err := png.Decode(w.Body); err != nil {
			t.Errorf("export #%d not a png: %v", i, err)
		}
	}
}

func TestExport_OversizedIsSilent(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}
	w := c.postForm("/api/state", url.Values{"width": {"9223372036854775807"}})
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/state = %d", w.Code)
	}

	w = c.get("/export")
	if w.Code != http.StatusNoContent {
		t.Errorf("export = %d, want 204", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("Content-Disposition = %q", cd)
	}

	// The session keeps working once the size is sensible again.
	c.postForm("/api/state", url.Values{"width": {"600"}})
	if w := c.get("/export"); w.Code != http.StatusOK {
		t.Errorf("export after resize = %d", w.Code)
	}
}

func TestListPalette(t *testing.T) {
	c := &client{t: t, h: newTestServer(t).Handler()}
	w := c.get("/api/palette")
	if w.Code != http.StatusOK {
		t.Fatalf("palette = %d", w.Code)
	}
	if c.cookie != nil {
		t.Error("palette endpoint issued a session")
	}
	var got []palette.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 10 || got[2].Token != "bg-blue-500" || got[2].Background != "#3b82f6" {
		t.Errorf("palette = %+v", got)
	}
}

func TestSessionsExpire(t *testing.T) {
	s := NewSessions(time.Minute)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }

	store, id := s.Get("")
	if id == "" {
		t.Fatal("empty session id")
	}
	again, same := s.Get(id)
	if same != id || again != store {
		t.Fatal("live session not reused")
	}

	now = now.Add(2 * time.Minute)
	fresh, next := s.Get(id)
	if next == id || fresh == store {
		t.Error("expired session reused")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	_, unknown := s.Get("not-a-session")
	if unknown == "not-a-session" {
		t.Error("unknown id accepted")
	}
}
