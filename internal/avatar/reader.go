package avatar

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// imageExtensions maps file extensions the picker offers to their media type.
// mime.TypeByExtension covers the rest.
var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".svg":  "image/svg+xml",
	".avif": "image/avif",
}

// ReadDataURI reads an uploaded file fully and encodes it as a data URI.
// The media type comes from the file name, falling back to content sniffing.
// Anything outside image/* is refused with ErrNotImage. No size limit.
func ReadDataURI(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", filename, err)
	}

	mediaType := MediaType(filename, data)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%s (%s): %w", filename, mediaType, ErrNotImage)
	}
	return EncodeDataURI(mediaType, data), nil
}

// MediaType guesses the media type of an uploaded file.
func MediaType(filename string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := imageExtensions[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		t, _, _ = strings.Cut(t, ";")
		return t
	}
	t, _, _ := strings.Cut(http.DetectContentType(data), ";")
	return t
}
