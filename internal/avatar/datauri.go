// Package avatar turns uploaded files into data URIs and resolves avatar
// sources (data URIs or remote URLs) into decoded images.
package avatar

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotDataURI is returned when a source is not a base64 data URI.
	ErrNotDataURI = errors.New("avatar: not a base64 data URI")
	// ErrNotImage is returned for uploads outside the image/* accept filter.
	ErrNotImage = errors.New("avatar: file is not an image")
)

const dataPrefix = "data:"

// IsDataURI reports whether source is an inline data URI.
func IsDataURI(source string) bool {
	return strings.HasPrefix(source, dataPrefix)
}

// EncodeDataURI builds "data:<mime>;base64,<payload>".
func EncodeDataURI(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(dataPrefix) + len(mimeType) + 8 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataPrefix)
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// DecodeDataURI splits a base64 data URI into its media type and bytes.
// Parameters between the media type and ";base64" are dropped.
func DecodeDataURI(uri string) (string, []byte, error) {
	if !IsDataURI(uri) {
		return "", nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(uri[len(dataPrefix):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrNotDataURI
	}
	mediaType, _, _ := strings.Cut(strings.TrimSuffix(header, ";base64"), ";")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data uri payload: %w", err)
	}
	return mediaType, data, nil
}
