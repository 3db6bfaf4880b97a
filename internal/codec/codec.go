// Package codec turns transport-encoded frames (base64 text, optionally
// carrying a data-URI header, or raw multipart bytes) into validated image
// payloads for the model backends.
package codec

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/dbwlsddd/Safety/internal/domain"
)

// DecodeBase64 decodes a base64 frame into raw image bytes. A data-URI
// prefix ("data:image/jpeg;base64,...") is stripped before decoding.
// Returns domain.ErrEmptyImage when the payload is empty and
// domain.ErrInvalidImage when the bytes are not valid base64 or not a
// decodable image. Both are recoverable: callers skip the message.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "base64,"); idx >= 0 {
		s = s[idx+len("base64,"):]
	}
	if s == "" {
		return nil, domain.ErrEmptyImage
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	if err := ValidateImage(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ValidateImage verifies that b holds a decodable jpeg, png or webp image.
func ValidateImage(b []byte) error {
	if len(b) == 0 {
		return domain.ErrEmptyImage
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(b)); err != nil {
		return domain.ErrInvalidImage.WithError(err)
	}
	return nil
}
