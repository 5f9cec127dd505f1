// Package slipimage reads a slip photo out of a multipart upload and
// re-encodes it as a data URI for the vision providers.
package slipimage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrMissingImage = errors.New("no image field in upload")
	ErrTooLarge     = errors.New("image exceeds the upload limit")
	ErrBadType      = errors.New("unsupported image type")
)

// allowedTypes are the formats the vision endpoints accept. Detection uses
// content sniffing, not the client-supplied header.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Image is a decoded upload ready to embed in a provider request.
type Image struct {
	MIME string
	Data []byte
}

// DataURI renders the image as a base64 data URI.
func (img Image) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIME, base64.StdEncoding.EncodeToString(img.Data))
}

// FromRequest pulls the "image" file out of a multipart request, enforcing
// the byte cap and the type allowlist.
func FromRequest(r *http.Request, maxBytes int64) (Image, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return Image{}, fmt.Errorf("parse multipart form: %w", err)
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return Image{}, ErrMissingImage
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return Image{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Image{}, ErrMissingImage
	}

	mime := http.DetectContentType(data)
	if !allowedTypes[mime] {
		return Image{}, fmt.Errorf("%w: %s", ErrBadType, mime)
	}
	return Image{MIME: mime, Data: data}, nil
}
