package studio

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrMalformedDataURI reports a data URI that does not follow the
// data:<mediaType>;base64,<payload> structure.
var ErrMalformedDataURI = fmt.Errorf("malformed data URI")

// ImageAsset is an image crossing the presentation boundary. The payload is
// kept as base64 text; it is only decoded to raw bytes when a request part
// is built.
type ImageAsset struct {
	MIMEType string
	Data     string // base64-encoded payload
}

// DecodeDataURI splits a data:<mediaType>;base64,<payload> string into an
// ImageAsset. Only the structure is validated here; the payload is decoded
// lazily by Bytes.
func DecodeDataURI(uri string) (*ImageAsset, error) {
	meta, data, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma separator", ErrMalformedDataURI)
	}

	_, typeSpec, ok := strings.Cut(meta, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing colon separator", ErrMalformedDataURI)
	}

	mimeType, _, _ := strings.Cut(typeSpec, ";")
	if mimeType == "" {
		return nil, fmt.Errorf("%w: empty media type", ErrMalformedDataURI)
	}

	return &ImageAsset{MIMEType: mimeType, Data: data}, nil
}

// Bytes decodes the base64 payload to raw image bytes. Payloads produced by
// browser canvas APIs sometimes arrive without padding, so both forms are
// accepted.
func (a *ImageAsset) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err == nil {
		return raw, nil
	}

	raw, rawErr := base64.RawStdEncoding.DecodeString(a.Data)
	if rawErr != nil {
		return nil, fmt.Errorf("decode %s payload: %w", a.MIMEType, err)
	}
	return raw, nil
}

// DataURI re-encodes the asset as a data URI for the presentation layer.
func (a *ImageAsset) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MIMEType, a.Data)
}

// imageMIMETypes maps supported file extensions to their MIME type.
var imageMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// LoadImageAsset reads an image file from disk and wraps it as an ImageAsset.
// The MIME type is derived from the file extension; unknown extensions are
// treated as PNG.
func LoadImageAsset(path string) (*ImageAsset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}

	mimeType := "image/png"
	if m, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		mimeType = m
	}

	return &ImageAsset{
		MIMEType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}
