package nanogen

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	dataURIPrefix = "data:"
	base64Marker  = ";base64"

	defaultMIMEType = "image/png"
)

// EncodeDataURI returns data as a data:<mime>;base64,<payload> URI.
func EncodeDataURI(mimeType string, data []byte) string {
	return dataURIPrefix + mimeType + base64Marker + "," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its MIME type and raw bytes.
// Only base64 payloads are accepted; that is the only form EncodeDataURI produces.
func DecodeDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, dataURIPrefix) {
		return "", nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidDataURI, dataURIPrefix)
	}

	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, dataURIPrefix), ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURI)
	}

	mimeType, isBase64 := strings.CutSuffix(meta, base64Marker)
	if !isBase64 {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURI)
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	return mimeType, data, nil
}

// ExtensionFromMIME returns a file extension for common image MIME types.
func ExtensionFromMIME(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}

// DownloadFileName is the attachment name offered for a gallery image.
func DownloadFileName(id, mimeType string) string {
	return "nanogen-" + id + "." + ExtensionFromMIME(mimeType)
}
