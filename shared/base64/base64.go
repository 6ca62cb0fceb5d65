// Package base64 unwraps secrets that deployment platforms hand over base64 encoded.
package base64

import (
	"encoding/base64"
	"strings"
)

const (
	dataPrefix   = "data:"
	base64Marker = ";base64,"
	pemMarker    = "-----BEGIN"
)

// GetContentType returns the media type of a data URL, or "" for anything else.
func GetContentType(file string) string {
	start := len(dataPrefix)
	end := strings.Index(file, base64Marker)

	if !strings.HasPrefix(file, dataPrefix) || end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// DecodePEM returns value unchanged when it already holds a PEM block. A data URL or a bare
// base64 string is decoded, and the decoded text is used only if it is PEM itself.
func DecodePEM(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.Contains(value, pemMarker) {
		return value
	}

	payload := value
	if GetContentType(value) != "" {
		payload = value[strings.Index(value, base64Marker)+len(base64Marker):]
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return value
	}

	if !strings.Contains(string(decoded), pemMarker) {
		return value
	}

	return string(decoded)
}
