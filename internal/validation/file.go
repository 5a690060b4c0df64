package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Maximum file sizes in bytes
const (
	MaxVideoSize = 500 * 1024 * 1024 // 500MB
	MaxImageSize = 5 * 1024 * 1024   // 5MB
)

// Allowed upload content types
var (
	AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/jpg"}
	AllowedVideoTypes = []string{"video/mp4", "video/webm", "video/ogg"}
)

// FileMeta describes a candidate upload independent of its byte stream, so
// constraints can be checked before anything is spooled to disk.
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
}

// FileCheck is the result of a single file constraint check
type FileCheck struct {
	Valid bool
	Error string
}

// ValidateFileUpload checks a candidate file against size and type constraints.
// An absent file is always valid: requiredness belongs to the form schema, not
// this layer. Checks are ordered (size before type) and only the first failing
// check's message is returned.
func ValidateFileUpload(file *FileMeta, maxSize int64, allowedTypes []string) FileCheck {
	if file == nil {
		return FileCheck{Valid: true} // No file is valid (for optional files)
	}

	if file.Size > maxSize {
		return FileCheck{
			Valid: false,
			Error: fmt.Sprintf("File size exceeds the maximum limit of %sMB", formatMegabytes(maxSize)),
		}
	}

	if !containsType(allowedTypes, file.ContentType) {
		return FileCheck{
			Valid: false,
			Error: fmt.Sprintf("Invalid file type. Allowed types: %s", humanTypeList(allowedTypes)),
		}
	}

	return FileCheck{Valid: true}
}

// formatMegabytes renders a byte count as megabytes without trailing zeros
// (524288000 -> "500", 1572864 -> "1.5")
func formatMegabytes(bytes int64) string {
	return strconv.FormatFloat(float64(bytes)/(1024*1024), 'f', -1, 64)
}

// humanTypeList strips image/ and video/ prefixes for display
// ("image/png" -> "png")
func humanTypeList(types []string) string {
	short := make([]string, len(types))
	for i, t := range types {
		t = strings.TrimPrefix(t, "image/")
		t = strings.TrimPrefix(t, "video/")
		short[i] = t
	}
	return strings.Join(short, ", ")
}

func containsType(types []string, candidate string) bool {
	for _, t := range types {
		if t == candidate {
			return true
		}
	}
	return false
}
