package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFileUpload_AbsentFileIsValid(t *testing.T) {
	result := ValidateFileUpload(nil, MaxImageSize, AllowedImageTypes)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Error)
}

func TestValidateFileUpload_OversizedFile(t *testing.T) {
	file := &FileMeta{
		Name:        "huge.png",
		Size:        MaxImageSize + 1,
		ContentType: "image/png",
	}

	result := ValidateFileUpload(file, MaxImageSize, AllowedImageTypes)
	assert.False(t, result.Valid)
	assert.Equal(t, "File size exceeds the maximum limit of 5MB", result.Error)
}

func TestValidateFileUpload_OversizedFileWithDisallowedType(t *testing.T) {
	// Size is checked before type: only the size message is returned
	file := &FileMeta{
		Name:        "huge.pdf",
		Size:        MaxImageSize + 1,
		ContentType: "application/pdf",
	}

	result := ValidateFileUpload(file, MaxImageSize, AllowedImageTypes)
	assert.False(t, result.Valid)
	assert.Equal(t, "File size exceeds the maximum limit of 5MB", result.Error)
}

func TestValidateFileUpload_DisallowedType(t *testing.T) {
	file := &FileMeta{
		Name:        "doc.pdf",
		Size:        1024,
		ContentType: "application/pdf",
	}

	result := ValidateFileUpload(file, MaxImageSize, AllowedImageTypes)
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid file type. Allowed types: jpeg, png, gif, jpg", result.Error)
}

func TestValidateFileUpload_VideoTypeList(t *testing.T) {
	file := &FileMeta{
		Name:        "clip.avi",
		Size:        1024,
		ContentType: "video/avi",
	}

	result := ValidateFileUpload(file, MaxVideoSize, AllowedVideoTypes)
	assert.False(t, result.Valid)
	assert.Equal(t, "Invalid file type. Allowed types: mp4, webm, ogg", result.Error)
}

func TestValidateFileUpload_ValidFile(t *testing.T) {
	for _, contentType := range AllowedImageTypes {
		file := &FileMeta{
			Name:        "pic",
			Size:        MaxImageSize, // boundary: exactly the limit passes
			ContentType: contentType,
		}

		result := ValidateFileUpload(file, MaxImageSize, AllowedImageTypes)
		assert.True(t, result.Valid, "content type %s should be accepted", contentType)
	}
}

func TestValidateFileUpload_VideoSizeLimitMessage(t *testing.T) {
	file := &FileMeta{
		Name:        "lecture.mp4",
		Size:        600 * 1024 * 1024,
		ContentType: "video/mp4",
	}

	result := ValidateFileUpload(file, MaxVideoSize, AllowedVideoTypes)
	assert.False(t, result.Valid)
	assert.Equal(t, "File size exceeds the maximum limit of 500MB", result.Error)
}

func TestFormatMegabytes_TrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "500", formatMegabytes(MaxVideoSize))
	assert.Equal(t, "5", formatMegabytes(MaxImageSize))
	assert.Equal(t, "1.5", formatMegabytes(1572864))
}
