package upload

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeacademy/tradeacademy-api/internal/validation"
)

func imageMeta(name string, size int64) *validation.FileMeta {
	return &validation.FileMeta{Name: name, Size: size, ContentType: "image/png"}
}

func TestStagedFile_SelectSpoolsAndPreviews(t *testing.T) {
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes)
	defer s.Close()

	content := "fake png bytes"
	err := s.Select(imageMeta("thumb.png", int64(len(content))), strings.NewReader(content))
	require.NoError(t, err)

	assert.True(t, s.HasFile())
	assert.False(t, s.IsRemote())
	assert.NotEmpty(t, s.PreviewURL())

	rc, err := s.Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestStagedFile_RejectLeavesSlotEmpty(t *testing.T) {
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes)
	defer s.Close()

	meta := &validation.FileMeta{Name: "clip.mp4", Size: 100, ContentType: "video/mp4"}
	err := s.Select(meta, strings.NewReader(strings.Repeat("x", 100)))
	require.Error(t, err)

	assert.False(t, s.HasFile())
	assert.Empty(t, s.PreviewURL())
}

func TestStagedFile_ReplaceReleasesPreviousExactlyOnce(t *testing.T) {
	var released []string
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes,
		WithReleaseHook(func(path string) { released = append(released, path) }))
	defer s.Close()

	require.NoError(t, s.Select(imageMeta("a.png", 3), strings.NewReader("aaa")))
	first := s.PreviewURL()

	require.NoError(t, s.Select(imageMeta("b.png", 3), strings.NewReader("bbb")))
	second := s.PreviewURL()

	assert.NotEqual(t, first, second)
	require.Len(t, released, 1)
	assert.Equal(t, strings.TrimPrefix(first, "file://"), released[0])

	// the released spool must be gone from disk
	_, err := os.Stat(released[0])
	assert.True(t, os.IsNotExist(err))
}

func TestStagedFile_RejectedReplacementStillReleasesPrevious(t *testing.T) {
	var released int
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes,
		WithReleaseHook(func(string) { released++ }))
	defer s.Close()

	require.NoError(t, s.Select(imageMeta("a.png", 3), strings.NewReader("aaa")))

	bad := &validation.FileMeta{Name: "huge.png", Size: validation.MaxImageSize + 1, ContentType: "image/png"}
	err := s.Select(bad, strings.NewReader(""))
	require.Error(t, err)

	// previous resource released before the reject, slot ends empty
	assert.Equal(t, 1, released)
	assert.False(t, s.HasFile())
	assert.Empty(t, s.PreviewURL())
}

func TestStagedFile_CloseIsIdempotent(t *testing.T) {
	var released int
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes,
		WithReleaseHook(func(string) { released++ }))

	require.NoError(t, s.Select(imageMeta("a.png", 3), strings.NewReader("aaa")))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	s.Clear()

	assert.Equal(t, 1, released)
}

func TestStagedFile_RemoteSeedOwnsNothing(t *testing.T) {
	var released int
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes,
		WithReleaseHook(func(string) { released++ }))
	defer s.Close()

	s.SeedRemote("https://cdn.tradeacademy.io/thumbs/42.png")
	assert.True(t, s.IsRemote())
	assert.False(t, s.HasFile())
	assert.Equal(t, "https://cdn.tradeacademy.io/thumbs/42.png", s.PreviewURL())

	// replacing a remote preview releases no local resource
	require.NoError(t, s.Select(imageMeta("new.png", 3), strings.NewReader("new")))
	assert.False(t, s.IsRemote())
	assert.Equal(t, 0, released)

	s.Clear()
	assert.Equal(t, 1, released)
	assert.Empty(t, s.PreviewURL())
}

func TestStagedFile_TruncatedUploadRejected(t *testing.T) {
	s := NewStagedFile(t.TempDir(), validation.MaxImageSize, validation.AllowedImageTypes)
	defer s.Close()

	err := s.Select(imageMeta("a.png", 10), strings.NewReader("abc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
	assert.False(t, s.HasFile())
}
