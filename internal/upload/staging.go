package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tradeacademy/tradeacademy-api/internal/validation"
	"github.com/tradeacademy/tradeacademy-api/pkg/metrics"
)

// StagedFile holds one file-input control's upload between selection and
// commit. A selected file owns exactly one revocable resource: the spool file
// on disk, which doubles as the preview source. The invariant is 1:1 — when
// the file is replaced or cleared, the previous spool must be released before
// a new one is created, on every path including validation rejects.
//
// Edit flows may instead seed a remote preview (an already-persisted URL).
// A remote preview owns no local resource and is never released.
type StagedFile struct {
	maxSize      int64
	allowedTypes []string
	dir          string

	file       *validation.FileMeta
	spoolPath  string
	previewURL string
	remote     bool

	onRelease func(spoolPath string)
}

// Option configures a StagedFile
type Option func(*StagedFile)

// WithReleaseHook registers a hook invoked once per released spool resource.
// Used by tests to assert the release-exactly-once invariant.
func WithReleaseHook(hook func(spoolPath string)) Option {
	return func(s *StagedFile) { s.onRelease = hook }
}

// NewStagedFile creates an empty staging slot. dir may be empty to use the
// OS temp directory.
func NewStagedFile(dir string, maxSize int64, allowedTypes []string, opts ...Option) *StagedFile {
	s := &StagedFile{
		maxSize:      maxSize,
		allowedTypes: allowedTypes,
		dir:          dir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select stages a newly picked file. Any previously staged spool is released
// first, before the new file is validated: a rejected replacement must not
// leave the old resource orphaned, and it must not resurrect it either.
// On rejection the slot ends up empty and the validation message is returned.
func (s *StagedFile) Select(meta *validation.FileMeta, r io.Reader) error {
	s.release()

	check := validation.ValidateFileUpload(meta, s.maxSize, s.allowedTypes)
	if !check.Valid {
		return fmt.Errorf("%s", check.Error)
	}
	if meta == nil {
		return fmt.Errorf("no file provided")
	}

	spool, err := os.CreateTemp(s.dir, "staged-*"+filepath.Ext(meta.Name))
	if err != nil {
		return fmt.Errorf("failed to create spool file: %w", err)
	}

	written, err := io.Copy(spool, r)
	closeErr := spool.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(spool.Name())
		return fmt.Errorf("failed to spool upload: %w", err)
	}
	if written != meta.Size {
		os.Remove(spool.Name())
		return fmt.Errorf("upload truncated: got %d of %d bytes", written, meta.Size)
	}

	s.file = meta
	s.spoolPath = spool.Name()
	s.previewURL = "file://" + spool.Name()
	s.remote = false
	metrics.StagedFilesActive.Inc()

	return nil
}

// SeedRemote initializes the slot with a previously persisted URL (edit
// flows). The slot shows a preview but owns no revocable resource.
func (s *StagedFile) SeedRemote(url string) {
	s.release()
	s.previewURL = url
	s.remote = true
}

// Clear releases any staged spool and empties the slot
func (s *StagedFile) Clear() {
	s.release()
}

// Close releases any held resource. Safe to call multiple times and intended
// to be deferred by the owning handler so cleanup runs on every exit path.
func (s *StagedFile) Close() error {
	s.release()
	return nil
}

// release frees the spool resource if one is owned. Remote previews are
// dropped without touching disk.
func (s *StagedFile) release() {
	if s.spoolPath != "" {
		os.Remove(s.spoolPath)
		if s.onRelease != nil {
			s.onRelease(s.spoolPath)
		}
		metrics.StagedFilesActive.Dec()
	}
	s.file = nil
	s.spoolPath = ""
	s.previewURL = ""
	s.remote = false
}

// HasFile reports whether a local file is staged
func (s *StagedFile) HasFile() bool {
	return s.file != nil
}

// IsRemote reports whether the preview comes from a persisted URL rather
// than a staged file
func (s *StagedFile) IsRemote() bool {
	return s.remote
}

// File returns the staged file's metadata, or nil when empty
func (s *StagedFile) File() *validation.FileMeta {
	return s.file
}

// PreviewURL returns the current preview source ("" when empty)
func (s *StagedFile) PreviewURL() string {
	return s.previewURL
}

// Open returns a reader over the staged bytes for committing to object
// storage. The caller must close it.
func (s *StagedFile) Open() (io.ReadCloser, error) {
	if s.file == nil {
		return nil, fmt.Errorf("no file staged")
	}
	return os.Open(s.spoolPath)
}
