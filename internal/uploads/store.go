package uploads

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	app_errors "spareeye/backend/internal/errors"
)

// Client-facing messages of the two upload rejections.
const (
	msgUnsupportedType = "Only JPG, PNG, and WEBP are allowed."
	msgTooLargeFormat  = "One or more files exceed %dMB."
)

// File is one uploaded image held in memory. Size may be set without Data when
// the transport already knows the file is over the limit.
type File struct {
	Name string
	Size int64
	Data []byte
}

func (f File) size() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Data))
}

// Limits bounds a single upload batch.
type Limits struct {
	MaxFiles     int
	MaxFileBytes int64
}

// Store persists uploaded images under a per-owner directory and serves them
// back by reference.
type Store struct {
	fs     afero.Fs
	limits Limits
	now    func() time.Time
}

// NewStore returns a Store writing to fsys. The owner namespaces live at its root.
func NewStore(fsys afero.Fs, limits Limits) *Store {
	return &Store{fs: fsys, limits: limits, now: time.Now}
}

// NewDiskStore returns a Store rooted at dir on the local filesystem.
func NewDiskStore(dir string, limits Limits) (*Store, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return NewStore(afero.NewBasePathFs(osFs, dir), limits), nil
}

func (s *Store) Limits() Limits {
	return s.limits
}

// Validate checks a batch against the limits without writing anything.
func (s *Store) Validate(files []File) error {
	if len(files) > s.limits.MaxFiles {
		return fmt.Errorf("%w: at most %d images can be uploaded at once", app_errors.ErrValidation, s.limits.MaxFiles)
	}
	for _, f := range files {
		if f.size() > s.limits.MaxFileBytes {
			return fmt.Errorf("%w: "+msgTooLargeFormat, app_errors.ErrTooLarge, s.limits.MaxFileBytes/(1024*1024))
		}
		if _, ok := detectImageType(f.Data); !ok {
			return fmt.Errorf("%w: %s", app_errors.ErrUnsupportedMediaType, msgUnsupportedType)
		}
	}
	return nil
}

// Save validates the whole batch, then writes every file into the owner's
// namespace and returns their references in input order. A failed write removes
// the files already written by the same call.
func (s *Store) Save(ownerID string, files []File) ([]string, error) {
	if !ValidOwnerID(ownerID) {
		return nil, fmt.Errorf("%w: invalid owner id", app_errors.ErrValidation)
	}
	if err := s.Validate(files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []string{}, nil
	}

	if err := s.fs.MkdirAll(ownerID, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload namespace: %w", err)
	}

	refs := make([]string, 0, len(files))
	written := make([]string, 0, len(files))
	for _, f := range files {
		name := s.storedName(f)
		p := path.Join(ownerID, name)
		if err := afero.WriteFile(s.fs, p, f.Data, 0640); err != nil {
			s.cleanup(written)
			return nil, fmt.Errorf("failed to write upload %s: %w", name, err)
		}
		written = append(written, p)
		refs = append(refs, PublicURL(ownerID, name))
	}

	slog.Debug("Stored uploaded images", "owner", ownerID, "count", len(refs))
	return refs, nil
}

// Open returns the bytes of a stored file.
func (s *Store) Open(ownerID, filename string) ([]byte, error) {
	if !ValidOwnerID(ownerID) || !safeFilename.MatchString(filename) || filename == "." || filename == ".." {
		return nil, fmt.Errorf("%w: invalid upload reference", app_errors.ErrValidation)
	}
	data, err := afero.ReadFile(s.fs, path.Join(ownerID, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: upload %s", app_errors.ErrNotFound, PublicURL(ownerID, filename))
		}
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

// storedName builds <unixMillis>-<random>-<sanitized name>. The extension is
// corrected when it does not match the sniffed content, so the media type can
// later be recovered from the name alone.
func (s *Store) storedName(f File) string {
	name := SanitizeFilename(f.Name)
	if mt, ok := detectImageType(f.Data); ok && MediaTypeFromExtension(name) != mt.String() {
		name += mt.Extension()
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), suffix, name)
}

func (s *Store) cleanup(paths []string) {
	for _, p := range paths {
		if err := s.fs.Remove(p); err != nil {
			slog.Warn("Failed to remove partially written upload", "path", p, "error", err)
		}
	}
}

func detectImageType(data []byte) (*mimetype.MIME, bool) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(MediaTypeJPEG), mt.Is(MediaTypePNG), mt.Is(MediaTypeWEBP):
		return mt, true
	default:
		return mt, false
	}
}
