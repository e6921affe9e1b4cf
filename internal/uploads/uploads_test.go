package uploads

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "spareeye/backend/internal/errors"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)
	webpBytes = append([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
)

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	s := NewStore(fsys, Limits{MaxFiles: 6, MaxFileBytes: 10 * 1024 * 1024})
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, fsys
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":        "photo.jpg",
		"my photo (1).png": "my_photo__1_.png",
		"../../etc/passwd": "_.._etc_passwd",
		"":                 "image",
		"...":              "image",
		"фото.webp":        "____.webp",
		"a/b\\c.jpeg":      "a_b_c.jpeg",
	}
	for in, want := range tests {
		got := SanitizeFilename(in)
		assert.Equal(t, want, got, "input %q", in)
		assert.Regexp(t, `^[A-Za-z0-9._-]+$`, got)
	}
}

func TestParseReference(t *testing.T) {
	owner, file, ok := ParseReference("/uploads/user_1/1700-abc-photo.jpg")
	require.True(t, ok)
	assert.Equal(t, "user_1", owner)
	assert.Equal(t, "1700-abc-photo.jpg", file)

	for _, bad := range []string{
		"/uploads/user1",
		"/uploads/user1/",
		"/uploads/user1/a/b.jpg",
		"/uploads/../secret/a.jpg",
		"/uploads/user1/..",
		"/uploads/user.1/a.jpg",
		"/uploads/user1/a b.jpg",
		"uploads/user1/a.jpg",
		"https://example.com/uploads/user1/a.jpg",
		"",
	} {
		_, _, ok := ParseReference(bad)
		assert.False(t, ok, "reference %q should be rejected", bad)
	}
}

func TestReferenceOwner(t *testing.T) {
	for ref, want := range map[string]string{
		"/uploads/user1/a.jpg":     "user1",
		"/uploads/user1/a/b c.jpg": "user1",
		"/uploads/../x":            "..",
		"/uploads/":                "",
	} {
		owner, ok := ReferenceOwner(ref)
		assert.True(t, ok, ref)
		assert.Equal(t, want, owner, ref)
	}

	_, ok := ReferenceOwner("https://example.com/uploads/user1/a.jpg")
	assert.False(t, ok)
}

func TestMediaTypeFromExtension(t *testing.T) {
	assert.Equal(t, MediaTypePNG, MediaTypeFromExtension("a.PNG"))
	assert.Equal(t, MediaTypeWEBP, MediaTypeFromExtension("a.webp"))
	assert.Equal(t, MediaTypeJPEG, MediaTypeFromExtension("a.jpeg"))
	assert.Equal(t, MediaTypeJPEG, MediaTypeFromExtension("a.bmp"))
	assert.Equal(t, MediaTypeJPEG, MediaTypeFromExtension("noext"))
}

func TestStore_Validate(t *testing.T) {
	s, _ := newTestStore(t)

	t.Run("Accepts allowed types", func(t *testing.T) {
		err := s.Validate([]File{{Name: "a.png", Data: pngBytes}, {Name: "b.jpg", Data: jpegBytes}, {Name: "c.webp", Data: webpBytes}})
		assert.NoError(t, err)
	})

	t.Run("Rejects unsupported type", func(t *testing.T) {
		err := s.Validate([]File{{Name: "a.png", Data: pngBytes}, {Name: "anim.gif", Data: gifBytes}})
		assert.ErrorIs(t, err, app_errors.ErrUnsupportedMediaType)
		assert.ErrorContains(t, err, "Only JPG, PNG, and WEBP are allowed.")
	})

	t.Run("Rejects a jpg name with non-image content", func(t *testing.T) {
		err := s.Validate([]File{{Name: "fake.jpg", Data: []byte("hello world")}})
		assert.ErrorIs(t, err, app_errors.ErrUnsupportedMediaType)
	})

	t.Run("Rejects oversized file", func(t *testing.T) {
		err := s.Validate([]File{{Name: "big.jpg", Size: 10*1024*1024 + 1}})
		assert.ErrorIs(t, err, app_errors.ErrTooLarge)
		assert.ErrorContains(t, err, "One or more files exceed 10MB.")
	})

	t.Run("Accepts a file exactly at the limit", func(t *testing.T) {
		data := make([]byte, 10*1024*1024)
		copy(data, pngBytes)
		assert.NoError(t, s.Validate([]File{{Name: "edge.png", Data: data}}))
	})

	t.Run("Rejects too many files", func(t *testing.T) {
		files := make([]File, 7)
		for i := range files {
			files[i] = File{Name: "a.png", Data: pngBytes}
		}
		err := s.Validate(files)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestStore_Save(t *testing.T) {
	t.Run("Writes files in order and returns references", func(t *testing.T) {
		s, fsys := newTestStore(t)

		refs, err := s.Save("user1", []File{{Name: "front brake.png", Data: pngBytes}, {Name: "rear.jpg", Data: jpegBytes}})
		require.NoError(t, err)
		require.Len(t, refs, 2)

		assert.Regexp(t, `^/uploads/user1/1700000000000-[0-9a-f]{8}-front_brake\.png$`, refs[0])
		assert.Regexp(t, `^/uploads/user1/1700000000000-[0-9a-f]{8}-rear\.jpg$`, refs[1])

		for i, want := range [][]byte{pngBytes, jpegBytes} {
			owner, name, ok := ParseReference(refs[i])
			require.True(t, ok)
			data, err := afero.ReadFile(fsys, owner+"/"+name)
			require.NoError(t, err)
			assert.Equal(t, want, data)
		}
	})

	t.Run("Same name twice never collides", func(t *testing.T) {
		s, _ := newTestStore(t)
		refs, err := s.Save("user1", []File{{Name: "a.png", Data: pngBytes}, {Name: "a.png", Data: pngBytes}})
		require.NoError(t, err)
		assert.NotEqual(t, refs[0], refs[1])
	})

	t.Run("Appends the real extension when the name lies", func(t *testing.T) {
		s, _ := newTestStore(t)
		refs, err := s.Save("user1", []File{{Name: "camera", Data: webpBytes}})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(refs[0], "-camera.webp"), refs[0])
		assert.Equal(t, MediaTypeWEBP, MediaTypeFromExtension(refs[0]))
	})

	t.Run("Invalid batch writes nothing", func(t *testing.T) {
		s, fsys := newTestStore(t)
		_, err := s.Save("user1", []File{{Name: "a.png", Data: pngBytes}, {Name: "b.gif", Data: gifBytes}})
		assert.ErrorIs(t, err, app_errors.ErrUnsupportedMediaType)

		exists, err := afero.DirExists(fsys, "user1")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Rejects unsafe owner id", func(t *testing.T) {
		s, _ := newTestStore(t)
		_, err := s.Save("../evil", []File{{Name: "a.png", Data: pngBytes}})
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestStore_Open(t *testing.T) {
	s, _ := newTestStore(t)
	refs, err := s.Save("user1", []File{{Name: "a.png", Data: pngBytes}})
	require.NoError(t, err)

	owner, name, _ := ParseReference(refs[0])
	data, err := s.Open(owner, name)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	_, err = s.Open("user1", "missing.png")
	assert.ErrorIs(t, err, app_errors.ErrNotFound)

	_, err = s.Open("user1", "..")
	assert.ErrorIs(t, err, app_errors.ErrValidation)
}

func TestStore_FileServer(t *testing.T) {
	s, _ := newTestStore(t)
	refs, err := s.Save("user1", []File{{Name: "a.png", Data: pngBytes}})
	require.NoError(t, err)

	handler := s.FileServer()

	t.Run("Serves a stored file", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, refs[0], nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, MediaTypePNG, rr.Header().Get("Content-Type"))
		assert.True(t, bytes.Equal(pngBytes, rr.Body.Bytes()))
	})

	for _, p := range []string{"/uploads/user1/", "/uploads/user1", "/uploads/", "/uploads/user1/missing.png", "/uploads/user1/%2e%2e"} {
		t.Run("Refuses "+p, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, p, nil))
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}

	t.Run("Rejects writes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, refs[0], nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestStore_FileServerMatchesOpen(t *testing.T) {
	disk, err := NewDiskStore(t.TempDir(), Limits{MaxFiles: 6, MaxFileBytes: 10 * 1024 * 1024})
	require.NoError(t, err)
	mem, _ := newTestStore(t)

	for name, s := range map[string]*Store{"disk": disk, "memory": mem} {
		t.Run(name, func(t *testing.T) {
			refs, err := s.Save("user1", []File{{Name: "pads.png", Data: pngBytes}})
			require.NoError(t, err)

			owner, filename, ok := ParseReference(refs[0])
			require.True(t, ok)
			data, err := s.Open(owner, filename)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			s.FileServer().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, refs[0], nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, data, rr.Body.Bytes())
		})
	}
}
