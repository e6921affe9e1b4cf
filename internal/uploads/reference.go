package uploads

import (
	"path"
	"regexp"
	"strings"
)

// URLPrefix is the public path under which stored uploads are served.
const URLPrefix = "/uploads/"

// Accepted media types of uploaded images.
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
	MediaTypeWEBP = "image/webp"
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	safeFilename        = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	safeOwnerID         = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

const maxFilenameLength = 128

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with an
// underscore, so the result is always a single safe path element.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
	}
	if name == "" {
		return "image"
	}
	return name
}

// ValidOwnerID reports whether id can be used as a storage namespace.
func ValidOwnerID(id string) bool {
	return safeOwnerID.MatchString(id)
}

// PublicURL returns the reference of a stored file.
func PublicURL(ownerID, filename string) string {
	return URLPrefix + ownerID + "/" + filename
}

// ParseReference splits a stored-file reference of the exact shape
// /uploads/<ownerId>/<filename>. Anything else, including traversal attempts
// and nested paths, is rejected.
func ParseReference(ref string) (ownerID, filename string, ok bool) {
	rest, found := strings.CutPrefix(ref, URLPrefix)
	if !found {
		return "", "", false
	}
	ownerID, filename, found = strings.Cut(rest, "/")
	if !found || strings.Contains(filename, "/") {
		return "", "", false
	}
	if !ValidOwnerID(ownerID) || !safeFilename.MatchString(filename) {
		return "", "", false
	}
	if filename == "." || filename == ".." {
		return "", "", false
	}
	return ownerID, filename, true
}

// ReferenceOwner returns the namespace segment of any string under the
// uploads prefix, whether or not the rest of it is a valid reference.
func ReferenceOwner(ref string) (ownerID string, ok bool) {
	rest, found := strings.CutPrefix(ref, URLPrefix)
	if !found {
		return "", false
	}
	ownerID, _, _ = strings.Cut(rest, "/")
	return ownerID, true
}

// IsRemoteURL reports whether ref is an absolute http(s) URL.
func IsRemoteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// MediaTypeFromExtension infers an image media type from a filename. Unknown
// extensions default to JPEG.
func MediaTypeFromExtension(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return MediaTypePNG
	case ".webp":
		return MediaTypeWEBP
	default:
		return MediaTypeJPEG
	}
}
