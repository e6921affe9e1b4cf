package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/iter"

	app_errors "spareeye/backend/internal/errors"
	"spareeye/backend/internal/model"
	"spareeye/backend/internal/uploads"
)

// Resolution is the outcome of resolving one batch of image inputs.
type Resolution struct {
	// Images are ready for the inference provider, in input order.
	Images []model.ResolvedImage
	// References are the public references of Images, including the ones
	// minted for fresh uploads.
	References []string
	// Skipped holds provided references that were neither a stored upload nor
	// an http(s) URL.
	Skipped []string
}

type refKind int

const (
	kindSkipped refKind = iota
	kindStored
	kindRemote
)

type classifiedRef struct {
	raw      string
	kind     refKind
	owner    string
	filename string
}

// Resolver turns image references and fresh uploads into model-ready images.
type Resolver struct {
	store *uploads.Store
}

func New(store *uploads.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve classifies refs, persists fresh files for ownerID, and loads every
// stored image. Provided references come first, then the fresh uploads, each
// group in its original order. Nothing is written when a reference belongs to
// another user or the uploads are invalid.
func (r *Resolver) Resolve(ctx context.Context, ownerID string, refs []string, files []uploads.File) (*Resolution, error) {
	if err := CheckOwnership(ownerID, refs); err != nil {
		return nil, err
	}

	classified := make([]classifiedRef, 0, len(refs))
	var skipped []string
	for _, ref := range refs {
		c := classify(ref)
		if c.kind == kindSkipped {
			skipped = append(skipped, ref)
			continue
		}
		classified = append(classified, c)
	}
	if len(skipped) > 0 {
		slog.Warn("Skipping unrecognized image references", "owner", ownerID, "count", len(skipped))
	}

	saved, err := r.store.Save(ownerID, files)
	if err != nil {
		return nil, err
	}
	for _, ref := range saved {
		classified = append(classified, classify(ref))
	}

	images, err := iter.MapErr(classified, func(c *classifiedRef) (model.ResolvedImage, error) {
		if err := ctx.Err(); err != nil {
			return model.ResolvedImage{}, err
		}
		return r.load(*c)
	})
	if err != nil {
		return nil, err
	}

	references := make([]string, len(classified))
	for i, c := range classified {
		references[i] = c.raw
	}

	return &Resolution{
		Images:     images,
		References: references,
		Skipped:    skipped,
	}, nil
}

func (r *Resolver) load(c classifiedRef) (model.ResolvedImage, error) {
	if c.kind == kindRemote {
		return model.ResolvedImage{URL: c.raw}, nil
	}
	data, err := r.store.Open(c.owner, c.filename)
	if err != nil {
		return model.ResolvedImage{}, err
	}
	return model.ResolvedImage{
		MediaType: uploads.MediaTypeFromExtension(c.filename),
		Data:      data,
	}, nil
}

func classify(ref string) classifiedRef {
	if owner, filename, ok := uploads.ParseReference(ref); ok {
		return classifiedRef{raw: ref, kind: kindStored, owner: owner, filename: filename}
	}
	if uploads.IsRemoteURL(ref) {
		return classifiedRef{raw: ref, kind: kindRemote}
	}
	return classifiedRef{raw: ref, kind: kindSkipped}
}

// CheckOwnership rejects every string under the uploads prefix whose
// namespace is not ownerID, malformed ones included. Remote URLs and other
// strings are left alone.
func CheckOwnership(ownerID string, refs []string) error {
	for _, ref := range refs {
		if owner, ok := uploads.ReferenceOwner(ref); ok && owner != ownerID {
			return fmt.Errorf("%w: image %s belongs to another user", app_errors.ErrPermission, ref)
		}
	}
	return nil
}
