package invitation

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Store persists invitation documents. Every call is a single document
// operation; consistency relies on the per-document atomicity of the backend.
type Store interface {
	// Insert stores a new document carrying its identifier.
	// A colliding identifier is reported as ErrDuplicate.
	Insert(ctx context.Context, doc Document) error

	// FindByID returns the document or nil when none exists.
	FindByID(ctx context.Context, id bson.ObjectID) (Document, error)

	// FindRange returns up to limit documents in identifier order, skipping offset.
	FindRange(ctx context.Context, offset, limit int) ([]Document, error)

	// Update replaces the stored document. A missing document is reported as ErrNotFound.
	Update(ctx context.Context, id bson.ObjectID, doc Document) error

	// DeleteByID removes the document and reports whether one was removed.
	DeleteByID(ctx context.Context, id bson.ObjectID) (bool, error)
}
