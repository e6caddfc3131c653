package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/velourstudio/studio-api/internal/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("store: not found")

// UserStore is the handle handlers use for user records. The Mongo
// implementation lives in mongo.go; memory.go backs the tests.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	// Update applies a $set-style patch to the user matched by email.
	Update(ctx context.Context, email string, set bson.M) error
	// Unset removes fields from the user matched by email.
	Unset(ctx context.Context, email string, fields ...string) error
	Delete(ctx context.Context, email string) error
	// DeleteSessions drops adapter-managed session and account documents
	// left behind for the user.
	DeleteSessions(ctx context.Context, email string) error
	// CleanupLegacy removes the user's documents from the old database.
	// Callers treat failures as non-fatal.
	CleanupLegacy(ctx context.Context, email string) error
}

// BookingStore persists consultation submissions.
type BookingStore interface {
	// InsertBooking writes one booking document and returns its id.
	InsertBooking(ctx context.Context, collection string, doc bson.M) (string, error)
	// PendingCount counts the user's payment_pending bookings across the
	// given collections.
	PendingCount(ctx context.Context, collections []string, email string) (int64, error)
}
