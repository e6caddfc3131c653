package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/velourstudio/studio-api/internal/models"
)

// Mongo implements UserStore and BookingStore on a mongo database, with a
// second handle on the legacy database for deletion cleanup.
type Mongo struct {
	DB     *mongo.Database
	Legacy *mongo.Database
}

func NewMongo(db, legacy *mongo.Database) *Mongo {
	return &Mongo{DB: db, Legacy: legacy}
}

func (m *Mongo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := m.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *Mongo) Insert(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := m.DB.Collection("users").InsertOne(ctx, user)
	return err
}

func (m *Mongo) Update(ctx context.Context, email string, set bson.M) error {
	result, err := m.DB.Collection("users").UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Unset(ctx context.Context, email string, fields ...string) error {
	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	result, err := m.DB.Collection("users").UpdateOne(ctx, bson.M{"email": email}, bson.M{"$unset": unset})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, email string) error {
	result, err := m.DB.Collection("users").DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) DeleteSessions(ctx context.Context, email string) error {
	if _, err := m.DB.Collection("sessions").DeleteMany(ctx, bson.M{"userEmail": email}); err != nil {
		return err
	}
	_, err := m.DB.Collection("accounts").DeleteMany(ctx, bson.M{"userEmail": email})
	return err
}

func (m *Mongo) CleanupLegacy(ctx context.Context, email string) error {
	if m.Legacy == nil {
		return nil
	}
	for _, name := range []string{"users", "sessions", "accounts"} {
		if _, err := m.Legacy.Collection(name).DeleteMany(ctx, bson.M{"email": email}); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mongo) InsertBooking(ctx context.Context, collection string, doc bson.M) (string, error) {
	result, err := m.DB.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("store: unexpected inserted id type")
	}
	return id.Hex(), nil
}

func (m *Mongo) PendingCount(ctx context.Context, collections []string, email string) (int64, error) {
	filter := bson.M{"email": email, "status": models.StatusPaymentPending}
	var total int64
	for _, name := range collections {
		n, err := m.DB.Collection(name).CountDocuments(ctx, filter)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
