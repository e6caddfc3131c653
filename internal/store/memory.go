package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/velourstudio/studio-api/internal/models"
)

// Memory is an in-memory store used by the handler tests.
type Memory struct {
	mu       sync.Mutex
	Users    map[string]*models.User
	Bookings map[string][]bson.M
	// LegacyCleaned records emails passed to CleanupLegacy.
	LegacyCleaned []string
	// FailInsert forces InsertBooking to fail, for 500-path tests.
	FailInsert error
}

func NewMemory() *Memory {
	return &Memory{
		Users:    make(map[string]*models.User),
		Bookings: make(map[string][]bson.M),
	}
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[email]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *Memory) Insert(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	copied := *user
	m.Users[user.Email] = &copied
	return nil
}

func (m *Memory) Update(_ context.Context, email string, set bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[email]
	if !ok {
		return ErrNotFound
	}
	for key, value := range set {
		applyField(user, key, value)
	}
	return nil
}

func (m *Memory) Unset(_ context.Context, email string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[email]
	if !ok {
		return ErrNotFound
	}
	for _, field := range fields {
		applyField(user, field, nil)
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[email]; !ok {
		return ErrNotFound
	}
	delete(m.Users, email)
	return nil
}

func (m *Memory) DeleteSessions(_ context.Context, _ string) error { return nil }

func (m *Memory) CleanupLegacy(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LegacyCleaned = append(m.LegacyCleaned, email)
	return nil
}

func (m *Memory) InsertBooking(_ context.Context, collection string, doc bson.M) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInsert != nil {
		return "", m.FailInsert
	}
	id := primitive.NewObjectID()
	doc["_id"] = id
	m.Bookings[collection] = append(m.Bookings[collection], doc)
	return id.Hex(), nil
}

func (m *Memory) PendingCount(_ context.Context, collections []string, email string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, name := range collections {
		for _, doc := range m.Bookings[name] {
			if doc["email"] == email && doc["status"] == models.StatusPaymentPending {
				total++
			}
		}
	}
	return total, nil
}

// LastBooking returns the most recent document inserted into a collection.
func (m *Memory) LastBooking(collection string) bson.M {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.Bookings[collection]
	if len(docs) == 0 {
		return nil
	}
	return docs[len(docs)-1]
}

func applyField(user *models.User, key string, value interface{}) {
	if provider, ok := strings.CutPrefix(key, "connectedAccounts."); ok {
		if user.Connected == nil {
			user.Connected = make(map[string]bool)
		}
		flag, _ := value.(bool)
		user.Connected[provider] = flag
		return
	}
	str, _ := value.(string)
	switch key {
	case "name":
		user.Name = str
	case "password":
		user.Password = str
	case "image":
		user.Image = str
	case "mobile":
		user.Mobile = str
	case "provider":
		user.Provider = str
	case "notifications":
		b, _ := value.(bool)
		user.Notifications = b
	case "lastLogin":
		if t, ok := value.(time.Time); ok {
			user.LastLogin = &t
		}
	case "updatedAt":
		if t, ok := value.(time.Time); ok {
			user.UpdatedAt = t
		}
	}
}
