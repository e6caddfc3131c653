package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password,omitempty" json:"-"` // Hide from JSON responses
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Mobile        string             `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Provider      string             `bson:"provider,omitempty" json:"provider,omitempty"` // "credentials", "google", "facebook", "azure-ad"
	Connected     map[string]bool    `bson:"connectedAccounts,omitempty" json:"connectedAccounts,omitempty"`
	EmailVerified *time.Time         `bson:"emailVerified,omitempty" json:"emailVerified,omitempty"`
	Notifications bool               `bson:"notifications" json:"notifications"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
	LastLogin     *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
}
