package models

import "time"

// BookingStatus values. Every booking starts at payment_pending; payment
// confirmation moves it forward out-of-band.
const (
	StatusPaymentPending = "payment_pending"
)

// Attachment is a reference image embedded in a booking document.
type Attachment struct {
	Name         string    `bson:"name" json:"name"`
	ContentType  string    `bson:"contentType" json:"contentType"`
	Size         int64     `bson:"size" json:"size"`
	LastModified time.Time `bson:"lastModified" json:"lastModified"`
	Data         []byte    `bson:"data" json:"-"`
}
