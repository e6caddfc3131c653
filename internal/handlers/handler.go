package handlers

import (
	"github.com/velourstudio/studio-api/internal/chat"
	"github.com/velourstudio/studio-api/internal/providers"
	"github.com/velourstudio/studio-api/internal/services"
	"github.com/velourstudio/studio-api/internal/storage"
	"github.com/velourstudio/studio-api/internal/store"
)

// Handler carries every dependency the route handlers need.
type Handler struct {
	Users           store.UserStore
	Bookings        store.BookingStore
	NotificationSvc *services.NotificationService
	Mailer          *services.Mailer
	Payments        *services.PaymentService
	Providers       *providers.Registry
	Storage         storage.Backend
	ChatStore       chat.Store
}

func NewHandler(
	users store.UserStore,
	bookings store.BookingStore,
	notificationSvc *services.NotificationService,
	mailer *services.Mailer,
	payments *services.PaymentService,
	registry *providers.Registry,
	backend storage.Backend,
	chatStore chat.Store,
) *Handler {
	return &Handler{
		Users:           users,
		Bookings:        bookings,
		NotificationSvc: notificationSvc,
		Mailer:          mailer,
		Payments:        payments,
		Providers:       registry,
		Storage:         backend,
		ChatStore:       chatStore,
	}
}
