package services

import (
	"context"

	"StorefrontAPI/internal/model"
)

// ContactNotifier tells the shop staff about a new contact request.
type ContactNotifier interface {
	SendContactNotification(ctx context.Context, to string, cr *model.ContactRequest) error
}
