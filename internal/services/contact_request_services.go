package services

import (
	"context"
	"strings"

	"StorefrontAPI/internal/model"
	"StorefrontAPI/internal/query"
	"StorefrontAPI/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// contact requests only ever sort by creation time
var contactSorts = query.SortMap{
	Fallback: query.SortRule{Column: "created_at", DefaultOrder: query.Desc},
}

type ContactRequestStore interface {
	List(ctx context.Context, f repository.ContactFilter, ob query.OrderBy, p query.Pagination) ([]model.ContactRequest, error)
	Count(ctx context.Context, f repository.ContactFilter) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ContactRequest, error)
	Create(ctx context.Context, in repository.ContactInput) (*model.ContactRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ContactStatus) (*model.ContactRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ContactRequestService struct {
	Requests ContactRequestStore
	Notifier ContactNotifier // optional
	NotifyTo string
	Logger   *zap.Logger
}

func NewContactRequestService(requests ContactRequestStore, notifier ContactNotifier, notifyTo string, logger *zap.Logger) *ContactRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactRequestService{Requests: requests, Notifier: notifier, NotifyTo: notifyTo, Logger: logger}
}

type CreateContactRequestInput struct {
	Name    string  `json:"name" validate:"required,max=100"`
	Email   string  `json:"email" validate:"required,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Message string  `json:"message" validate:"required,min=5,max=2000"`
}

type UpdateContactRequestInput struct {
	Status model.ContactStatus `json:"status" validate:"required,oneof=new in_progress done archived"`
}

// ParseContactStatus validates a status filter value. Empty means no filter.
func ParseContactStatus(raw string) (model.ContactStatus, error) {
	st := model.ContactStatus(strings.TrimSpace(raw))
	switch st {
	case "", model.ContactStatusNew, model.ContactStatusInProgress, model.ContactStatusDone, model.ContactStatusArchived:
		return st, nil
	default:
		return "", &query.Error{Field: "status", Reason: "must be one of new, in_progress, done, archived"}
	}
}

// Create stores a request from the public form and notifies staff. A failed
// notification is logged, never returned.
func (s *ContactRequestService) Create(ctx context.Context, in CreateContactRequestInput) (*model.ContactRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = trimOptional(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	if in.Phone != nil && *in.Phone == "" {
		in.Phone = nil
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	cr, err := s.Requests.Create(ctx, repository.ContactInput{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Message: in.Message,
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil && s.NotifyTo != "" {
		if err := s.Notifier.SendContactNotification(ctx, s.NotifyTo, cr); err != nil {
			s.Logger.Warn("contact notification failed", zap.String("contact_request_id", cr.ID.String()), zap.Error(err))
		}
	}
	return cr, nil
}

func (s *ContactRequestService) List(ctx context.Context, q query.ListQuery, status model.ContactStatus) (*model.Page[model.ContactRequest], error) {
	f := repository.ContactFilter{Search: q.Search, Status: status}
	ob := contactSorts.Resolve(q)
	return listPage(ctx, q,
		func(ctx context.Context, p query.Pagination) ([]model.ContactRequest, error) {
			return s.Requests.List(ctx, f, ob, p)
		},
		func(ctx context.Context) (int, error) {
			return s.Requests.Count(ctx, f)
		},
	)
}

func (s *ContactRequestService) Get(ctx context.Context, id uuid.UUID) (*model.ContactRequest, error) {
	return s.Requests.GetByID(ctx, id)
}

func (s *ContactRequestService) UpdateStatus(ctx context.Context, id uuid.UUID, in UpdateContactRequestInput) (*model.ContactRequest, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	return s.Requests.UpdateStatus(ctx, id, in.Status)
}

func (s *ContactRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Requests.Delete(ctx, id)
}
