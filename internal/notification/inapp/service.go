package inapp

import (
	"context"
	"time"

	"brokerage_portal_backend/platform/apperr"
	"brokerage_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// maxPage bounds page so the offset cannot overflow.
const maxPage = 10_000

type Service struct {
	repo Store
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo Store, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

type SendParams struct {
	Recipient string
	Title     string
	Content   string
	BookingID string
	Category  string // "info", "success", "warning", "error"
}

// Send stores the notification for the recipient's feed.
func (s *Service) Send(ctx context.Context, p SendParams) error {
	if s == nil || s.repo == nil {
		return apperr.Internal("in-app notification service not configured")
	}

	if p.Category == "" {
		p.Category = "info"
	}

	err := s.repo.Create(ctx, Notification{
		ID:        uuid.NewString(),
		Recipient: p.Recipient,
		Title:     p.Title,
		Content:   p.Content,
		Category:  p.Category,
		BookingID: p.BookingID,
		CreatedAt: s.now(),
	})
	if err != nil && s.log != nil {
		s.log.Error("failed to store in-app notification", "error", err, "recipient", p.Recipient)
	}
	return err
}

func (s *Service) List(ctx context.Context, recipient string, page, pageSize int) ([]Notification, int, error) {
	page = min(max(page, 1), maxPage)
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	offset := (page - 1) * pageSize
	return s.repo.List(ctx, recipient, pageSize, offset)
}

func (s *Service) CountUnread(ctx context.Context, recipient string) (int, error) {
	return s.repo.CountUnread(ctx, recipient)
}

func (s *Service) MarkRead(ctx context.Context, recipient, id string) error {
	return s.repo.MarkRead(ctx, recipient, id)
}

func (s *Service) MarkAllRead(ctx context.Context, recipient string) error {
	return s.repo.MarkAllRead(ctx, recipient)
}
