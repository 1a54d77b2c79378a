package notify

import (
	"context"

	"github.com/helpdesk-core/renewals-tracker/internal/entity"
	"github.com/helpdesk-core/renewals-tracker/internal/repository"
)

// RepoInAppSender persists in-app notifications as rows; the API serves
// them from the same table.
type RepoInAppSender struct {
	notifications repository.NotificationRepository
}

func NewRepoInAppSender(notifications repository.NotificationRepository) *RepoInAppSender {
	return &RepoInAppSender{notifications: notifications}
}

func (s *RepoInAppSender) Send(ctx context.Context, user *entity.User, p Payload) error {
	return s.notifications.Create(ctx, &entity.Notification{
		UserID:     user.ID,
		ContractID: p.ContractID,
		Title:      p.Title(),
		Body:       p.Body(),
		Urgency:    p.Urgency,
	})
}
