package admin

import (
	"context"
	"fmt"

	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/policy"
)

type Service struct {
	repo         *Repository
	auditService auditlog.Service
}

func NewService(repo *Repository, auditService auditlog.Service) *Service {
	return &Service{repo: repo, auditService: auditService}
}

func (s *Service) GetUsers(ctx context.Context, f UserFilter) (*UserPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	users, total, err := s.repo.GetUsers(ctx, f)
	if err != nil {
		return nil, err
	}
	return &UserPage{
		Data:       users,
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
	}, nil
}

func (s *Service) GetUserByID(ctx context.Context, userID uint) (*UserResponse, error) {
	return s.repo.GetUser(ctx, userID)
}

// UpdateUserStatus activates or deactivates an account. Inactive accounts
// can no longer log in or use issued tokens.
func (s *Service) UpdateUserStatus(ctx context.Context, id policy.Identity, userID uint, status string, ip string) (*UserResponse, error) {
	details := map[string]interface{}{"target_user_id": userID, "status": status}

	if status != auth.StatusActive && status != auth.StatusInactive {
		return nil, policy.Invalid("status", "Status must be active or inactive.")
	}
	if id.Is(userID) && status == auth.StatusInactive {
		err := fmt.Errorf("%w: administrators cannot deactivate themselves", policy.ErrPermissionDenied)
		auditlog.Record(ctx, s.auditService, id.UserID, 0, auditlog.ActionUserStatus, details, ip, err)
		return nil, err
	}

	err := s.repo.UpdateUserStatus(ctx, userID, status)
	auditlog.Record(ctx, s.auditService, id.UserID, 0, auditlog.ActionUserStatus, details, ip, err)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, userID)
}
