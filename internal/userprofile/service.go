package userprofile

import (
	"context"
	"errors"
	"strings"

	"github.com/sharath018/event-management-backend/internal/auditlog"
	"github.com/sharath018/event-management-backend/internal/policy"
)

type Service interface {
	// Get returns the profile of userID, or an empty one when the user never
	// filled it in.
	Get(ctx context.Context, userID uint) (*UserProfile, error)
	Save(ctx context.Context, id policy.Identity, input ProfileInput, partial bool, ip string) (*UserProfile, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

// ========== PROFILE LOGIC ==========

func (s *service) Get(ctx context.Context, userID uint) (*UserProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, policy.ErrNotFound) {
		return nil, err
	}

	username, err := s.repo.UsernameOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserProfile{UserID: userID, Username: username}, nil
}

func (s *service) Save(ctx context.Context, id policy.Identity, input ProfileInput, partial bool, ip string) (*UserProfile, error) {
	if id.IsAnonymous() {
		return nil, policy.ErrUnauthenticated
	}

	profile, err := s.Get(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	if !partial {
		*profile = UserProfile{ID: profile.ID, UserID: profile.UserID, CreatedAt: profile.CreatedAt}
	}

	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Location != nil {
		profile.Location = strings.TrimSpace(*input.Location)
	}
	if input.ProfilePicture != nil {
		profile.ProfilePicture = strings.TrimSpace(*input.ProfilePicture)
	}
	profile.ProfileCompletionPercentage = completionPercentage(profile)

	err = s.repo.Save(ctx, profile)
	auditlog.Record(ctx, s.auditSvc, id.UserID, 0, auditlog.ActionProfileUpdated, map[string]interface{}{
		"profile_id": profile.ID,
		"full_name":  profile.FullName,
	}, ip, err)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByUserID(ctx, id.UserID)
}

// ========== PROFILE COMPLETION LOGIC ==========

func completionPercentage(p *UserProfile) int {
	fields := []string{p.FullName, p.Bio, p.Location, p.ProfilePicture}
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return filled * 100 / len(fields)
}
