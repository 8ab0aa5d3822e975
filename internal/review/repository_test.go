package review

import (
	"context"
	"testing"

	"github.com/sharath018/event-management-backend/internal/auth"
	"github.com/sharath018/event-management-backend/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateDuplicateIsConflict(t *testing.T) {
	f := newFixture(t, policy.Options{})
	ctx := context.Background()
	olivia := f.user(t, "olivia", auth.RoleUser)
	uma := f.user(t, "uma", auth.RoleUser)
	ev := f.event(t, olivia, true)

	repo := NewRepository(f.db)
	require.NoError(t, repo.Create(ctx, &Review{EventID: ev.ID, UserID: uma.UserID, Rating: 4}))

	err := repo.Create(ctx, &Review{EventID: ev.ID, UserID: uma.UserID, Rating: 1, Comment: "again"})
	assert.ErrorIs(t, err, policy.ErrConflict)

	var n int64
	require.NoError(t, f.db.Model(&Review{}).Where("event_id = ? AND user_id = ?", ev.ID, uma.UserID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	exists, err := repo.HasReview(ctx, ev.ID, uma.UserID)
	require.NoError(t, err)
	assert.True(t, exists)

	// another user on the same event is unaffected
	require.NoError(t, repo.Create(ctx, &Review{EventID: ev.ID, UserID: olivia.UserID, Rating: 5}))
}
