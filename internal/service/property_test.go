package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/exhibition-api/internal/domain"
)

func TestPropertyService(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewPropertyService(fakeProperties{store}, fakeUsers{store})
	owner := actorAs(20, domain.RoleExhibitor)
	other := actorAs(21, domain.RoleExhibitor)

	created, err := svc.Create(ctx, owner, domain.Property{
		Title:        "Riverside townhouse",
		PropertyType: "TOWNHOUSE",
		Location:     "Richmond",
		Price:        950000,
	})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, created.OwnerID)
	assert.Contains(t, store.users, owner.UserID)

	_, err = svc.Create(ctx, owner, domain.Property{Title: "Bad", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = svc.Create(ctx, actorAs(30, domain.RoleVisitor), domain.Property{Title: "Nope"})
	assert.ErrorIs(t, err, ErrNotEligibleRole)

	mine, err := svc.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, svc.Delete(ctx, other, created.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, owner, 999), ErrPropertyNotFound)
	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	all, err = svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
