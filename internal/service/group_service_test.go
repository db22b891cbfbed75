package service

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupServiceCreateValidation(t *testing.T) {
	svc := NewGroupService(noopGroupRepo())
	cases := []CreateGroupInput{
		{Title: "", Slug: "cats"},
		{Title: "Cats", Slug: ""},
		{Title: "Cats", Slug: "cats and dogs"},
		{Title: "Cats", Slug: "ÿ"},
		{Title: "Cats", Slug: "a123456789a123456789a123456789a123456789a123456789a"},
	}
	for _, in := range cases {
		_, err := svc.CreateGroup(context.Background(), in)
		expectCode(t, err, models.CodeValidation)
	}
}

func TestGroupServiceLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := NewGroupService(repository.NewGroupRepository(db))

	group, err := svc.CreateGroup(ctx, CreateGroupInput{Title: " Cats ", Slug: "cats", Description: "whiskers"})
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)

	_, err = svc.CreateGroup(ctx, CreateGroupInput{Title: "Other cats", Slug: "cats"})
	assert.True(t, models.IsCode(err, models.CodeConstraintViolation))

	author := testutil.CreateUser(t, db, "leo")
	post := testutil.CreatePost(t, db, author, group, "in cats", testutil.Epoch)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	require.NoError(t, svc.DeleteGroup(ctx, "cats"))
	_, err = svc.GetGroup(ctx, "cats")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	stored, err := repository.NewPostRepository(db).GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.GroupID, "posts outlive their group")
}
