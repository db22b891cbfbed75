package seed

import (
	"context"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroups(t *testing.T) {
	groups, err := LoadGroups("")
	require.NoError(t, err)
	assert.NotEmpty(t, groups)
	for _, g := range groups {
		assert.NotEmpty(t, g.Slug)
	}

	_, err = ParseGroups([]byte("- title: Cats\n"))
	assert.Error(t, err, "slug is required")

	_, err = ParseGroups([]byte("not: [valid"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	db := testutil.NewTestDB(t)
	groups := []GroupFixture{{Title: "Cats", Slug: "cats"}, {Title: "Dogs", Slug: "dogs"}}
	opts := Options{NumUsers: 5, PostsPerUser: 3, MaxComments: 2, FollowsPerUser: 10, GroupedFraction: 0.5, Seed: 7}

	summary, err := Run(context.Background(), db, groups, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Groups)
	assert.Equal(t, 5, summary.Users)
	assert.Equal(t, 15, summary.Posts)
	assert.Equal(t, 20, summary.Follows, "follows are capped at every other user")

	var posts, selfFollows int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 15, posts)
	require.NoError(t, db.Model(&models.Follow{}).Where("user_id = author_id").Count(&selfFollows).Error)
	assert.Zero(t, selfFollows)

	opts.ShouldClean = true
	_, err = Run(context.Background(), db, groups, opts)
	require.NoError(t, err, "a clean rerun does not collide with earlier rows")
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 15, posts)
}
