package service

import (
	"context"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEnsureUserThenAnswer(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	q := env.question(t, 0, "みる")

	created, err := env.users.EnsureUser(ctx, "sub-42", "taro@example.com")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = env.users.EnsureUser(ctx, "sub-42", "taro@example.com")
	require.NoError(t, err)
	assert.False(t, created)

	var u model.User
	require.NoError(t, env.db.Where("id = ?", "sub-42").First(&u).Error)
	assert.Equal(t, "taro", u.Name)
	require.NotNil(t, u.Email)
	assert.Equal(t, "taro@example.com", *u.Email)

	// 建档后的用户作答正常计入经验
	res, err := env.learning.SubmitAnswer(ctx, "sub-42", q.ID, "まちがい")
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	res, err = env.learning.SubmitAnswer(ctx, "sub-42", q.ID, "みる")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ExperienceEarned)
	assert.True(t, res.LeveledUp)
}

func TestEnsureUserWithoutEmail(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	_, err := env.users.EnsureUser(ctx, "anon-1", "")
	require.NoError(t, err)
	_, err = env.users.EnsureUser(ctx, "anon-2", "")
	require.NoError(t, err)

	profile, err := env.users.GetProfile(ctx, "anon-1")
	require.NoError(t, err)
	assert.Equal(t, "anon-1", profile.Name)
	assert.Nil(t, profile.Email)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t, 100, 200)
	ctx := context.Background()

	profile, err := env.users.GetProfile(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "学習者", profile.Name)
	assert.Nil(t, profile.LevelID)
	assert.Nil(t, profile.LevelName)
	assert.Nil(t, profile.RequiredExperience)

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", env.user.ID).
		Updates(map[string]interface{}{"current_experience": 120, "current_level_id": env.levels[1].ID}).Error)

	profile, err = env.users.GetProfile(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, profile.CurrentExperience)
	require.NotNil(t, profile.LevelName)
	assert.Equal(t, "L1", *profile.LevelName)
	require.NotNil(t, profile.RequiredExperience)
	assert.Equal(t, 200, *profile.RequiredExperience)

	_, err = env.users.GetProfile(ctx, "ghost")
	assert.True(t, util.IsNotFound(err))
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	profile, err := env.users.UpdateProfile(ctx, env.user.ID, ProfileUpdate{
		Name:  strPtr("  花子  "),
		Image: strPtr("https://cdn.example.com/a.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "花子", profile.Name)
	assert.Equal(t, "https://cdn.example.com/a.png", profile.Image)

	// 只改头像时名称不变
	profile, err = env.users.UpdateProfile(ctx, env.user.ID, ProfileUpdate{Image: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "花子", profile.Name)
	assert.Empty(t, profile.Image)

	_, err = env.users.UpdateProfile(ctx, "ghost", ProfileUpdate{Name: strPtr("名前")})
	assert.True(t, util.IsNotFound(err))
}

func TestUpdateProfileValidation(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	cases := []ProfileUpdate{
		{Name: strPtr("a")},
		{Name: strPtr("   ")},
		{Name: strPtr(strings.Repeat("あ", 101))},
		{Image: strPtr("ftp://example.com/a.png")},
		{Image: strPtr("not a url")},
		{Image: strPtr("https://example.com/" + strings.Repeat("a", 255))},
	}
	for _, in := range cases {
		_, err := env.users.UpdateProfile(ctx, env.user.ID, in)
		assert.True(t, util.IsValidation(err), "got %v", err)
	}

	u := env.reloadUser(t)
	assert.Equal(t, "学習者", u.Name)
}
