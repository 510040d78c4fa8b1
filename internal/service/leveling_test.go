package service

import (
	"context"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelTable(requirements ...int) []model.Level {
	levels := make([]model.Level, len(requirements))
	for i, req := range requirements {
		levels[i] = model.Level{RequiredExperience: req}
		levels[i].ID = uint(i + 1)
	}
	return levels
}

func uintPtr(v uint) *uint { return &v }

func TestApplyExperienceSingleLevelUp(t *testing.T) {
	levels := levelTable(100, 200, 999999)

	res, err := ApplyExperience(95, uintPtr(1), levels, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewExperience)
	require.NotNil(t, res.NewLevelID)
	assert.Equal(t, uint(2), *res.NewLevelID)
	assert.True(t, res.LeveledUp)
}

func TestApplyExperienceMultiLevelJump(t *testing.T) {
	levels := levelTable(10, 10, 999)

	res, err := ApplyExperience(0, uintPtr(1), levels, 25)
	require.NoError(t, err)
	assert.Equal(t, 5, res.NewExperience)
	assert.Equal(t, uint(3), *res.NewLevelID)
	assert.True(t, res.LeveledUp)
}

func TestApplyExperienceTerminalClamp(t *testing.T) {
	levels := levelTable(10, 10, 999)

	for _, delta := range []int{1, 50, 100000} {
		res, err := ApplyExperience(999, uintPtr(3), levels, delta)
		require.NoError(t, err)
		assert.Equal(t, 999, res.NewExperience)
		assert.Equal(t, uint(3), *res.NewLevelID)
		assert.False(t, res.LeveledUp)
	}

	res, err := ApplyExperience(0, uintPtr(1), levels, 5000)
	require.NoError(t, err)
	assert.Equal(t, 999, res.NewExperience)
	assert.Equal(t, uint(3), *res.NewLevelID)
	assert.True(t, res.LeveledUp)
}

func TestApplyExperienceWithoutLevel(t *testing.T) {
	levels := levelTable(100, 200)

	res, err := ApplyExperience(0, nil, levels, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.NewExperience)
	require.NotNil(t, res.NewLevelID)
	assert.Equal(t, uint(1), *res.NewLevelID)
	assert.True(t, res.LeveledUp)

	// 当前等级不在表中时视为第一级
	res, err = ApplyExperience(99, uintPtr(42), levels, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewExperience)
	assert.Equal(t, uint(2), *res.NewLevelID)
	assert.True(t, res.LeveledUp)
}

func TestApplyExperienceStaleLevelWithoutAdvance(t *testing.T) {
	levels := levelTable(100, 200)

	// 等级已从表中移除，重新落到第一级
	res, err := ApplyExperience(10, uintPtr(42), levels, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), *res.NewLevelID)
	assert.True(t, res.LeveledUp)

	res, err = ApplyExperience(10, uintPtr(1), levels, 1)
	require.NoError(t, err)
	assert.False(t, res.LeveledUp)
}

func TestApplyExperienceZeroDelta(t *testing.T) {
	levels := levelTable(100, 200)

	res, err := ApplyExperience(40, nil, levels, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, res.NewExperience)
	assert.Nil(t, res.NewLevelID)
	assert.False(t, res.LeveledUp)

	res, err = ApplyExperience(40, uintPtr(2), levels, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(2), *res.NewLevelID)
}

func TestApplyExperienceErrors(t *testing.T) {
	_, err := ApplyExperience(0, nil, nil, 1)
	assert.True(t, util.IsConfiguration(err))

	_, err = ApplyExperience(0, nil, levelTable(10), -1)
	assert.True(t, util.IsValidation(err))
}

func TestLevelingServiceApplyPersists(t *testing.T) {
	env := newTestEnv(t, 2, 5, 100)
	svc := env.learning.Leveling
	ctx := context.Background()

	res, err := svc.Apply(ctx, env.db, env.user.ID, 3)
	require.NoError(t, err)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 1, res.NewExperience)

	u := env.reloadUser(t)
	assert.Equal(t, 1, u.CurrentExperience)
	require.NotNil(t, u.CurrentLevelID)
	assert.Equal(t, env.levels[1].ID, *u.CurrentLevelID)
	assert.Equal(t, uint(1), u.Version)

	_, err = svc.Apply(ctx, env.db, "missing-user", 1)
	assert.True(t, util.IsNotFound(err))
	assert.EqualError(t, err, "User not found")
}

func TestLevelingServiceWithoutLevels(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.learning.Leveling.Apply(context.Background(), env.db, env.user.ID, 1)
	assert.True(t, util.IsConfiguration(err))
}
