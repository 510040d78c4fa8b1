package service

import (
	"context"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t, 100, 200)
	ctx := context.Background()

	n5a := env.question(t, 0, "あ")
	n5b := env.question(t, 0, "い")
	env.question(t, 1, "う")

	_, err := env.learning.SubmitAnswer(ctx, env.user.ID, n5a.ID, "あ")
	require.NoError(t, err)
	_, err = env.learning.SubmitAnswer(ctx, env.user.ID, n5b.ID, "x")
	require.NoError(t, err)

	// 两天前的作答
	env.now = env.now.AddDate(0, 0, -2)
	n4 := env.question(t, 1, "え")
	_, err = env.learning.SubmitAnswer(ctx, env.user.ID, n4.ID, "え")
	require.NoError(t, err)
	env.now = env.now.AddDate(0, 0, 2)

	dash, err := env.dashboard.GetDashboard(ctx, env.user.ID)
	require.NoError(t, err)

	assert.Equal(t, "学習者", dash.User.Name)
	assert.Equal(t, 2, dash.User.CurrentExperience)
	require.NotNil(t, dash.User.CurrentLevel)
	assert.Equal(t, "L0", dash.User.CurrentLevel.Name)
	require.NotNil(t, dash.User.NextLevel)
	assert.Equal(t, "L1", dash.User.NextLevel.Name)

	assert.Equal(t, 3, dash.Stats.TotalAnswered)
	assert.Equal(t, 2, dash.Stats.CorrectAnswers)
	assert.Equal(t, 67, dash.Stats.AccuracyRate)
	assert.Zero(t, dash.Stats.Streak)

	require.Len(t, dash.LevelProgress, 2)
	assert.Equal(t, LevelProgress{
		LevelID: env.levels[0].ID, LevelName: "L0", TotalQuestions: 2, AnsweredCorrect: 1, Percentage: 50,
	}, dash.LevelProgress[0])
	assert.Equal(t, int64(1), dash.LevelProgress[1].AnsweredCorrect)
	assert.Equal(t, 50, dash.LevelProgress[1].Percentage)

	require.Len(t, dash.RecentActivity, 7)
	assert.Equal(t, "2026-10-09", dash.RecentActivity[0].Date)
	assert.Equal(t, "2026-10-15", dash.RecentActivity[6].Date)
	assert.Equal(t, 2, dash.RecentActivity[6].Count)
	assert.Equal(t, 1, dash.RecentActivity[4].Count)
	assert.Equal(t, 0, dash.RecentActivity[5].Count)

	assert.Equal(t, int64(2), dash.QuestionsMastered)
	assert.Equal(t, int64(1), dash.QuestionsNeedingReview)
}

func TestGetDashboardNewUser(t *testing.T) {
	env := newTestEnv(t, 100, 200)

	dash, err := env.dashboard.GetDashboard(context.Background(), env.user.ID)
	require.NoError(t, err)
	assert.Nil(t, dash.User.CurrentLevel)
	require.NotNil(t, dash.User.NextLevel)
	assert.Equal(t, "L0", dash.User.NextLevel.Name)
	assert.Zero(t, dash.Stats.TotalAnswered)
	assert.Zero(t, dash.Stats.AccuracyRate)
	assert.Nil(t, dash.Stats.LastActiveAt)
	for _, day := range dash.RecentActivity {
		assert.Zero(t, day.Count)
	}
}

func TestGetDashboardUserNotFound(t *testing.T) {
	env := newTestEnv(t, 100)
	_, err := env.dashboard.GetDashboard(context.Background(), "nobody")
	assert.True(t, util.IsNotFound(err))
}

func TestReviewSummary(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	right := env.question(t, 0, "正")
	wrong := env.question(t, 0, "誤")
	_, err := env.learning.SubmitAnswer(ctx, env.user.ID, right.ID, "正")
	require.NoError(t, err)
	_, err = env.learning.SubmitAnswer(ctx, env.user.ID, wrong.ID, "x")
	require.NoError(t, err)

	future := env.now.Add(time.Hour)
	require.NoError(t, env.db.Model(&model.UserProgress{}).
		Where("question_id = ?", right.ID).Update("next_review_at", future).Error)

	summary, err := env.dashboard.ReviewSummary(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.DueCount)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(1, 0))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 100, percentage(4, 4))
}
