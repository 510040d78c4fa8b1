package service

import (
	"context"
	"fmt"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	now       time.Time
	levels    []model.Level
	user      model.User
	learning  *LearningService
	review    *ReviewService
	stats     *StatsService
	dashboard *DashboardService
	imports   *ImportService
	users     *UserService
	words     *VocabularyService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// newTestEnv 建立内存库并按 requirements 创建等级，返回装配好的服务
func newTestEnv(t *testing.T, requirements ...int) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		db:  db,
		now: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC),
	}
	for i, req := range requirements {
		level := model.Level{Name: fmt.Sprintf("L%d", i), Rank: i + 1, RequiredExperience: req}
		require.NoError(t, db.Create(&level).Error)
		env.levels = append(env.levels, level)
	}

	email := "learner@example.com"
	env.user = model.User{Name: "学習者", Email: &email}
	require.NoError(t, db.Create(&env.user).Error)

	userRepo := repository.NewUserRepository(db)
	levelRepo := repository.NewLevelRepository(db, nil)
	questionRepo := repository.NewQuestionRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	clock := func() time.Time { return env.now }

	leveling := NewLevelingService(userRepo, levelRepo)
	env.stats = NewStatsService(db, progressRepo, statsRepo, time.UTC)
	env.stats.Now = clock
	env.learning = NewLearningService(db, questionRepo, progressRepo, statsRepo, leveling, env.stats, nil)
	env.learning.Now = clock
	env.review = NewReviewService(db, questionRepo, progressRepo, statsRepo, leveling, nil, 0)
	env.review.Now = clock
	env.dashboard = NewDashboardService(userRepo, levelRepo, questionRepo, progressRepo, env.stats, nil, 0, time.UTC)
	env.dashboard.Now = clock
	vocabularyRepo := repository.NewVocabularyRepository(db)
	env.imports = NewImportService(db, levelRepo, questionRepo, vocabularyRepo)
	env.words = NewVocabularyService(vocabularyRepo, levelRepo)
	env.users = NewUserService(userRepo, levelRepo, nil)
	return env
}

func (e *testEnv) question(t *testing.T, levelIdx int, answer string) model.Question {
	t.Helper()
	q := model.Question{
		LevelID:       e.levels[levelIdx].ID,
		Kind:          model.QuestionKindVocabulary,
		Script:        model.ScriptHiragana,
		Prompt:        "prompt " + answer,
		Reading:       "reading " + answer,
		CorrectAnswer: answer,
		Options:       model.StringList{answer, answer + "x", answer + "y"},
	}
	require.NoError(t, e.db.Create(&q).Error)
	return q
}

func (e *testEnv) reloadUser(t *testing.T) model.User {
	t.Helper()
	var u model.User
	require.NoError(t, e.db.Where("id = ?", e.user.ID).First(&u).Error)
	return u
}

func (e *testEnv) progress(t *testing.T, questionID uint) model.UserProgress {
	t.Helper()
	rec, err := repository.NewProgressRepository(e.db).Find(context.Background(), e.user.ID, questionID)
	require.NoError(t, err)
	return *rec
}
