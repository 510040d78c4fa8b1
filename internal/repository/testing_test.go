package repository

import (
	"context"
	"fmt"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func seedLevel(t *testing.T, db *gorm.DB, name string, rank, required int) model.Level {
	t.Helper()
	level := model.Level{Name: name, Rank: rank, RequiredExperience: required}
	require.NoError(t, db.Create(&level).Error)
	return level
}

func seedQuestion(t *testing.T, db *gorm.DB, levelID uint, answer string) model.Question {
	t.Helper()
	q := model.Question{
		LevelID:       levelID,
		Kind:          model.QuestionKindVocabulary,
		Script:        model.ScriptHiragana,
		Prompt:        fmt.Sprintf("prompt for %s", answer),
		CorrectAnswer: answer,
		Options:       model.StringList{answer, "other"},
	}
	require.NoError(t, db.Create(&q).Error)
	return q
}

func seedUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Name: "tester", Email: &email}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), &u))
	return u
}
