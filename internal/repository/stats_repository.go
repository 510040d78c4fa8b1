package repository

import (
	"context"
	"nihongolab_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) WithTx(tx *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: tx}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordAnswer 作答计数加一，答对时正确数同时加一。
// 统计行不存在时以 streak=0 创建，连续天数只由完成课程推进。
func (r *StatsRepository) RecordAnswer(ctx context.Context, userID string, isCorrect bool, now time.Time) error {
	row := model.UserStats{
		UserID:         userID,
		TotalAnswered:  1,
		CorrectAnswers: boolToInt(isCorrect),
		LastActiveAt:   &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_answered":  gorm.Expr("user_stats.total_answered + 1"),
			"correct_answers": gorm.Expr("user_stats.correct_answers + ?", boolToInt(isCorrect)),
			"last_active_at":  now,
			"updated_at":      now,
		}),
	}).Create(&row).Error
}

func (r *StatsRepository) Find(ctx context.Context, userID string) (*model.UserStats, error) {
	var stats model.UserStats
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveStreak 写入连续学习天数及其计入时间，统计行不存在时创建
func (r *StatsRepository) SaveStreak(ctx context.Context, userID string, streak int, now time.Time) error {
	row := model.UserStats{
		UserID:       userID,
		Streak:       streak,
		LastActiveAt: &now,
		LastStreakAt: &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"streak":         streak,
			"last_active_at": now,
			"last_streak_at": now,
			"updated_at":     now,
		}),
	}).Create(&row).Error
}

// Rebuild 用聚合结果覆盖计数字段，streak 保持不变
func (r *StatsRepository) Rebuild(ctx context.Context, userID string, agg *ProgressAggregate, now time.Time) error {
	row := model.UserStats{
		UserID:         userID,
		TotalAnswered:  int(agg.TotalAnswered),
		CorrectAnswers: int(agg.CorrectAnswers),
		LastActiveAt:   agg.LastActiveAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_answered":  row.TotalAnswered,
			"correct_answers": row.CorrectAnswers,
			"last_active_at":  row.LastActiveAt,
			"updated_at":      now,
		}),
	}).Create(&row).Error
}
