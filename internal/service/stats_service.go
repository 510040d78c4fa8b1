package service

import (
	"context"
	"errors"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reconcileBatchSize 单次对账最多处理的用户数
const reconcileBatchSize = 500

// NextStreak 按 loc 所在时区的自然日计算连续学习天数：
// 上次计入是昨天则加一，是今天则不变，否则重置为 1。
func NextStreak(current int, lastCredited *time.Time, now time.Time, loc *time.Location) int {
	if lastCredited == nil {
		return 1
	}
	if loc == nil {
		loc = time.UTC
	}
	today := civilDay(now, loc)
	last := civilDay(*lastCredited, loc)

	switch {
	case last.Equal(today):
		return max(current, 1)
	case last.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type StatsService struct {
	DB           *gorm.DB
	ProgressRepo *repository.ProgressRepository
	StatsRepo    *repository.StatsRepository
	Location     *time.Location
	Now          func() time.Time
}

func NewStatsService(db *gorm.DB, progressRepo *repository.ProgressRepository, statsRepo *repository.StatsRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{
		DB:           db,
		ProgressRepo: progressRepo,
		StatsRepo:    statsRepo,
		Location:     loc,
		Now:          defaultNow,
	}
}

// AdvanceStreak 在 tx 内推进并保存连续学习天数，返回新值
func (s *StatsService) AdvanceStreak(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (int, error) {
	stats := s.StatsRepo.WithTx(tx)

	current, err := stats.Find(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	streak := 1
	if current != nil {
		streak = NextStreak(current.Streak, current.LastStreakAt, now, s.Location)
	}
	if err := stats.SaveStreak(ctx, userID, streak, now); err != nil {
		return 0, err
	}
	return streak, nil
}

// Snapshot 读取用户统计；统计行缺失时由作答记录临时计算，不落库
func (s *StatsService) Snapshot(ctx context.Context, userID string) (*model.UserStats, error) {
	stats, err := s.StatsRepo.Find(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	agg, err := s.ProgressRepo.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.UserStats{
		UserID:         userID,
		TotalAnswered:  int(agg.TotalAnswered),
		CorrectAnswers: int(agg.CorrectAnswers),
		LastActiveAt:   agg.LastActiveAt,
	}, nil
}

// Reconcile 为有作答记录但缺少统计行的用户重建统计，返回处理的用户数
func (s *StatsService) Reconcile(ctx context.Context) (int, error) {
	userIDs, err := s.ProgressRepo.UsersMissingStats(ctx, reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	rebuilt := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return rebuilt, err
		}
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			agg, err := s.ProgressRepo.WithTx(tx).Aggregate(ctx, userID)
			if err != nil {
				return err
			}
			return s.StatsRepo.WithTx(tx).Rebuild(ctx, userID, agg, s.Now())
		})
		if err != nil {
			logger.Log.Warn("重建用户统计失败", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		rebuilt++
	}

	if rebuilt > 0 {
		logger.Log.Info("用户统计对账完成", zap.Int("rebuilt", rebuilt), zap.Int("candidates", len(userIDs)))
	}
	return rebuilt, nil
}
