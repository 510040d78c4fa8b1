package service

import (
	"context"
	"errors"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/cache"
	"nihongolab_backend/pkg/logger"
	"nihongolab_backend/pkg/monitoring"
	"nihongolab_backend/pkg/tracing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LessonExperience 完成一节课固定奖励的经验，与正确率无关
const LessonExperience = 1

type SubmissionResult struct {
	IsCorrect        bool   `json:"isCorrect"`
	CorrectAnswer    string `json:"correctAnswer"`
	ExperienceEarned int    `json:"experienceEarned"`
	LeveledUp        bool   `json:"leveledUp"`
	// 未获得经验时为 null
	NewLevelID    *uint `json:"newLevelId"`
	NewExperience *int  `json:"newExperience"`
	Attempts      int   `json:"attempts"`
}

type LessonResult struct {
	Total            int     `json:"total"`
	Correct          int     `json:"correct"`
	Accuracy         float64 `json:"accuracy"`
	ExperienceEarned int     `json:"experienceEarned"`
	LeveledUp        bool    `json:"leveledUp"`
	NewExperience    int     `json:"newExperience"`
	NewLevelID       *uint   `json:"newLevelId"`
	Streak           int     `json:"streak"`
}

type LearningService struct {
	DB           *gorm.DB
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	StatsRepo    *repository.StatsRepository
	Leveling     *LevelingService
	Stats        *StatsService
	Cache        *cache.Cache
	Now          func() time.Time
}

func NewLearningService(
	db *gorm.DB,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.ProgressRepository,
	statsRepo *repository.StatsRepository,
	leveling *LevelingService,
	stats *StatsService,
	c *cache.Cache,
) *LearningService {
	return &LearningService{
		DB:           db,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		StatsRepo:    statsRepo,
		Leveling:     leveling,
		Stats:        stats,
		Cache:        c,
		Now:          defaultNow,
	}
}

// SubmitAnswer 记录一次作答。只有题目第一次被答对时才奖励 1 点经验，
// 所有写入在同一事务内完成。
func (s *LearningService) SubmitAnswer(ctx context.Context, userID string, questionID uint, answer string) (result *SubmissionResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearningService.SubmitAnswer")
	defer func() { tracing.EndSpan(span, err) }()

	if err := validateAnswer(answer); err != nil {
		return nil, err
	}
	now := s.Now()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Leveling.RequireUser(ctx, tx, userID); err != nil {
			return err
		}
		question, err := s.QuestionRepo.WithTx(tx).FindByID(ctx, questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NewNotFound("Question")
		}
		if err != nil {
			return err
		}

		isCorrect := AnswersMatch(question.CorrectAnswer, answer)
		progress := s.ProgressRepo.WithTx(tx)

		rec, err := progress.RecordAttempt(ctx, userID, questionID, isCorrect, now)
		if err != nil {
			return err
		}

		result = &SubmissionResult{
			IsCorrect:     isCorrect,
			CorrectAnswer: question.CorrectAnswer,
			Attempts:      rec.Attempts,
		}

		if isCorrect {
			// 并发提交时只有一个事务能完成 false→true 的翻转
			first, err := progress.MarkCorrect(ctx, userID, questionID)
			if err != nil {
				return err
			}
			if first {
				leveled, err := s.Leveling.Apply(ctx, tx, userID, 1)
				if err != nil {
					return err
				}
				exp := leveled.NewExperience
				result.ExperienceEarned = 1
				result.LeveledUp = leveled.LeveledUp
				result.NewLevelID = leveled.NewLevelID
				result.NewExperience = &exp
			}
		}

		return s.StatsRepo.WithTx(tx).RecordAnswer(ctx, userID, isCorrect, now)
	})
	if err != nil {
		return nil, err
	}

	monitoring.AnswersSubmitted.WithLabelValues(monitoring.ResultLabel(result.IsCorrect)).Inc()
	invalidateDashboard(ctx, s.Cache, userID)
	logger.Log.Debug("作答已记录",
		zap.String("user_id", userID),
		zap.Uint("question_id", questionID),
		zap.Bool("correct", result.IsCorrect),
		zap.Int("experience_earned", result.ExperienceEarned),
	)
	return result, nil
}

// normalizeLessonIDs 去重并校验题目 id，不满足要求时返回 ValidationError
func normalizeLessonIDs(ids []uint) ([]uint, error) {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			return nil, util.NewValidation("questionIds", "question ids must be positive")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) < util.MinLessonQuestions {
		return nil, util.NewValidation("questionIds", "a lesson requires at least 5 distinct questions")
	}
	return out, nil
}

// CompleteLesson 按每道题最近一次作答的正误统计正确率，
// 奖励固定经验并推进连续学习天数。
func (s *LearningService) CompleteLesson(ctx context.Context, userID string, questionIDs []uint) (result *LessonResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "LearningService.CompleteLesson")
	defer func() { tracing.EndSpan(span, err) }()

	ids, err := normalizeLessonIDs(questionIDs)
	if err != nil {
		return nil, err
	}
	now := s.Now()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Leveling.RequireUser(ctx, tx, userID); err != nil {
			return err
		}
		records, err := s.ProgressRepo.WithTx(tx).FindMany(ctx, userID, ids)
		if err != nil {
			return err
		}

		correct := 0
		for _, rec := range records {
			if rec.LastCorrect {
				correct++
			}
		}

		leveled, err := s.Leveling.Apply(ctx, tx, userID, LessonExperience)
		if err != nil {
			return err
		}

		streak, err := s.Stats.AdvanceStreak(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		result = &LessonResult{
			Total:            len(ids),
			Correct:          correct,
			Accuracy:         float64(correct) / float64(len(ids)),
			ExperienceEarned: LessonExperience,
			LeveledUp:        leveled.LeveledUp,
			NewExperience:    leveled.NewExperience,
			NewLevelID:       leveled.NewLevelID,
			Streak:           streak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.LessonsCompleted.Inc()
	invalidateDashboard(ctx, s.Cache, userID)
	logger.Log.Info("课程完成",
		zap.String("user_id", userID),
		zap.Int("total", result.Total),
		zap.Int("correct", result.Correct),
		zap.Int("streak", result.Streak),
	)
	return result, nil
}
