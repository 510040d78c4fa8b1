package service

import (
	"context"
	"errors"
	"math"
	"nihongolab_backend/internal/model"
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

const DefaultReviewPageSize = 20

// ReviewSchedule 一次复习作答后的调度结果
type ReviewSchedule struct {
	EaseFactor   int
	IntervalDays int
	NextReviewAt time.Time
}

// IntervalForEase 复习间隔天数 = round(ease/100)，四舍五入，至少 1 天
func IntervalForEase(ease int) int {
	days := int(math.Round(float64(ease) / 100))
	if days < 1 {
		return 1
	}
	return days
}

// NextSchedule 答对 ease+10，答错 ease-20 且次日复习，ease 限定在 [130, 300]
func NextSchedule(currentEase int, isCorrect bool, now time.Time) ReviewSchedule {
	var ease, interval int
	if isCorrect {
		ease = min(currentEase+10, model.MaxEaseFactor)
		ease = max(ease, model.MinEaseFactor)
		interval = IntervalForEase(ease)
	} else {
		ease = max(currentEase-20, model.MinEaseFactor)
		ease = min(ease, model.MaxEaseFactor)
		interval = 1
	}
	return ReviewSchedule{
		EaseFactor:   ease,
		IntervalDays: interval,
		NextReviewAt: now.AddDate(0, 0, interval),
	}
}

type ScriptInfo struct {
	Kind    string `json:"kind"`
	Script  string `json:"script"`
	Reading string `json:"reading,omitempty"`
}

type ScheduleState struct {
	Attempts        int        `json:"attempts"`
	IsCorrectEver   bool       `json:"isCorrectEver"`
	EaseFactor      int        `json:"easeFactor"`
	NextReviewAt    *time.Time `json:"nextReviewAt"`
	LastAttemptedAt time.Time  `json:"lastAttemptedAt"`
}

// DueQuestion 待复习题目，不携带正确答案
type DueQuestion struct {
	QuestionID uint          `json:"questionId"`
	Prompt     string        `json:"prompt"`
	Options    []string      `json:"options"`
	Script     ScriptInfo    `json:"script"`
	Schedule   ScheduleState `json:"schedule"`
}

type ReviewResult struct {
	IsCorrect        bool      `json:"isCorrect"`
	CorrectAnswer    string    `json:"correctAnswer"`
	NextReviewAt     time.Time `json:"nextReviewAt"`
	EaseFactor       int       `json:"easeFactor"`
	IntervalDays     int       `json:"intervalDays"`
	Attempts         int       `json:"attempts"`
	ExperienceEarned int       `json:"experienceEarned"`
	LeveledUp        bool      `json:"leveledUp"`
}

type ReviewService struct {
	DB           *gorm.DB
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	StatsRepo    *repository.StatsRepository
	Leveling     *LevelingService
	Cache        *cache.Cache
	PageSize     int
	Now          func() time.Time
}

func NewReviewService(
	db *gorm.DB,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.ProgressRepository,
	statsRepo *repository.StatsRepository,
	leveling *LevelingService,
	c *cache.Cache,
	pageSize int,
) *ReviewService {
	if pageSize <= 0 {
		pageSize = DefaultReviewPageSize
	}
	return &ReviewService{
		DB:           db,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		StatsRepo:    statsRepo,
		Leveling:     leveling,
		Cache:        c,
		PageSize:     pageSize,
		Now:          defaultNow,
	}
}

// DueQuestions 返回用户当前待复习的题目，最多 PageSize 条
func (s *ReviewService) DueQuestions(ctx context.Context, userID string) (out []DueQuestion, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReviewService.DueQuestions")
	defer func() { tracing.EndSpan(span, err) }()

	rows, err := s.ProgressRepo.ListDue(ctx, userID, s.Now(), s.PageSize)
	if err != nil {
		return nil, err
	}

	out = make([]DueQuestion, 0, len(rows))
	for _, row := range rows {
		options := []string(row.Options)
		if options == nil {
			options = []string{}
		}
		out = append(out, DueQuestion{
			QuestionID: row.QuestionID,
			Prompt:     row.Prompt,
			Options:    options,
			Script: ScriptInfo{
				Kind:    row.Kind,
				Script:  row.Script,
				Reading: row.Reading,
			},
			Schedule: ScheduleState{
				Attempts:        row.Attempts,
				IsCorrectEver:   row.IsCorrectEver,
				EaseFactor:      row.EaseFactor,
				NextReviewAt:    row.NextReviewAt,
				LastAttemptedAt: row.LastAttemptedAt,
			},
		})
	}
	return out, nil
}

// RecordReviewAnswer 校验复习作答并更新调度状态。
// 题目首次答对时同样奖励 1 点经验。
func (s *ReviewService) RecordReviewAnswer(ctx context.Context, userID string, questionID uint, answer string) (result *ReviewResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReviewService.RecordReviewAnswer")
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

		rec, schedule, err := s.updateSchedule(ctx, progress, userID, questionID, isCorrect, now)
		if err != nil {
			return err
		}

		result = &ReviewResult{
			IsCorrect:     isCorrect,
			CorrectAnswer: question.CorrectAnswer,
			NextReviewAt:  schedule.NextReviewAt,
			EaseFactor:    schedule.EaseFactor,
			IntervalDays:  schedule.IntervalDays,
			Attempts:      rec.Attempts,
		}

		if isCorrect {
			first, err := progress.MarkCorrect(ctx, userID, questionID)
			if err != nil {
				return err
			}
			if first {
				leveled, err := s.Leveling.Apply(ctx, tx, userID, 1)
				if err != nil {
					return err
				}
				result.ExperienceEarned = 1
				result.LeveledUp = leveled.LeveledUp
			}
		}

		return s.StatsRepo.WithTx(tx).RecordAnswer(ctx, userID, isCorrect, now)
	})
	if err != nil {
		return nil, err
	}

	monitoring.ReviewsRecorded.WithLabelValues(monitoring.ResultLabel(result.IsCorrect)).Inc()
	invalidateDashboard(ctx, s.Cache, userID)
	logger.Log.Debug("复习作答已记录",
		zap.String("user_id", userID),
		zap.Uint("question_id", questionID),
		zap.Bool("correct", result.IsCorrect),
		zap.Int("ease_factor", result.EaseFactor),
	)
	return result, nil
}

func (s *ReviewService) updateSchedule(
	ctx context.Context,
	progress *repository.ProgressRepository,
	userID string,
	questionID uint,
	isCorrect bool,
	now time.Time,
) (*model.UserProgress, ReviewSchedule, error) {
	for attempt := 0; attempt < maxOptimisticRetries; attempt++ {
		rec, err := progress.FindForUpdate(ctx, userID, questionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ReviewSchedule{}, util.NewNotFound("Progress record")
		}
		if err != nil {
			return nil, ReviewSchedule{}, err
		}

		schedule := NextSchedule(rec.EaseFactor, isCorrect, now)
		expected := rec.Attempts
		next := schedule.NextReviewAt

		rec.Attempts++
		rec.LastCorrect = isCorrect
		rec.EaseFactor = schedule.EaseFactor
		rec.NextReviewAt = &next
		rec.AnsweredAt = now
		rec.LastAttemptedAt = now
		rec.UpdatedAt = now

		ok, err := progress.UpdateSchedule(ctx, rec, expected)
		if err != nil {
			return nil, ReviewSchedule{}, err
		}
		if ok {
			return rec, schedule, nil
		}
	}
	return nil, ReviewSchedule{}, util.ErrConflict
}
