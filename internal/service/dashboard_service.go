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
	"nihongolab_backend/pkg/tracing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dashboardCachePrefix = "dashboard:"
	DefaultDashboardTTL  = 60 * time.Second
	recentActivityDays   = 7
)

type LevelSummary struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	RequiredExperience int    `json:"requiredExperience"`
}

type DashboardUser struct {
	Name              string        `json:"name"`
	CurrentExperience int           `json:"currentExperience"`
	CurrentLevel      *LevelSummary `json:"currentLevel"`
	NextLevel         *LevelSummary `json:"nextLevel"`
}

type DashboardStats struct {
	TotalAnswered  int        `json:"totalAnswered"`
	CorrectAnswers int        `json:"correctAnswers"`
	AccuracyRate   int        `json:"accuracyRate"`
	Streak         int        `json:"streak"`
	LastActiveAt   *time.Time `json:"lastActiveAt"`
}

type LevelProgress struct {
	LevelID         uint   `json:"levelId"`
	LevelName       string `json:"levelName"`
	TotalQuestions  int64  `json:"totalQuestions"`
	AnsweredCorrect int64  `json:"answeredCorrect"`
	Percentage      int    `json:"percentage"`
}

type DailyActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type Dashboard struct {
	User                   DashboardUser   `json:"user"`
	Stats                  DashboardStats  `json:"stats"`
	LevelProgress          []LevelProgress `json:"levelProgress"`
	RecentActivity         []DailyActivity `json:"recentActivity"`
	QuestionsMastered      int64           `json:"questionsMastered"`
	QuestionsNeedingReview int64           `json:"questionsNeedingReview"`
}

type ReviewSummary struct {
	DueCount int64 `json:"dueCount"`
}

type DashboardService struct {
	UserRepo     *repository.UserRepository
	LevelRepo    *repository.LevelRepository
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	Stats        *StatsService
	Cache        *cache.Cache
	CacheTTL     time.Duration
	Location     *time.Location
	Now          func() time.Time
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	levelRepo *repository.LevelRepository,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.ProgressRepository,
	stats *StatsService,
	c *cache.Cache,
	ttl time.Duration,
	loc *time.Location,
) *DashboardService {
	if ttl <= 0 {
		ttl = DefaultDashboardTTL
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		UserRepo:     userRepo,
		LevelRepo:    levelRepo,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		Stats:        stats,
		Cache:        c,
		CacheTTL:     ttl,
		Location:     loc,
		Now:          defaultNow,
	}
}

func dashboardCacheKey(userID string) string {
	return dashboardCachePrefix + userID
}

// invalidateDashboard 写路径提交后清除用户仪表盘缓存
func invalidateDashboard(ctx context.Context, c *cache.Cache, userID string) {
	if err := c.Delete(ctx, dashboardCacheKey(userID)); err != nil {
		logger.Log.Warn("清除仪表盘缓存失败", zap.String("user_id", userID), zap.Error(err))
	}
}

func percentage(part, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func toLevelSummary(l *model.Level) *LevelSummary {
	if l == nil {
		return nil
	}
	return &LevelSummary{ID: l.ID, Name: l.Name, RequiredExperience: l.RequiredExperience}
}

// currentAndNext 返回当前等级与下一等级；没有等级的用户下一等级为第一级
func currentAndNext(levels []model.Level, currentLevelID *uint) (*model.Level, *model.Level) {
	if currentLevelID == nil {
		if len(levels) == 0 {
			return nil, nil
		}
		return nil, &levels[0]
	}
	for i := range levels {
		if levels[i].ID != *currentLevelID {
			continue
		}
		if i+1 < len(levels) {
			return &levels[i], &levels[i+1]
		}
		return &levels[i], nil
	}
	return nil, nil
}

func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (dash *Dashboard, err error) {
	ctx, span := tracing.StartSpan(ctx, "DashboardService.GetDashboard")
	defer func() { tracing.EndSpan(span, err) }()

	var cached Dashboard
	if hit, err := s.Cache.Get(ctx, dashboardCacheKey(userID), &cached); err != nil {
		logger.Log.Warn("读取仪表盘缓存失败", zap.String("user_id", userID), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFound("User")
	}
	if err != nil {
		return nil, err
	}

	levels, err := s.LevelRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	current, next := currentAndNext(levels, user.CurrentLevelID)

	stats, err := s.Stats.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	levelProgress, err := s.levelProgress(ctx, userID, levels)
	if err != nil {
		return nil, err
	}

	activity, err := s.recentActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	mastered, err := s.ProgressRepo.CountMastered(ctx, userID)
	if err != nil {
		return nil, err
	}
	needsReview, err := s.ProgressRepo.CountNeedsReview(ctx, userID)
	if err != nil {
		return nil, err
	}

	dash = &Dashboard{
		User: DashboardUser{
			Name:              user.Name,
			CurrentExperience: user.CurrentExperience,
			CurrentLevel:      toLevelSummary(current),
			NextLevel:         toLevelSummary(next),
		},
		Stats: DashboardStats{
			TotalAnswered:  stats.TotalAnswered,
			CorrectAnswers: stats.CorrectAnswers,
			AccuracyRate:   percentage(int64(stats.CorrectAnswers), int64(stats.TotalAnswered)),
			Streak:         stats.Streak,
			LastActiveAt:   stats.LastActiveAt,
		},
		LevelProgress:          levelProgress,
		RecentActivity:         activity,
		QuestionsMastered:      mastered,
		QuestionsNeedingReview: needsReview,
	}

	if err := s.Cache.Set(ctx, dashboardCacheKey(userID), dash, s.CacheTTL); err != nil {
		logger.Log.Warn("写入仪表盘缓存失败", zap.String("user_id", userID), zap.Error(err))
	}
	return dash, nil
}

func (s *DashboardService) levelProgress(ctx context.Context, userID string, levels []model.Level) ([]LevelProgress, error) {
	totals, err := s.QuestionRepo.CountByLevel(ctx)
	if err != nil {
		return nil, err
	}
	correct, err := s.ProgressRepo.CountCorrectByLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]LevelProgress, 0, len(levels))
	for _, l := range levels {
		out = append(out, LevelProgress{
			LevelID:         l.ID,
			LevelName:       l.Name,
			TotalQuestions:  totals[l.ID],
			AnsweredCorrect: correct[l.ID],
			Percentage:      percentage(correct[l.ID], totals[l.ID]),
		})
	}
	return out, nil
}

// recentActivity 最近 7 天（含今天）每天的作答数，没有作答的日期补 0
func (s *DashboardService) recentActivity(ctx context.Context, userID string) ([]DailyActivity, error) {
	now := s.Now().In(s.Location)
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, s.Location)
	since := today.AddDate(0, 0, -(recentActivityDays - 1))

	times, err := s.ProgressRepo.AnsweredSince(ctx, userID, since.UTC())
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, recentActivityDays)
	for _, t := range times {
		counts[t.In(s.Location).Format(util.DateFormat)]++
	}

	out := make([]DailyActivity, 0, recentActivityDays)
	for i := 0; i < recentActivityDays; i++ {
		date := since.AddDate(0, 0, i).Format(util.DateFormat)
		out = append(out, DailyActivity{Date: date, Count: counts[date]})
	}
	return out, nil
}

// ReviewSummary 用户当前待复习题目数
func (s *DashboardService) ReviewSummary(ctx context.Context, userID string) (*ReviewSummary, error) {
	n, err := s.ProgressRepo.CountDue(ctx, userID, s.Now())
	if err != nil {
		return nil, err
	}
	return &ReviewSummary{DueCount: n}, nil
}
