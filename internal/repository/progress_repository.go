package repository

import (
	"context"
	"nihongolab_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 待复习条件：答错过、从未答对、或已到复习时间
const dueCondition = "(user_progress.attempts > ? OR user_progress.is_correct_ever = ? OR " +
	"(user_progress.next_review_at IS NULL AND user_progress.is_correct_ever = ?) OR " +
	"user_progress.next_review_at <= ?)"

const needsReviewCondition = "(user_progress.attempts > ? OR user_progress.is_correct_ever = ?)"

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// RecordAttempt 插入或合并一次作答：新行 attempts=1，已有行 attempts+1。
// is_correct_ever 不在此处修改，见 MarkCorrect。
func (r *ProgressRepository) RecordAttempt(ctx context.Context, userID string, questionID uint, isCorrect bool, now time.Time) (*model.UserProgress, error) {
	rec := model.UserProgress{
		UserID:          userID,
		QuestionID:      questionID,
		LastCorrect:     isCorrect,
		Attempts:        1,
		AnsweredAt:      now,
		LastAttemptedAt: now,
		EaseFactor:      model.DefaultEaseFactor,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"attempts":          gorm.Expr("user_progress.attempts + 1"),
			"last_correct":      isCorrect,
			"answered_at":       now,
			"last_attempted_at": now,
			"updated_at":        now,
		}),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}

	return r.Find(ctx, userID, questionID)
}

// MarkCorrect 将 is_correct_ever 从 false 翻转为 true。
// 返回 true 表示本次调用完成了翻转；并发调用中只有一个会成功。
func (r *ProgressRepository) MarkCorrect(ctx context.Context, userID string, questionID uint) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND question_id = ? AND is_correct_ever = ?", userID, questionID, false).
		Update("is_correct_ever", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *ProgressRepository) Find(ctx context.Context, userID string, questionID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) FindForUpdate(ctx context.Context, userID string, questionID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindMany 按题目 id 取回该用户已有的记录，缺失的题目不会出现在结果中
func (r *ProgressRepository) FindMany(ctx context.Context, userID string, questionIDs []uint) ([]model.UserProgress, error) {
	var records []model.UserProgress
	if len(questionIDs) == 0 {
		return records, nil
	}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Find(&records).Error
	return records, err
}

// UpdateSchedule 以 attempts 作为版本号写入复习调度结果。
// 返回 false 表示行已被并发修改，调用方应重新读取后重试。
func (r *ProgressRepository) UpdateSchedule(ctx context.Context, p *model.UserProgress, expectedAttempts int) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("id = ? AND attempts = ?", p.ID, expectedAttempts).
		Updates(map[string]interface{}{
			"attempts":          p.Attempts,
			"last_correct":      p.LastCorrect,
			"ease_factor":       p.EaseFactor,
			"next_review_at":    p.NextReviewAt,
			"answered_at":       p.AnsweredAt,
			"last_attempted_at": p.LastAttemptedAt,
			"updated_at":        p.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DueRow 复习队列中的一行，不含正确答案
type DueRow struct {
	QuestionID      uint
	Kind            string
	Script          string
	Prompt          string
	Reading         string
	Options         model.StringList
	Attempts        int
	IsCorrectEver   bool
	EaseFactor      int
	NextReviewAt    *time.Time
	LastAttemptedAt time.Time
}

func (r *ProgressRepository) dueQuery(ctx context.Context, userID string, now time.Time) *gorm.DB {
	return r.DB.WithContext(ctx).Table("user_progress").
		Joins("JOIN questions ON questions.id = user_progress.question_id AND questions.deleted_at IS NULL").
		Where("user_progress.user_id = ?", userID).
		Where(dueCondition, 1, false, false, now)
}

// ListDue 返回待复习题目：从未排期的在前，其余按 next_review_at、last_attempted_at 倒序
func (r *ProgressRepository) ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]DueRow, error) {
	var rows []DueRow
	err := r.dueQuery(ctx, userID, now).
		Select("user_progress.question_id, questions.kind, questions.script, questions.prompt, " +
			"questions.reading, questions.options, user_progress.attempts, user_progress.is_correct_ever, " +
			"user_progress.ease_factor, user_progress.next_review_at, user_progress.last_attempted_at").
		Order("CASE WHEN user_progress.next_review_at IS NULL THEN 0 ELSE 1 END").
		Order("user_progress.next_review_at DESC").
		Order("user_progress.last_attempted_at DESC").
		Order("user_progress.question_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CountDue(ctx context.Context, userID string, now time.Time) (int64, error) {
	var n int64
	err := r.dueQuery(ctx, userID, now).Count(&n).Error
	return n, err
}

// CountMastered 至少答对过一次的题目数
func (r *ProgressRepository) CountMastered(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND is_correct_ever = ?", userID, true).
		Count(&n).Error
	return n, err
}

func (r *ProgressRepository) CountNeedsReview(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_progress.user_id = ?", userID).
		Where(needsReviewCondition, 1, false).
		Count(&n).Error
	return n, err
}

// CountCorrectByLevel 用户在各等级下已答对的题目数
func (r *ProgressRepository) CountCorrectByLevel(ctx context.Context, userID string) (map[uint]int64, error) {
	var rows []levelCount
	err := r.DB.WithContext(ctx).Table("user_progress").
		Select("questions.level_id AS level_id, COUNT(*) AS total").
		Joins("JOIN questions ON questions.id = user_progress.question_id AND questions.deleted_at IS NULL").
		Where("user_progress.user_id = ? AND user_progress.is_correct_ever = ?", userID, true).
		Group("questions.level_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toLevelMap(rows), nil
}

// AnsweredSince 返回 since 之后的作答时间，用于按天聚合
func (r *ProgressRepository) AnsweredSince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND answered_at >= ?", userID, since).
		Pluck("answered_at", &times).Error
	return times, err
}

// ProgressAggregate 从 user_progress 重新计算的统计值
type ProgressAggregate struct {
	TotalAnswered  int64
	CorrectAnswers int64
	LastActiveAt   *time.Time
}

type progressTotals struct {
	TotalAnswered  int64
	CorrectAnswers int64
}

func (r *ProgressRepository) Aggregate(ctx context.Context, userID string) (*ProgressAggregate, error) {
	var agg progressTotals
	err := r.DB.WithContext(ctx).Model(&model.UserProgress{}).
		Select("COALESCE(SUM(attempts), 0) AS total_answered, "+
			"COALESCE(SUM(CASE WHEN is_correct_ever = ? THEN 1 ELSE 0 END), 0) AS correct_answers", true).
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	out := &ProgressAggregate{TotalAnswered: agg.TotalAnswered, CorrectAnswers: agg.CorrectAnswers}

	var latest model.UserProgress
	result := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_attempted_at DESC").
		Limit(1).
		Find(&latest)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		t := latest.LastAttemptedAt
		out.LastActiveAt = &t
	}
	return out, nil
}

// UsersMissingStats 有作答记录却没有统计行的用户
func (r *ProgressRepository) UsersMissingStats(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Table("user_progress").
		Joins("LEFT JOIN user_stats ON user_stats.user_id = user_progress.user_id").
		Where("user_stats.id IS NULL").
		Distinct("user_progress.user_id").
		Limit(limit).
		Pluck("user_progress.user_id", &ids).Error
	return ids, err
}
