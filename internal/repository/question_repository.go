package repository

import (
	"context"
	"nihongolab_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) Create(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(questions, 100).Error
}

type levelCount struct {
	LevelID uint
	Total   int64
}

// CountByLevel 每个等级下的题目数
func (r *QuestionRepository) CountByLevel(ctx context.Context) (map[uint]int64, error) {
	var rows []levelCount
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select("level_id, COUNT(*) AS total").
		Group("level_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toLevelMap(rows), nil
}

func toLevelMap(rows []levelCount) map[uint]int64 {
	m := make(map[uint]int64, len(rows))
	for _, row := range rows {
		m[row.LevelID] = row.Total
	}
	return m
}
