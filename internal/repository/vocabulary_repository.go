package repository

import (
	"context"
	"nihongolab_backend/internal/model"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VocabularyFilter 为空的字段不参与过滤，Cursor 为上一页最后一条的 id
type VocabularyFilter struct {
	LevelID      *uint
	Category     string
	PartOfSpeech string
	Search       string
	Cursor       uint
	Limit        int
	Offset       int
}

type VocabularyRepository struct {
	DB *gorm.DB
}

func NewVocabularyRepository(db *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{DB: db}
}

func (r *VocabularyRepository) WithTx(tx *gorm.DB) *VocabularyRepository {
	return &VocabularyRepository{DB: tx}
}

// List 按 id 升序返回至多 f.Limit 条
func (r *VocabularyRepository) List(ctx context.Context, f VocabularyFilter) ([]model.Vocabulary, error) {
	query := r.DB.WithContext(ctx).Model(&model.Vocabulary{})
	if f.LevelID != nil {
		query = query.Where("level_id = ?", *f.LevelID)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.PartOfSpeech != "" {
		query = query.Where("part_of_speech = ?", f.PartOfSpeech)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(word) LIKE ? OR LOWER(reading) LIKE ? OR LOWER(meaning) LIKE ?", like, like, like)
	}
	if f.Cursor > 0 {
		query = query.Where("id > ?", f.Cursor)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var items []model.Vocabulary
	err := query.Order("id ASC").Limit(f.Limit).Find(&items).Error
	return items, err
}

// Upsert 以 (level_id, word) 为键写入，已存在的词条更新读音、释义与分类
func (r *VocabularyRepository) Upsert(ctx context.Context, items []model.Vocabulary) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "level_id"}, {Name: "word"}},
		DoUpdates: clause.AssignmentColumns([]string{"reading", "meaning", "category", "part_of_speech", "updated_at"}),
	}).CreateInBatches(items, 100).Error
}
