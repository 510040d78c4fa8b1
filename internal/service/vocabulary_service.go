package service

import (
	"context"
	"errors"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/tracing"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultVocabularyLimit = 50
	MaxVocabularyLimit     = 100
)

// VocabularyQuery Level 为等级名称，Limit 为 0 时取默认值
type VocabularyQuery struct {
	Level        string
	Category     string
	PartOfSpeech string
	Search       string
	Cursor       uint
	Limit        int
	Offset       int
}

type VocabularyGroup struct {
	Category string             `json:"category"`
	Items    []model.Vocabulary `json:"items"`
}

type VocabularyMeta struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Count      int   `json:"count"`
	HasNext    bool  `json:"hasNext"`
	NextCursor *uint `json:"nextCursor"`
}

type VocabularyPage struct {
	Groups []VocabularyGroup `json:"groups"`
	Meta   VocabularyMeta    `json:"meta"`
}

type VocabularyService struct {
	VocabularyRepo *repository.VocabularyRepository
	LevelRepo      *repository.LevelRepository
}

func NewVocabularyService(vocabularyRepo *repository.VocabularyRepository, levelRepo *repository.LevelRepository) *VocabularyService {
	return &VocabularyService{VocabularyRepo: vocabularyRepo, LevelRepo: levelRepo}
}

func normalizeVocabularyQuery(q VocabularyQuery) (VocabularyQuery, error) {
	q.Level = strings.TrimSpace(q.Level)
	q.Category = strings.TrimSpace(q.Category)
	q.Search = strings.TrimSpace(q.Search)

	if q.PartOfSpeech != "" && !model.IsPartOfSpeech(q.PartOfSpeech) {
		return q, util.NewValidation("partOfSpeech", "must be one of noun, verb, adj-i, adj-na, expression")
	}
	if q.Limit == 0 {
		q.Limit = DefaultVocabularyLimit
	}
	if q.Limit < 1 || q.Limit > MaxVocabularyLimit {
		return q, util.NewValidation("limit", "limit must be between 1 and 100")
	}
	if q.Offset < 0 {
		return q, util.NewValidation("offset", "offset must not be negative")
	}
	return q, nil
}

// groupByCategory 分组按首次出现的顺序排列，组内保持 id 升序
func groupByCategory(items []model.Vocabulary) []VocabularyGroup {
	groups := make([]VocabularyGroup, 0)
	index := make(map[string]int)
	for _, v := range items {
		category := v.Category
		if category == "" {
			category = model.VocabularyOtherCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, VocabularyGroup{Category: category})
		}
		groups[i].Items = append(groups[i].Items, v)
	}
	return groups
}

// List 浏览词汇表。多取一条判断是否还有下一页，nextCursor 为本页最后一条的 id。
func (s *VocabularyService) List(ctx context.Context, q VocabularyQuery) (page *VocabularyPage, err error) {
	ctx, span := tracing.StartSpan(ctx, "VocabularyService.List")
	defer func() { tracing.EndSpan(span, err) }()

	q, err = normalizeVocabularyQuery(q)
	if err != nil {
		return nil, err
	}

	filter := repository.VocabularyFilter{
		Category:     q.Category,
		PartOfSpeech: q.PartOfSpeech,
		Search:       q.Search,
		Cursor:       q.Cursor,
		Limit:        q.Limit + 1,
		Offset:       q.Offset,
	}
	if q.Level != "" {
		level, err := s.LevelRepo.FindByName(ctx, q.Level)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewNotFound("Level")
		}
		if err != nil {
			return nil, err
		}
		filter.LevelID = &level.ID
	}

	items, err := s.VocabularyRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	hasNext := len(items) > q.Limit
	if hasNext {
		items = items[:q.Limit]
	}
	page = &VocabularyPage{
		Groups: groupByCategory(items),
		Meta: VocabularyMeta{
			Limit:   q.Limit,
			Offset:  q.Offset,
			Count:   len(items),
			HasNext: hasNext,
		},
	}
	if hasNext {
		last := items[len(items)-1].ID
		page.Meta.NextCursor = &last
	}
	return page, nil
}
