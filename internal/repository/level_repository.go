package repository

import (
	"context"
	"errors"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/pkg/cache"
	"nihongolab_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	levelsCacheKey = "levels:ordered"
	levelsCacheTTL = 10 * time.Minute
)

type LevelRepository struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewLevelRepository(db *gorm.DB, c *cache.Cache) *LevelRepository {
	return &LevelRepository{DB: db, Cache: c}
}

func (r *LevelRepository) WithTx(tx *gorm.DB) *LevelRepository {
	return &LevelRepository{DB: tx, Cache: r.Cache}
}

// ListOrdered 按 rank、id 升序返回全部等级。等级表很少变化，结果会被缓存
func (r *LevelRepository) ListOrdered(ctx context.Context) ([]model.Level, error) {
	var levels []model.Level
	if hit, err := r.Cache.Get(ctx, levelsCacheKey, &levels); err != nil {
		logger.Log.Warn("Failed to read levels from cache", zap.Error(err))
	} else if hit {
		return levels, nil
	}

	levels = nil
	if err := r.DB.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "rank"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).Find(&levels).Error; err != nil {
		return nil, err
	}

	if len(levels) > 0 {
		if err := r.Cache.Set(ctx, levelsCacheKey, levels, levelsCacheTTL); err != nil {
			logger.Log.Warn("Failed to cache levels", zap.Error(err))
		}
	}
	return levels, nil
}

func (r *LevelRepository) FindByName(ctx context.Context, name string) (*model.Level, error) {
	var level model.Level
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&level).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// Upsert 以 name 为键插入或更新等级，返回最终行
func (r *LevelRepository) Upsert(ctx context.Context, level *model.Level) (*model.Level, error) {
	existing, err := r.FindByName(ctx, level.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing == nil {
		if err := r.DB.WithContext(ctx).Create(level).Error; err != nil {
			return nil, err
		}
		return level, nil
	}

	existing.Rank = level.Rank
	existing.RequiredExperience = level.RequiredExperience
	err = r.DB.WithContext(ctx).Model(existing).
		Select("rank", "required_experience", "updated_at").
		Updates(existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (r *LevelRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Level{}).Count(&n).Error
	return n, err
}

// InvalidateCache 等级数据变更后调用
func (r *LevelRepository) InvalidateCache(ctx context.Context) {
	if err := r.Cache.Delete(ctx, levelsCacheKey); err != nil {
		logger.Log.Warn("Failed to invalidate levels cache", zap.Error(err))
	}
}
