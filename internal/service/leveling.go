package service

import (
	"context"
	"errors"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/logger"
	"nihongolab_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxOptimisticRetries 乐观锁写入的最大尝试次数
const maxOptimisticRetries = 5

// LevelingResult 一次经验变更后的用户状态
type LevelingResult struct {
	NewExperience int   `json:"newExperience"`
	NewLevelID    *uint `json:"newLevelId"`
	LeveledUp     bool  `json:"leveledUp"`
}

// ApplyExperience 将 delta 计入经验并按等级表推进，可一次跨越多级。
// levels 须按 rank 升序；当前等级不在表中时从第一级开始。
// 到达最高级后经验截断为该级门槛。
// 等级 id 发生变化即视为升级，无等级用户首次获得经验也算升级。
func ApplyExperience(currentExperience int, currentLevelID *uint, levels []model.Level, delta int) (LevelingResult, error) {
	if len(levels) == 0 {
		return LevelingResult{}, util.NewConfiguration("no levels configured")
	}
	if delta < 0 {
		return LevelingResult{}, util.NewValidation("delta", "experience delta must not be negative")
	}
	if delta == 0 {
		return LevelingResult{NewExperience: currentExperience, NewLevelID: currentLevelID}, nil
	}

	start := 0
	if currentLevelID != nil {
		for i := range levels {
			if levels[i].ID == *currentLevelID {
				start = i
				break
			}
		}
	}

	idx := start
	last := len(levels) - 1
	exp := currentExperience + delta
	for idx < last && exp >= levels[idx].RequiredExperience {
		exp -= levels[idx].RequiredExperience
		idx++
	}
	if idx == last && exp > levels[last].RequiredExperience {
		exp = levels[last].RequiredExperience
	}

	levelID := levels[idx].ID
	return LevelingResult{
		NewExperience: exp,
		NewLevelID:    &levelID,
		LeveledUp:     currentLevelID == nil || *currentLevelID != levelID,
	}, nil
}

type LevelingService struct {
	UserRepo  *repository.UserRepository
	LevelRepo *repository.LevelRepository
}

func NewLevelingService(userRepo *repository.UserRepository, levelRepo *repository.LevelRepository) *LevelingService {
	return &LevelingService{UserRepo: userRepo, LevelRepo: levelRepo}
}

// RequireUser 在调用方事务 tx 内确认用户存在，任何写入之前调用
func (s *LevelingService) RequireUser(ctx context.Context, tx *gorm.DB, userID string) error {
	_, err := s.UserRepo.WithTx(tx).FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewNotFound("User")
	}
	return err
}

// Apply 在调用方事务 tx 内为用户增加经验并写回
func (s *LevelingService) Apply(ctx context.Context, tx *gorm.DB, userID string, delta int) (*LevelingResult, error) {
	levels, err := s.LevelRepo.WithTx(tx).ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	users := s.UserRepo.WithTx(tx)

	for attempt := 0; attempt < maxOptimisticRetries; attempt++ {
		user, err := users.FindByIDForUpdate(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewNotFound("User")
		}
		if err != nil {
			return nil, err
		}

		result, err := ApplyExperience(user.CurrentExperience, user.CurrentLevelID, levels, delta)
		if err != nil {
			return nil, err
		}
		if delta == 0 {
			return &result, nil
		}

		ok, err := users.UpdateExperience(ctx, user, result.NewExperience, result.NewLevelID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if result.LeveledUp {
			monitoring.LevelUps.Inc()
			logger.Log.Info("用户升级",
				zap.String("user_id", userID),
				zap.Uintp("level_id", result.NewLevelID),
				zap.Int("experience", result.NewExperience),
			)
		}
		return &result, nil
	}

	return nil, util.ErrConflict
}
