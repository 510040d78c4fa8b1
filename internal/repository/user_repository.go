package repository

import (
	"context"
	"nihongolab_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// WithTx 返回绑定到事务的仓库副本
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{DB: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// Provision 插入令牌对应的用户，主键或邮箱已存在时不做修改，返回是否新建
func (r *UserRepository) Provision(ctx context.Context, user *model.User) (bool, error) {
	result := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateProfile 只写入 fields 中给出的列，用户不存在时返回 gorm.ErrRecordNotFound
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}
	result := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate 加行锁读取，SQLite 下退化为普通读取
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateExperience 以 version 做比较并交换，返回是否写入成功。
// 成功时 user 的 Version 同步自增。
func (r *UserRepository) UpdateExperience(ctx context.Context, user *model.User, experience int, levelID *uint) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"current_experience": experience,
			"current_level_id":   levelID,
			"version":            gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	user.CurrentExperience = experience
	user.CurrentLevelID = levelID
	user.Version++
	return true, nil
}
