package service

import (
	"context"
	"errors"
	"net/url"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/cache"
	"nihongolab_backend/pkg/logger"
	"nihongolab_backend/pkg/tracing"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minNameLength  = 2
	maxNameLength  = 100
	maxImageLength = 255
)

// Profile 用户资料及当前等级，未分配等级时等级字段为 null
type Profile struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              *string `json:"email"`
	Image              string  `json:"image"`
	CurrentExperience  int     `json:"currentExperience"`
	LevelID            *uint   `json:"levelId"`
	LevelName          *string `json:"levelName"`
	RequiredExperience *int    `json:"requiredExperience"`
}

// ProfileUpdate 为 nil 的字段保持不变
type ProfileUpdate struct {
	Name  *string
	Image *string
}

type UserService struct {
	UserRepo  *repository.UserRepository
	LevelRepo *repository.LevelRepository
	Cache     *cache.Cache
}

func NewUserService(userRepo *repository.UserRepository, levelRepo *repository.LevelRepository, c *cache.Cache) *UserService {
	return &UserService{UserRepo: userRepo, LevelRepo: levelRepo, Cache: c}
}

// defaultName 优先取邮箱 @ 之前的部分
func defaultName(userID, email string) string {
	name := userID
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	return name
}

// EnsureUser 令牌对应的用户不存在时建档，返回是否新建
func (s *UserService) EnsureUser(ctx context.Context, userID, email string) (bool, error) {
	user := &model.User{
		UUIDBase: model.UUIDBase{ID: userID},
		Name:     defaultName(userID, email),
	}
	if email != "" {
		user.Email = &email
	}

	created, err := s.UserRepo.Provision(ctx, user)
	if err != nil {
		return false, err
	}
	if created {
		logger.Log.Info("用户已建档", zap.String("user_id", userID))
	}
	return created, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (profile *Profile, err error) {
	ctx, span := tracing.StartSpan(ctx, "UserService.GetProfile")
	defer func() { tracing.EndSpan(span, err) }()

	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFound("User")
	}
	if err != nil {
		return nil, err
	}

	profile = &Profile{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Image:             user.Image,
		CurrentExperience: user.CurrentExperience,
		LevelID:           user.CurrentLevelID,
	}
	if user.CurrentLevelID == nil {
		return profile, nil
	}

	levels, err := s.LevelRepo.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	for i := range levels {
		if levels[i].ID == *user.CurrentLevelID {
			profile.LevelName = &levels[i].Name
			profile.RequiredExperience = &levels[i].RequiredExperience
			break
		}
	}
	return profile, nil
}

func validateProfileUpdate(in ProfileUpdate) (map[string]interface{}, error) {
	fields := make(map[string]interface{}, 2)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		n := utf8.RuneCountInString(name)
		if n < minNameLength || n > maxNameLength {
			return nil, util.NewValidation("name", "name must be between 2 and 100 characters")
		}
		fields["name"] = name
	}
	if in.Image != nil {
		image := strings.TrimSpace(*in.Image)
		if len(image) > maxImageLength {
			return nil, util.NewValidation("image", "image url is too long")
		}
		// 空字符串清除头像
		if image != "" {
			u, err := url.Parse(image)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return nil, util.NewValidation("image", "image must be an http(s) url")
			}
		}
		fields["image"] = image
	}
	return fields, nil
}

// UpdateProfile 修改名称或头像地址，返回更新后的资料
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*Profile, error) {
	fields, err := validateProfileUpdate(in)
	if err != nil {
		return nil, err
	}

	err = s.UserRepo.UpdateProfile(ctx, userID, fields)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.NewNotFound("User")
	}
	if err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, s.Cache, userID)
	return s.GetProfile(ctx, userID)
}
