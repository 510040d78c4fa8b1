package model

// User 首次携带令牌访问时按 sub 与 email 建档，外部认证服务负责账号本身
// swagger:model User
type User struct {
	UUIDBase
	Name              string  `gorm:"size:100;not null" json:"name"`
	Email             *string `gorm:"size:191;uniqueIndex" json:"email"`
	Image             string  `gorm:"size:255" json:"image,omitempty"`
	CurrentExperience int     `gorm:"not null;default:0" json:"currentExperience"`
	CurrentLevelID    *uint   `gorm:"index" json:"currentLevelId"`
	// Version 每次写入经验时自增，用于乐观锁
	Version uint `gorm:"not null;default:0" json:"-"`
}

func (User) TableName() string {
	return "users"
}
