package model

import "time"

// UserStats 用户作答统计的反范式缓存，可由 user_progress 重建
// swagger:model UserStats
type UserStats struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID         string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"userId"`
	TotalAnswered  int        `gorm:"not null;default:0" json:"totalAnswered"`
	CorrectAnswers int        `gorm:"not null;default:0" json:"correctAnswers"`
	Streak         int        `gorm:"not null;default:0" json:"streak"`
	LastActiveAt   *time.Time `json:"lastActiveAt"`
	// LastStreakAt 最近一次计入连续学习天数的时间
	LastStreakAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"-"`
	UpdatedAt    time.Time  `json:"-"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
