package model

import "time"

const (
	DefaultEaseFactor = 250
	MinEaseFactor     = 130
	MaxEaseFactor     = 300
)

// UserProgress 每个 (用户, 题目) 一行，记录作答历史与复习调度状态。
// IsCorrectEver 一旦为 true 永不回退。
// swagger:model UserProgress
type UserProgress struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_question,priority:1" json:"userId"`
	QuestionID      uint       `gorm:"not null;uniqueIndex:idx_user_question,priority:2;index" json:"questionId"`
	IsCorrectEver   bool       `gorm:"not null;default:false" json:"isCorrectEver"`
	LastCorrect     bool       `gorm:"not null;default:false" json:"lastCorrect"`
	Attempts        int        `gorm:"not null;default:1" json:"attempts"`
	AnsweredAt      time.Time  `json:"answeredAt"`
	LastAttemptedAt time.Time  `gorm:"index" json:"lastAttemptedAt"`
	NextReviewAt    *time.Time `gorm:"index" json:"nextReviewAt"`
	EaseFactor      int        `gorm:"not null;default:250" json:"easeFactor"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
