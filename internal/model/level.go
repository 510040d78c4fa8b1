package model

// Level JLPT 等级（N5…N1），按 Rank 升序构成完整的升级路径
// swagger:model Level
type Level struct {
	BaseModel

	Name               string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Rank               int    `gorm:"uniqueIndex;not null" json:"rank"`
	RequiredExperience int    `gorm:"not null" json:"requiredExperience"`
}

func (Level) TableName() string {
	return "levels"
}
