package model

const (
	PartOfSpeechNoun       = "noun"
	PartOfSpeechVerb       = "verb"
	PartOfSpeechAdjI       = "adj-i"
	PartOfSpeechAdjNa      = "adj-na"
	PartOfSpeechExpression = "expression"
)

// VocabularyOtherCategory 未分类词条的分组名
const VocabularyOtherCategory = "other"

// IsPartOfSpeech 判断 s 是否为支持的词性
func IsPartOfSpeech(s string) bool {
	switch s {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjI, PartOfSpeechAdjNa, PartOfSpeechExpression:
		return true
	}
	return false
}

// Vocabulary 词汇表条目，同一等级内按单词唯一，仅由导入创建
// swagger:model Vocabulary
type Vocabulary struct {
	BaseModel

	LevelID      uint   `gorm:"uniqueIndex:idx_vocabulary_level_word;not null" json:"levelId"`
	Word         string `gorm:"size:100;uniqueIndex:idx_vocabulary_level_word;not null" json:"word"`
	Reading      string `gorm:"size:100;not null" json:"reading"`
	Meaning      string `gorm:"size:255;not null" json:"meaning"`
	Category     string `gorm:"size:50;index" json:"category,omitempty"`
	PartOfSpeech string `gorm:"size:20;index" json:"partOfSpeech,omitempty"`
}

func (Vocabulary) TableName() string {
	return "vocabulary"
}
