package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	QuestionKindVocabulary = "vocabulary"
	QuestionKindKanji      = "kanji"
	QuestionKindKana       = "kana"
)

const (
	ScriptHiragana = "hiragana"
	ScriptKatakana = "katakana"
	ScriptKanji    = "kanji"
	ScriptMixed    = "mixed"
)

// StringList 以 JSON 数组形式存储的字符串列表
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringList", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// Contains 判断列表中是否存在 s
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Question 题目，仅由导入/种子数据创建
// swagger:model Question
type Question struct {
	BaseModel

	LevelID       uint       `gorm:"index;not null" json:"levelId"`
	Kind          string     `gorm:"size:20;not null;default:'vocabulary'" json:"kind"`
	Script        string     `gorm:"size:20;not null;default:'mixed'" json:"script"`
	Prompt        string     `gorm:"type:text;not null" json:"prompt"`
	Reading       string     `gorm:"size:255" json:"reading,omitempty"`
	CorrectAnswer string     `gorm:"size:255;not null" json:"-"`
	Options       StringList `gorm:"type:text;not null" json:"options"`
}

func (Question) TableName() string {
	return "questions"
}
