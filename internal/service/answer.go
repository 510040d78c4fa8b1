package service

import (
	"nihongolab_backend/internal/util"
	"strings"
	"time"
)

// AnswersMatch 去除首尾空白后精确比较，大小写敏感
func AnswersMatch(correct, submitted string) bool {
	return strings.TrimSpace(correct) == strings.TrimSpace(submitted)
}

func validateAnswer(answer string) error {
	if len([]rune(answer)) > util.MaxAnswerLength {
		return util.NewValidation("answer", "answer is too long")
	}
	return nil
}

func defaultNow() time.Time {
	return time.Now().UTC()
}
