package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	// MinLessonQuestions 完成一节课至少需要的题目数
	MinLessonQuestions = 5
	// MaxAnswerLength 提交答案的最大长度
	MaxAnswerLength = 500
)
