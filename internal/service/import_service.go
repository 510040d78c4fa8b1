package service

import (
	"context"
	"fmt"
	"io"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/repository"
	"nihongolab_backend/internal/util"
	"nihongolab_backend/pkg/logger"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	LevelsSheet     = "levels"
	QuestionsSheet  = "questions"
	VocabularySheet = "vocabulary"
	optionSep       = "|"
)

// DefaultLevels JLPT N5 到 N1 的默认升级门槛
var DefaultLevels = []model.Level{
	{Name: "N5", Rank: 1, RequiredExperience: 100},
	{Name: "N4", Rank: 2, RequiredExperience: 200},
	{Name: "N3", Rank: 3, RequiredExperience: 400},
	{Name: "N2", Rank: 4, RequiredExperience: 800},
	{Name: "N1", Rank: 5, RequiredExperience: 1600},
}

type ImportResult struct {
	LevelsUpserted     int `json:"levelsUpserted"`
	QuestionsCreated   int `json:"questionsCreated"`
	VocabularyUpserted int `json:"vocabularyUpserted"`
}

type ImportService struct {
	DB             *gorm.DB
	LevelRepo      *repository.LevelRepository
	QuestionRepo   *repository.QuestionRepository
	VocabularyRepo *repository.VocabularyRepository
}

func NewImportService(
	db *gorm.DB,
	levelRepo *repository.LevelRepository,
	questionRepo *repository.QuestionRepository,
	vocabularyRepo *repository.VocabularyRepository,
) *ImportService {
	return &ImportService{DB: db, LevelRepo: levelRepo, QuestionRepo: questionRepo, VocabularyRepo: vocabularyRepo}
}

// SeedDefaultLevels 等级表为空时写入默认等级
func (s *ImportService) SeedDefaultLevels(ctx context.Context) (int, error) {
	n, err := s.LevelRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		levels := s.LevelRepo.WithTx(tx)
		for _, l := range DefaultLevels {
			level := l
			if _, err := levels.Upsert(ctx, &level); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.LevelRepo.InvalidateCache(ctx)
	return len(DefaultLevels), nil
}

// sheetRows 读取工作表，按表头名返回每行的列映射，跳过空行
func sheetRows(f *excelize.File, sheet string) ([]map[string]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(header))
		empty := true
		for i, name := range header {
			if i < len(row) {
				v := strings.TrimSpace(row[i])
				rec[name] = v
				if v != "" {
					empty = false
				}
			}
		}
		if !empty {
			out = append(out, rec)
		}
	}
	return out, nil
}

func parseLevelRow(row map[string]string, line int) (model.Level, error) {
	name := row["name"]
	if name == "" {
		return model.Level{}, util.NewValidation(fmt.Sprintf("levels row %d", line), "name is required")
	}
	rank, err := strconv.Atoi(row["rank"])
	if err != nil {
		return model.Level{}, util.NewValidation(fmt.Sprintf("levels row %d", line), "rank must be an integer")
	}
	required, err := strconv.Atoi(row["required_experience"])
	if err != nil || required <= 0 {
		return model.Level{}, util.NewValidation(fmt.Sprintf("levels row %d", line), "required_experience must be a positive integer")
	}
	return model.Level{Name: name, Rank: rank, RequiredExperience: required}, nil
}

func parseQuestionRow(row map[string]string, line int, levelIDs map[string]uint) (model.Question, error) {
	field := fmt.Sprintf("questions row %d", line)

	levelID, ok := levelIDs[row["level"]]
	if !ok {
		return model.Question{}, util.NewValidation(field, fmt.Sprintf("unknown level %q", row["level"]))
	}
	if row["prompt"] == "" || row["correct_answer"] == "" {
		return model.Question{}, util.NewValidation(field, "prompt and correct_answer are required")
	}

	var options model.StringList
	for _, opt := range strings.Split(row["options"], optionSep) {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	if len(options) < 2 {
		return model.Question{}, util.NewValidation(field, "at least 2 options are required")
	}
	if !options.Contains(row["correct_answer"]) {
		return model.Question{}, util.NewValidation(field, "options must contain the correct answer")
	}

	kind := row["kind"]
	switch kind {
	case "":
		kind = model.QuestionKindVocabulary
	case model.QuestionKindVocabulary, model.QuestionKindKanji, model.QuestionKindKana:
	default:
		return model.Question{}, util.NewValidation(field, fmt.Sprintf("unknown kind %q", kind))
	}

	script := row["script"]
	switch script {
	case "":
		script = model.ScriptMixed
	case model.ScriptHiragana, model.ScriptKatakana, model.ScriptKanji, model.ScriptMixed:
	default:
		return model.Question{}, util.NewValidation(field, fmt.Sprintf("unknown script %q", script))
	}

	return model.Question{
		LevelID:       levelID,
		Kind:          kind,
		Script:        script,
		Prompt:        row["prompt"],
		Reading:       row["reading"],
		CorrectAnswer: row["correct_answer"],
		Options:       options,
	}, nil
}

func parseVocabularyRow(row map[string]string, line int, levelIDs map[string]uint) (model.Vocabulary, error) {
	field := fmt.Sprintf("vocabulary row %d", line)

	levelID, ok := levelIDs[row["level"]]
	if !ok {
		return model.Vocabulary{}, util.NewValidation(field, fmt.Sprintf("unknown level %q", row["level"]))
	}
	if row["word"] == "" || row["reading"] == "" || row["meaning"] == "" {
		return model.Vocabulary{}, util.NewValidation(field, "word, reading and meaning are required")
	}
	pos := row["part_of_speech"]
	if pos != "" && !model.IsPartOfSpeech(pos) {
		return model.Vocabulary{}, util.NewValidation(field, fmt.Sprintf("unknown part_of_speech %q", pos))
	}

	return model.Vocabulary{
		LevelID:      levelID,
		Word:         row["word"],
		Reading:      row["reading"],
		Meaning:      row["meaning"],
		Category:     row["category"],
		PartOfSpeech: pos,
	}, nil
}

// ImportWorkbook 从 xlsx 导入等级、题目与词汇。任一行不合法则整体回滚。
func (s *ImportService) ImportWorkbook(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var levelRows, questionRows, vocabularyRows []map[string]string
	if idx, _ := f.GetSheetIndex(LevelsSheet); idx >= 0 {
		if levelRows, err = sheetRows(f, LevelsSheet); err != nil {
			return nil, err
		}
	}
	if idx, _ := f.GetSheetIndex(QuestionsSheet); idx >= 0 {
		if questionRows, err = sheetRows(f, QuestionsSheet); err != nil {
			return nil, err
		}
	}

	if idx, _ := f.GetSheetIndex(VocabularySheet); idx >= 0 {
		if vocabularyRows, err = sheetRows(f, VocabularySheet); err != nil {
			return nil, err
		}
	}

	parsedLevels := make([]model.Level, 0, len(levelRows))
	for i, row := range levelRows {
		level, err := parseLevelRow(row, i+2)
		if err != nil {
			return nil, err
		}
		parsedLevels = append(parsedLevels, level)
	}

	result := &ImportResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		levels := s.LevelRepo.WithTx(tx)
		for i := range parsedLevels {
			if _, err := levels.Upsert(ctx, &parsedLevels[i]); err != nil {
				return err
			}
			result.LevelsUpserted++
		}

		var all []model.Level
		if err := tx.WithContext(ctx).Find(&all).Error; err != nil {
			return err
		}
		levelIDs := make(map[string]uint, len(all))
		for _, l := range all {
			levelIDs[l.Name] = l.ID
		}

		questions := make([]model.Question, 0, len(questionRows))
		for i, row := range questionRows {
			q, err := parseQuestionRow(row, i+2, levelIDs)
			if err != nil {
				return err
			}
			questions = append(questions, q)
		}
		if err := s.QuestionRepo.WithTx(tx).Create(ctx, questions); err != nil {
			return err
		}
		result.QuestionsCreated = len(questions)

		vocabulary := make([]model.Vocabulary, 0, len(vocabularyRows))
		for i, row := range vocabularyRows {
			v, err := parseVocabularyRow(row, i+2, levelIDs)
			if err != nil {
				return err
			}
			vocabulary = append(vocabulary, v)
		}
		if err := s.VocabularyRepo.WithTx(tx).Upsert(ctx, vocabulary); err != nil {
			return err
		}
		result.VocabularyUpserted = len(vocabulary)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LevelRepo.InvalidateCache(ctx)
	logger.Log.Info("题库导入完成",
		zap.Int("levels", result.LevelsUpserted),
		zap.Int("questions", result.QuestionsCreated),
		zap.Int("vocabulary", result.VocabularyUpserted),
	)
	return result, nil
}
