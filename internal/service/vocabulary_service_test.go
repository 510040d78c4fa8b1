package service

import (
	"context"
	"fmt"
	"nihongolab_backend/internal/model"
	"nihongolab_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) vocabulary(t *testing.T, levelIdx int, word, category, pos string) model.Vocabulary {
	t.Helper()
	v := model.Vocabulary{
		LevelID:      e.levels[levelIdx].ID,
		Word:         word,
		Reading:      "よみ" + word,
		Meaning:      "meaning of " + word,
		Category:     category,
		PartOfSpeech: pos,
	}
	require.NoError(t, e.db.Create(&v).Error)
	return v
}

func TestVocabularyGroupsByCategory(t *testing.T) {
	env := newTestEnv(t, 100, 200)
	ctx := context.Background()
	env.vocabulary(t, 0, "猫", "animals", model.PartOfSpeechNoun)
	env.vocabulary(t, 0, "走る", "", model.PartOfSpeechVerb)
	env.vocabulary(t, 0, "犬", "animals", model.PartOfSpeechNoun)
	env.vocabulary(t, 1, "経済", "society", model.PartOfSpeechNoun)

	page, err := env.words.List(ctx, VocabularyQuery{Level: "L0"})
	require.NoError(t, err)
	require.Len(t, page.Groups, 2)
	assert.Equal(t, "animals", page.Groups[0].Category)
	assert.Len(t, page.Groups[0].Items, 2)
	assert.Equal(t, model.VocabularyOtherCategory, page.Groups[1].Category)
	assert.Equal(t, 3, page.Meta.Count)
	assert.Equal(t, DefaultVocabularyLimit, page.Meta.Limit)
	assert.False(t, page.Meta.HasNext)
	assert.Nil(t, page.Meta.NextCursor)

	page, err = env.words.List(ctx, VocabularyQuery{PartOfSpeech: model.PartOfSpeechVerb})
	require.NoError(t, err)
	require.Len(t, page.Groups, 1)
	assert.Equal(t, "走る", page.Groups[0].Items[0].Word)
}

func TestVocabularyCursorPagination(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		env.vocabulary(t, 0, fmt.Sprintf("語%d", i), "", "")
	}

	var seen []string
	q := VocabularyQuery{Limit: 2}
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		page, err := env.words.List(ctx, q)
		require.NoError(t, err)
		for _, g := range page.Groups {
			for _, v := range g.Items {
				seen = append(seen, v.Word)
			}
		}
		if !page.Meta.HasNext {
			break
		}
		require.NotNil(t, page.Meta.NextCursor)
		q.Cursor = *page.Meta.NextCursor
	}
	assert.Equal(t, []string{"語0", "語1", "語2", "語3", "語4"}, seen)

	page, err := env.words.List(ctx, VocabularyQuery{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Count)
	assert.Equal(t, 4, page.Meta.Offset)
	assert.False(t, page.Meta.HasNext)
}

func TestVocabularyQueryValidation(t *testing.T) {
	env := newTestEnv(t, 100)
	ctx := context.Background()

	for _, q := range []VocabularyQuery{
		{Limit: 101},
		{Limit: -1},
		{Offset: -1},
		{PartOfSpeech: "adverb"},
	} {
		_, err := env.words.List(ctx, q)
		assert.True(t, util.IsValidation(err), "got %v", err)
	}

	_, err := env.words.List(ctx, VocabularyQuery{Level: "N9"})
	assert.True(t, util.IsNotFound(err))
	assert.EqualError(t, err, "Level not found")
}
