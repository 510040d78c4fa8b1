package repository

import (
	"context"
	"nihongolab_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(items []model.Vocabulary) []string {
	out := make([]string, 0, len(items))
	for _, v := range items {
		out = append(out, v.Word)
	}
	return out
}

func TestVocabularyListFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewVocabularyRepository(db)
	n5 := seedLevel(t, db, "N5", 1, 100)
	n4 := seedLevel(t, db, "N4", 2, 200)

	require.NoError(t, repo.Upsert(ctx, []model.Vocabulary{
		{LevelID: n5.ID, Word: "水", Reading: "みず", Meaning: "Water", Category: "nature", PartOfSpeech: model.PartOfSpeechNoun},
		{LevelID: n5.ID, Word: "食べる", Reading: "たべる", Meaning: "to eat", Category: "food", PartOfSpeech: model.PartOfSpeechVerb},
		{LevelID: n5.ID, Word: "高い", Reading: "たかい", Meaning: "tall; expensive", PartOfSpeech: model.PartOfSpeechAdjI},
		{LevelID: n4.ID, Word: "水道", Reading: "すいどう", Meaning: "water supply", Category: "nature", PartOfSpeech: model.PartOfSpeechNoun},
	}))

	all, err := repo.List(ctx, VocabularyFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"水", "食べる", "高い", "水道"}, words(all))

	got, err := repo.List(ctx, VocabularyFilter{LevelID: &n5.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"水", "食べる", "高い"}, words(got))

	got, err = repo.List(ctx, VocabularyFilter{Category: "nature", PartOfSpeech: model.PartOfSpeechNoun, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"水", "水道"}, words(got))

	// 搜索不区分大小写，匹配单词、读音与释义
	got, err = repo.List(ctx, VocabularyFilter{Search: "WATER", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"水", "水道"}, words(got))
	got, err = repo.List(ctx, VocabularyFilter{Search: "たべ", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"食べる"}, words(got))

	got, err = repo.List(ctx, VocabularyFilter{Cursor: all[1].ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"高い", "水道"}, words(got))

	got, err = repo.List(ctx, VocabularyFilter{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"食べる", "高い"}, words(got))
}

func TestVocabularyUpsertUpdatesExisting(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewVocabularyRepository(db)
	n5 := seedLevel(t, db, "N5", 1, 100)

	require.NoError(t, repo.Upsert(ctx, []model.Vocabulary{{LevelID: n5.ID, Word: "山", Reading: "やま", Meaning: "hill"}}))
	require.NoError(t, repo.Upsert(ctx, []model.Vocabulary{{LevelID: n5.ID, Word: "山", Reading: "やま", Meaning: "mountain", Category: "nature"}}))

	got, err := repo.List(ctx, VocabularyFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mountain", got[0].Meaning)
	assert.Equal(t, "nature", got[0].Category)
}
