package models_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/models"
)

func TestParseExerciseType(t *testing.T) {
	got, err := models.ParseExerciseType(" fill_blank ")
	require.NoError(t, err)
	assert.Equal(t, models.ExerciseFillBlank, got)

	_, err = models.ParseExerciseType("essay")
	assert.Error(t, err)
}

func TestDecodeMetadata_Translate(t *testing.T) {
	meta, err := models.DecodeMetadata(models.ExerciseTranslate,
		[]byte(`{"level":"A2","solutions":["I have a car", 3, null, "I've got a car"],"hint":"mieć"}`))
	require.NoError(t, err)

	tm, ok := meta.(*models.TranslateMetadata)
	require.True(t, ok)
	assert.Equal(t, "A2", tm.Base().Level)
	assert.Equal(t, []string{"I have a car", "I've got a car"}, tm.AlternateSolutions())
	assert.Equal(t, "mieć", tm.Hint)
}

func TestDecodeMetadata_EmptyDocument(t *testing.T) {
	for _, raw := range []string{"", "null", "{}"} {
		meta, err := models.DecodeMetadata(models.ExerciseFillBlank, []byte(raw))
		require.NoError(t, err, raw)
		assert.Empty(t, meta.(*models.FillBlankMetadata).Solutions)
	}
}

func TestDecodeMetadata_ChoiceOptions(t *testing.T) {
	meta, err := models.DecodeMetadata(models.ExerciseMultipleChoice, []byte(`{"options":["a","b","c","d"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, meta.(*models.MultipleChoiceMetadata).Options)

	meta, err = models.DecodeMetadata(models.ExerciseMultipleChoice, []byte(`{"options":{"A":"go","b":"goes","C":"went","D":"gone"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "goes", "went", "gone"}, meta.(*models.MultipleChoiceMetadata).Options)

	_, err = models.DecodeMetadata(models.ExerciseMultipleChoice, []byte(`{"options":["a","b"]}`))
	assert.Error(t, err)

	_, err = models.DecodeMetadata(models.ExerciseMultipleChoice, []byte(`{"options":{"A":"x"}}`))
	assert.Error(t, err)
}

func TestDecodeMetadata_Errors(t *testing.T) {
	_, err := models.DecodeMetadata(models.ExerciseTranslate, []byte(`{not json`))
	assert.Error(t, err)

	_, err = models.DecodeMetadata(models.ExerciseType("essay"), []byte(`{}`))
	assert.Error(t, err)
}

func TestEncodeMetadata(t *testing.T) {
	b, err := models.EncodeMetadata(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	b, err = models.EncodeMetadata(&models.FillBlankMetadata{
		MetadataBase: models.MetadataBase{Level: "A1"},
		Solutions:    []string{"have"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"A1","solutions":["have"]}`, string(b))

	meta, err := models.DecodeMetadata(models.ExerciseFillBlank, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"have"}, meta.(*models.FillBlankMetadata).Solutions)
}

func TestClampDailyGoal(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{10, 10},
		{12.9, 12},
		{0, 1},
		{-5, 1},
		{0.5, 1},
		{100, 100},
		{250, 100},
		{math.NaN(), 1},
		{math.Inf(1), 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, models.ClampDailyGoal(tt.in), "input %v", tt.in)
	}
}

func TestDefaultProfile(t *testing.T) {
	p := models.DefaultProfile("u1")
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, "A1", p.Level)
	assert.Nil(t, p.Goal)
	assert.Equal(t, 10, p.DailyGoal)
}
