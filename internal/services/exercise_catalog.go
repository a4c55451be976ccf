package services

import (
	"math/rand/v2"

	"github.com/vytor/lingoflash/internal/models"
)

// exerciseTemplate is built-in content served when no LLM is available.
type exerciseTemplate struct {
	Level    string
	Type     models.ExerciseType
	Prompt   string
	Solution string
	Metadata func(level string) models.ExerciseMetadata
}

func translateMeta(topic string, alternates ...string) func(string) models.ExerciseMetadata {
	return func(level string) models.ExerciseMetadata {
		return &models.TranslateMetadata{
			MetadataBase: models.MetadataBase{Level: level, Topic: topic},
			Solutions:    alternates,
		}
	}
}

func fillBlankMeta(topic string, alternates ...string) func(string) models.ExerciseMetadata {
	return func(level string) models.ExerciseMetadata {
		return &models.FillBlankMetadata{
			MetadataBase: models.MetadataBase{Level: level, Topic: topic},
			Solutions:    alternates,
		}
	}
}

func choiceMeta(topic string, options ...string) func(string) models.ExerciseMetadata {
	return func(level string) models.ExerciseMetadata {
		return &models.MultipleChoiceMetadata{
			MetadataBase: models.MetadataBase{Level: level, Topic: topic},
			Options:      options,
		}
	}
}

var exerciseCatalog = []exerciseTemplate{
	{Level: "A1", Type: models.ExerciseTranslate, Prompt: "Przetłumacz na angielski: „Mam samochód.”", Solution: "I have a car.", Metadata: translateMeta("daily", "I've got a car.")},
	{Level: "A1", Type: models.ExerciseTranslate, Prompt: "Przetłumacz na angielski: „Lubię kawę.”", Solution: "I like coffee.", Metadata: translateMeta("daily")},
	{Level: "A1", Type: models.ExerciseTranslate, Prompt: "Przetłumacz na angielski: „To jest mój dom.”", Solution: "This is my house.", Metadata: translateMeta("daily", "This is my home.")},
	{Level: "A2", Type: models.ExerciseTranslate, Prompt: "Przetłumacz na angielski: „Wczoraj poszedłem do sklepu.”", Solution: "Yesterday I went to the shop.", Metadata: translateMeta("past", "I went to the shop yesterday.", "Yesterday I went to the store.")},
	{Level: "A1", Type: models.ExerciseTranslateEnPl, Prompt: "Translate into Polish: \"I have a dog.\"", Solution: "Mam psa.", Metadata: translateMeta("daily")},
	{Level: "A2", Type: models.ExerciseTranslateEnPl, Prompt: "Translate into Polish: \"We are going home.\"", Solution: "Idziemy do domu.", Metadata: translateMeta("daily")},
	{Level: "A1", Type: models.ExerciseFillBlank, Prompt: "Uzupełnij zdanie: I ___ a car.", Solution: "have", Metadata: fillBlankMeta("grammar", "have got")},
	{Level: "A1", Type: models.ExerciseFillBlank, Prompt: "Uzupełnij zdanie: She ___ a teacher.", Solution: "is", Metadata: fillBlankMeta("grammar", "'s")},
	{Level: "A2", Type: models.ExerciseFillBlank, Prompt: "Uzupełnij zdanie: Yesterday we ___ to the cinema.", Solution: "went", Metadata: fillBlankMeta("past")},
	{Level: "A1", Type: models.ExerciseMultipleChoice, Prompt: "Wybierz poprawne słowo: I ___ coffee every morning.", Solution: "B", Metadata: choiceMeta("grammar", "drinks", "drink", "drinking", "drank")},
	{Level: "A2", Type: models.ExerciseMultipleChoice, Prompt: "Wybierz poprawną formę: Last year she ___ to Spain.", Solution: "C", Metadata: choiceMeta("past", "go", "goes", "went", "gone")},
}

// pickTemplate chooses a catalog entry for exType, preferring the learner's
// level and falling back to any level. The translate stub always exists.
func pickTemplate(exType models.ExerciseType, level string, intn func(int) int) exerciseTemplate {
	var exact, anyLevel []exerciseTemplate
	for _, t := range exerciseCatalog {
		if t.Type != exType {
			continue
		}
		anyLevel = append(anyLevel, t)
		if t.Level == level {
			exact = append(exact, t)
		}
	}

	pool := exact
	if len(pool) == 0 {
		pool = anyLevel
	}
	if len(pool) == 0 {
		return exerciseCatalog[0]
	}
	if intn == nil {
		intn = rand.IntN
	}
	return pool[intn(len(pool))]
}
