package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/grading"
	"github.com/vytor/lingoflash/internal/llm"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

const (
	defaultExerciseListLimit = 20
	maxExerciseListLimit     = 100
)

// ExerciseService creates and serves exercises
type ExerciseService interface {
	Generate(ctx context.Context, userID string, exType models.ExerciseType) (*models.Exercise, error)
	Get(ctx context.Context, userID, id string) (*models.Exercise, error)
	List(ctx context.Context, userID string, limit int) ([]models.Exercise, error)
}

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	profileRepo  repository.ProfileRepository
	llm          llm.Provider
	intn         func(int) int
	now          func() time.Time
}

// NewExerciseService creates a new ExerciseService
func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	profileRepo repository.ProfileRepository,
	provider llm.Provider,
) ExerciseService {
	if provider == nil {
		provider = llm.Disabled{}
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		profileRepo:  profileRepo,
		llm:          provider,
		now:          time.Now,
	}
}

// Generate creates a new exercise of exType for the user. Content comes from
// the LLM when one is configured and its output validates; otherwise from
// the built-in catalog.
func (s *exerciseService) Generate(ctx context.Context, userID string, exType models.ExerciseType) (*models.Exercise, error) {
	log := logger.FromContext(ctx).WithPrefix("exercise_service")

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	if exType == "" {
		exType = models.ExerciseTranslate
	}
	if _, err := models.ParseExerciseType(string(exType)); err != nil {
		return nil, errors.NewValidationError("type", err.Error())
	}

	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	level, language := models.DefaultLevel, models.DefaultLanguage
	if profile != nil {
		level, language = profile.Level, profile.Language
	}

	ex, err := s.generateWithLLM(ctx, exType, level, language)
	if err != nil {
		log.Warn("LLM generation unavailable, using catalog: type=%s, error=%v", exType, err)
		tpl := pickTemplate(exType, level, s.intn)
		ex = &models.Exercise{
			Type:     tpl.Type,
			Prompt:   tpl.Prompt,
			Solution: tpl.Solution,
			Metadata: tpl.Metadata(level),
		}
	}
	ex.ID = uuid.NewString()
	ex.UserID = userID
	ex.CreatedAt = s.now()

	if err := s.exerciseRepo.Insert(ctx, *ex); err != nil {
		log.Error("failed to insert exercise: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("exercise generated: id=%s, type=%s, level=%s", ex.ID, ex.Type, level)
	return ex, nil
}

// generatedExercise is the JSON document the LLM is asked to return.
type generatedExercise struct {
	Prompt   string          `json:"prompt"`
	Solution string          `json:"solution"`
	Metadata json.RawMessage `json:"metadata"`
}

func (s *exerciseService) generateWithLLM(ctx context.Context, exType models.ExerciseType, level, language string) (*models.Exercise, error) {
	resp, err := s.llm.Generate(ctx, &llm.Request{
		System:      exerciseSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: exerciseUserPrompt(exType, level, language)}},
		MaxTokens:   400,
		Temperature: 0.8,
		JSON:        true,
	})
	if err != nil {
		return nil, err
	}
	return parseGeneratedExercise(exType, level, resp.Content)
}

func parseGeneratedExercise(exType models.ExerciseType, level, content string) (*models.Exercise, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var g generatedExercise
	if err := json.Unmarshal([]byte(content), &g); err != nil {
		return nil, fmt.Errorf("parse generated exercise: %w", err)
	}
	g.Prompt = strings.TrimSpace(g.Prompt)
	g.Solution = strings.TrimSpace(g.Solution)
	if g.Prompt == "" || g.Solution == "" {
		return nil, fmt.Errorf("generated exercise is missing prompt or solution")
	}

	meta, err := models.DecodeMetadata(exType, g.Metadata)
	if err != nil {
		return nil, err
	}
	if mc, ok := meta.(*models.MultipleChoiceMetadata); ok {
		if len(mc.Options) == 0 {
			return nil, fmt.Errorf("generated multiple choice has no options")
		}
		if grading.NormalizeChoiceLetter(g.Solution) == "" {
			return nil, fmt.Errorf("generated multiple choice solution %q is not a letter", g.Solution)
		}
	}
	if meta.Base().Level == "" {
		meta = withLevel(meta, level)
	}

	return &models.Exercise{
		Type:     exType,
		Prompt:   g.Prompt,
		Solution: g.Solution,
		Metadata: meta,
	}, nil
}

func withLevel(meta models.ExerciseMetadata, level string) models.ExerciseMetadata {
	switch m := meta.(type) {
	case *models.TranslateMetadata:
		m.Level = level
	case *models.FillBlankMetadata:
		m.Level = level
	case *models.MultipleChoiceMetadata:
		m.Level = level
	}
	return meta
}

const exerciseSystemPrompt = `You write short language-learning exercises for Polish speakers.
Reply with a single JSON object: {"prompt": string, "solution": string, "metadata": object}.
metadata may contain "level", "topic", "hint" and "solutions" (other correct answers).
For multiple_choice, metadata.options must be exactly four strings in A, B, C, D order and solution must be the letter of the correct option.`

func exerciseUserPrompt(exType models.ExerciseType, level, language string) string {
	var task string
	switch exType {
	case models.ExerciseTranslateEnPl:
		task = "a sentence to translate from the target language into Polish"
	case models.ExerciseFillBlank:
		task = "a sentence with one missing word marked ___; the solution is the missing word"
	case models.ExerciseMultipleChoice:
		task = "a sentence with a gap and four options to fill it"
	default:
		task = "a Polish sentence to translate into the target language"
	}
	return fmt.Sprintf("Type: %s. Target language: %s. CEFR level: %s. Write %s.", exType, language, level, task)
}

func (s *exerciseService) Get(ctx context.Context, userID, id string) (*models.Exercise, error) {
	log := logger.FromContext(ctx).WithPrefix("exercise_service")
	log.Debug("getting exercise: id=%s", id)

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}

	ex, err := s.exerciseRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get exercise: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if ex == nil {
		return nil, errors.NewNotFoundError("exercise", id)
	}
	if ex.UserID != userID {
		return nil, errors.NewForbiddenError("forbidden")
	}
	return ex, nil
}

func (s *exerciseService) List(ctx context.Context, userID string, limit int) ([]models.Exercise, error) {
	log := logger.FromContext(ctx).WithPrefix("exercise_service")

	if userID == "" {
		return nil, errors.NewUnauthorizedError("unauthorized")
	}
	if limit <= 0 {
		limit = defaultExerciseListLimit
	}
	if limit > maxExerciseListLimit {
		limit = maxExerciseListLimit
	}

	list, err := s.exerciseRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		log.Error("failed to list exercises: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if list == nil {
		list = []models.Exercise{}
	}
	return list, nil
}
