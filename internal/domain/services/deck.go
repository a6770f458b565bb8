package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// updateKeywords route a prompt to the update interpreter when the caller
// already holds a deck. "update" routes there too but matches no rule.
var updateKeywords = []string{"add", "insert", "remove", "delete", "change", "modify", "update"}

// DeckService implements ports.DeckService
type DeckService struct {
	generator   *DeckGenerator
	interpreter *UpdateInterpreter
	logger      *zap.Logger
}

// NewDeckService creates a new deck service
func NewDeckService(generator *DeckGenerator, interpreter *UpdateInterpreter, logger *zap.Logger) *DeckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeckService{
		generator:   generator,
		interpreter: interpreter,
		logger:      logger.Named("deck"),
	}
}

// Generate validates req and either edits req.Existing or generates a new
// deck. Faults during assembly are returned as ErrGenerationFailure.
func (s *DeckService) Generate(ctx context.Context, req ports.GenerateRequest) (result *ports.GenerateResult, err error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", entities.ErrInvalidInput)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrGenerationFailure, err)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("deck assembly panicked", zap.Any("panic", r), zap.String("prompt", req.Prompt))
			result = nil
			err = fmt.Errorf("%w: %v", entities.ErrGenerationFailure, r)
		}
	}()

	if len(req.Existing) > 0 && isUpdatePrompt(req.Prompt) {
		slides, action := s.interpreter.Apply(req.Prompt, req.Existing)
		s.logger.Debug("applied update",
			zap.String("action", string(action)),
			zap.Int("slides_before", len(req.Existing)),
			zap.Int("slides_after", len(slides)),
		)
		return &ports.GenerateResult{Slides: slides, Mode: ports.ModeUpdate, Action: string(action)}, nil
	}

	topic, slides := s.generator.GenerateFromPrompt(req.Prompt)
	s.logger.Debug("generated deck", zap.String("topic", topic), zap.Int("slides", len(slides)))

	return &ports.GenerateResult{Slides: slides, Mode: ports.ModeGenerate, Topic: topic}, nil
}

func isUpdatePrompt(prompt string) bool {
	return containsAny(updateKeywords...)(strings.ToLower(prompt))
}

var _ ports.DeckService = (*DeckService)(nil)
