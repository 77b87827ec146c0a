package services

import (
	"context"
	"strings"

	"github.com/BerylCAtieno/ask-relay/internal/config"
	"github.com/BerylCAtieno/ask-relay/internal/inference"
	"github.com/BerylCAtieno/ask-relay/internal/instruction"
	"github.com/BerylCAtieno/ask-relay/internal/models"
	"github.com/BerylCAtieno/ask-relay/internal/sheet"
	"github.com/BerylCAtieno/ask-relay/internal/utils"
)

const MsgNoQuestion = "No question provided"

type AskService interface {
	Ask(ctx context.Context, question string) (*models.AskResponse, error)
}

type askService struct {
	instructions instruction.Provider
	dispatcher   inference.Dispatcher
	logger       *utils.Logger
}

// NewService wires the pipeline from cfg. The instruction strategy is
// chosen here, once: a configured sheet source gets the live template.
func NewService(cfg *config.Config, logger *utils.Logger) (AskService, error) {
	source, err := sheet.NewSource(cfg)
	if err != nil {
		return nil, err
	}

	var instructions instruction.Provider
	if source != nil {
		logger.Info("Using spreadsheet context", "source", source.Name())
		instructions = instruction.NewSheetTemplate(sheet.NewBuilder(source, logger))
	} else {
		instructions = instruction.NewStatic(instruction.StaticText)
	}

	dispatcher := inference.NewGitHubClient(cfg, inference.NewErrorMapper(cfg.ClassifyErrors), logger)

	return NewAskService(instructions, dispatcher, logger), nil
}

func NewAskService(instructions instruction.Provider, dispatcher inference.Dispatcher, logger *utils.Logger) AskService {
	return &askService{
		instructions: instructions,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

func (s *askService) Ask(ctx context.Context, question string) (*models.AskResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, utils.NewBadRequestError(MsgNoQuestion)
	}

	// Fail before the sheet fetch when the credential is missing.
	if err := s.dispatcher.Validate(); err != nil {
		return nil, err
	}

	systemInstruction := s.instructions.SystemInstruction(ctx)

	answer, err := s.dispatcher.Complete(ctx, systemInstruction, question)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Question answered",
		"question_length", len(question),
		"answer_length", len(answer))

	return &models.AskResponse{Answer: answer}, nil
}
