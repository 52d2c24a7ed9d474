// Package translation grades translations with a language model.
package translation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/shared"
	"github.com/erp/website/internal/domain/translation"
	"github.com/erp/website/internal/infrastructure/telemetry"
)

// ScoreResponse is the quick assessment returned to the website
type ScoreResponse struct {
	Score   int      `json:"score"`
	Verdict string   `json:"verdict"`
	Issues  []string `json:"issues"`
}

// SuggestionResponse is one proposed change
type SuggestionResponse struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

// AnalysisResponse is the detailed assessment returned to the website
type AnalysisResponse struct {
	OverallScore int                  `json:"overall_score"`
	Verdict      string               `json:"verdict"`
	Accuracy     int                  `json:"accuracy"`
	Fluency      int                  `json:"fluency"`
	Terminology  int                  `json:"terminology"`
	Style        int                  `json:"style"`
	Summary      string               `json:"summary"`
	Suggestions  []SuggestionResponse `json:"suggestions"`
}

// Service scores and analyses translations
type Service struct {
	completer translation.Completer
	logger    *zap.Logger
}

// NewService creates a new translation Service. completer may be nil when no
// model is configured.
func NewService(completer translation.Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger.With(zap.String("service", "translation"))}
}

// Score grades a translation from 0 to 100
func (s *Service) Score(ctx context.Context, req translation.Request) (*ScoreResponse, error) {
	reply, err := s.complete(ctx, &req, "score", scoreInstructions)
	if err != nil {
		return nil, err
	}

	score, err := parseScore(reply)
	if err != nil {
		s.logger.Error("Unparsable score reply", zap.Error(err))
		return nil, translate(err)
	}
	return &ScoreResponse{Score: score.Score, Verdict: string(score.Verdict), Issues: score.Issues}, nil
}

// Analyze returns a detailed assessment of a translation
func (s *Service) Analyze(ctx context.Context, req translation.Request) (*AnalysisResponse, error) {
	reply, err := s.complete(ctx, &req, "analyze", analyzeInstructions)
	if err != nil {
		return nil, err
	}

	analysis, err := parseAnalysis(reply)
	if err != nil {
		s.logger.Error("Unparsable analysis reply", zap.Error(err))
		return nil, translate(err)
	}

	resp := &AnalysisResponse{
		OverallScore: analysis.OverallScore,
		Verdict:      string(translation.VerdictFor(analysis.OverallScore)),
		Accuracy:     analysis.Accuracy,
		Fluency:      analysis.Fluency,
		Terminology:  analysis.Terminology,
		Style:        analysis.Style,
		Summary:      analysis.Summary,
		Suggestions:  make([]SuggestionResponse, 0, len(analysis.Suggestions)),
	}
	for _, sg := range analysis.Suggestions {
		resp.Suggestions = append(resp.Suggestions, SuggestionResponse(sg))
	}
	return resp, nil
}

func (s *Service) complete(ctx context.Context, req *translation.Request, method, instructions string) (string, error) {
	if err := req.Validate(); err != nil {
		return "", translate(err)
	}
	if s.completer == nil {
		return "", translate(translation.ErrNotConfigured)
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "translation", method,
		telemetry.SpanAttrLanguages, []string{req.SourceLanguage, req.TargetLanguage},
	)
	defer span.End()

	reply, err := s.completer.Complete(ctx, systemPrompt, buildPrompt(instructions, req))
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Translation model call failed",
			zap.String("target_language", req.TargetLanguage),
			zap.Error(err),
		)
		return "", translate(err)
	}
	return reply, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, translation.ErrEmptyText):
		return shared.InvalidInput("source text and translation are required")
	case errors.Is(err, translation.ErrTextTooLong):
		return shared.InvalidInput("texts are limited to 10000 characters")
	case errors.Is(err, translation.ErrMissingLanguage):
		return shared.InvalidInput("target language is required")
	case errors.Is(err, translation.ErrInvalidLanguage):
		return shared.InvalidInput("languages are limited to 32 characters")
	case errors.Is(err, translation.ErrNotConfigured):
		return shared.UpstreamUnavailable("Translation scoring is not configured", err)
	case errors.Is(err, translation.ErrModelAuth):
		return shared.UpstreamAuth("Language model rejected the service credentials", err)
	case errors.Is(err, translation.ErrModelRateLimited):
		return shared.RateLimited("Language model is busy, please retry later", err)
	case errors.Is(err, translation.ErrUnparsableReply):
		return shared.Upstream("Language model returned an unreadable answer", err)
	default:
		return shared.Upstream("Language model request failed", err)
	}
}
