// Package translation contains the translation quality bounded context:
// requests to grade a translation and the assessments returned for them.
package translation

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLength is the maximum number of characters accepted per text
	MaxTextLength = 10000
	// MaxLanguageLength bounds a language name or code, e.g. "pt-BR" or "Portuguese (Brazil)"
	MaxLanguageLength = 32
	// AutoDetect is the source language used when none is given
	AutoDetect = "auto"
)

var (
	ErrEmptyText        = errors.New("translation: source text and translation are required")
	ErrTextTooLong      = errors.New("translation: text exceeds maximum length")
	ErrMissingLanguage  = errors.New("translation: target language is required")
	ErrInvalidLanguage  = errors.New("translation: language is too long")
	ErrUnparsableReply  = errors.New("translation: model reply is not valid JSON")
	ErrModelUnavailable = errors.New("translation: model unavailable")
	ErrModelAuth        = errors.New("translation: model API key rejected")
	ErrModelRateLimited = errors.New("translation: model rate limited")
	ErrNotConfigured    = errors.New("translation: not configured")
)

// Request is a pair of texts to grade
type Request struct {
	SourceText     string
	Translation    string
	SourceLanguage string
	TargetLanguage string
	// Domain is optional subject matter context, e.g. "accounting"
	Domain string
}

// Validate checks presence and length of the texts and normalises languages
func (r *Request) Validate() error {
	r.SourceText = strings.TrimSpace(r.SourceText)
	r.Translation = strings.TrimSpace(r.Translation)
	if r.SourceText == "" || r.Translation == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(r.SourceText) > MaxTextLength || utf8.RuneCountInString(r.Translation) > MaxTextLength {
		return ErrTextTooLong
	}

	r.SourceLanguage = strings.TrimSpace(r.SourceLanguage)
	r.TargetLanguage = strings.TrimSpace(r.TargetLanguage)
	if r.SourceLanguage == "" {
		r.SourceLanguage = AutoDetect
	}
	if r.TargetLanguage == "" {
		return ErrMissingLanguage
	}
	if utf8.RuneCountInString(r.SourceLanguage) > MaxLanguageLength || utf8.RuneCountInString(r.TargetLanguage) > MaxLanguageLength {
		return ErrInvalidLanguage
	}
	return nil
}

// Verdict is a coarse label derived from a score
type Verdict string

const (
	VerdictExcellent Verdict = "excellent"
	VerdictGood      Verdict = "good"
	VerdictFair      Verdict = "fair"
	VerdictPoor      Verdict = "poor"
)

// VerdictFor maps a 0-100 score onto a verdict
func VerdictFor(score int) Verdict {
	switch {
	case score >= 90:
		return VerdictExcellent
	case score >= 75:
		return VerdictGood
	case score >= 50:
		return VerdictFair
	default:
		return VerdictPoor
	}
}

// ClampScore limits a score to 0..100
func ClampScore(score int) int {
	return max(0, min(100, score))
}

// Score is the quick assessment of a translation
type Score struct {
	Score   int
	Verdict Verdict
	Issues  []string
}

// Suggestion proposes a replacement for part of the translation
type Suggestion struct {
	Original   string
	Suggestion string
	Reason     string
}

// Analysis is the detailed assessment of a translation
type Analysis struct {
	OverallScore int
	Accuracy     int
	Fluency      int
	Terminology  int
	Style        int
	Summary      string
	Suggestions  []Suggestion
}

// Normalize clamps every score
func (a *Analysis) Normalize() {
	a.OverallScore = ClampScore(a.OverallScore)
	a.Accuracy = ClampScore(a.Accuracy)
	a.Fluency = ClampScore(a.Fluency)
	a.Terminology = ClampScore(a.Terminology)
	a.Style = ClampScore(a.Style)
}

// Completer sends a prompt to a language model and returns its text reply
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
