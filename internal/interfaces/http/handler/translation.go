package handler

import (
	"github.com/gin-gonic/gin"

	translationapp "github.com/erp/website/internal/application/translation"
	"github.com/erp/website/internal/domain/translation"
)

// TranslationHandler scores and analyzes translations
type TranslationHandler struct {
	BaseHandler
	translationService *translationapp.Service
}

// NewTranslationHandler creates a new TranslationHandler
func NewTranslationHandler(translationService *translationapp.Service) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
	}
}

// TranslationRequest is the body of both the score and the analyze endpoints
type TranslationRequest struct {
	SourceText     string `json:"source_text" binding:"required,max=10000" example:"Factura a fost emisă."`
	Translation    string `json:"translation" binding:"required,max=10000" example:"The invoice was issued."`
	SourceLanguage string `json:"source_language" binding:"omitempty,max=32" example:"ro"`
	TargetLanguage string `json:"target_language" binding:"required,max=32" example:"en"`
	Domain         string `json:"domain" binding:"max=100" example:"accounting"`
}

func (r *TranslationRequest) toDomain() translation.Request {
	return translation.Request{
		SourceText:     r.SourceText,
		Translation:    r.Translation,
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
		Domain:         r.Domain,
	}
}

// Score godoc
// @ID           scoreTranslation
// @Summary      Score a translation
// @Description  Rates a translation from 0 to 100 and lists its main issues
// @Tags         translation
// @Accept       json
// @Produce      json
// @Param        request body TranslationRequest true "Texts to compare"
// @Success      200 {object} APIResponse[translationapp.ScoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/translation/score [post]
func (h *TranslationHandler) Score(c *gin.Context) {
	var req TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	score, err := h.translationService.Score(c.Request.Context(), req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, score)
}

// Analyze godoc
// @ID           analyzeTranslation
// @Summary      Analyze a translation
// @Description  Scores accuracy, fluency, terminology and style and suggests rewrites
// @Tags         translation
// @Accept       json
// @Produce      json
// @Param        request body TranslationRequest true "Texts to compare"
// @Success      200 {object} APIResponse[translationapp.AnalysisResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/translation/analyze [post]
func (h *TranslationHandler) Analyze(c *gin.Context) {
	var req TranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	analysis, err := h.translationService.Analyze(c.Request.Context(), req.toDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, analysis)
}
