package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/website/internal/interfaces/http/dto"
)

type validationTestRequest struct {
	Email   string   `json:"email" binding:"required,email"`
	Name    string   `json:"name" binding:"required,max=10"`
	CUI     string   `json:"cui" binding:"omitempty,cui"`
	Country string   `json:"country" binding:"omitempty,country_code"`
	Modules []string `json:"modules" binding:"max=2"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req validationTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func postJSON(router *gin.Engine, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("valid request passes", func(t *testing.T) {
		w, _ := postJSON(router, `{"email":"ana@example.com","name":"Ana","cui":"RO18547290","country":"ro"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("field errors use json names", func(t *testing.T) {
		w, resp := postJSON(router, `{"email":"invalid","name":"a very long name","cui":"123","country":"ROU","modules":["a","b","c"]}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		byField := map[string]dto.ValidationDetail{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d
		}
		assert.Equal(t, "email must be a valid email address", byField["email"].Message)
		assert.Equal(t, "name must be at most 10 characters", byField["name"].Message)
		assert.Equal(t, "cui", byField["cui"].Tag)
		assert.Equal(t, "country must be a two letter country code", byField["country"].Message)
		assert.Equal(t, "modules must have at most 2 items", byField["modules"].Message)
	})

	t.Run("missing required fields", func(t *testing.T) {
		w, resp := postJSON(router, `{}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, resp := postJSON(router, `{"email":`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	})

	t.Run("wrong type", func(t *testing.T) {
		w, resp := postJSON(router, `{"email":"ana@example.com","name":42}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "name")
	})
}
