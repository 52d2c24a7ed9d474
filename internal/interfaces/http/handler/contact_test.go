package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	contactapp "github.com/erp/website/internal/application/contact"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/interfaces/http/dto"
	"github.com/erp/website/internal/testutil"
)

var salesInbox = notification.Address{Name: "Sales", Email: "sales@erp.example.com"}

func contactEngine(mailer notification.Mailer) http.Handler {
	service := contactapp.NewService(mailer, testutil.StubRenderer{}, salesInbox, zap.NewNop())
	return newEngine(http.MethodPost, "/api/contact", NewContactHandler(service).Submit)
}

func contactBody() map[string]any {
	return map[string]any{
		"name":    "Ana Pop",
		"email":   "ana@acme.ro",
		"company": "Acme Software SRL",
		"message": "We would like a demo.",
	}
}

func TestContactHandler_Submit(t *testing.T) {
	mailer := new(testutil.MockMailer)
	mailer.On("Send", mock.Anything, testutil.MessageTo(notification.TemplateContactNotification, "sales@erp.example.com")).Return(nil)
	mailer.On("Send", mock.Anything, testutil.MessageTo(notification.TemplateContactAutoReply, "ana@acme.ro")).Return(nil)

	w := testutil.Serve(contactEngine(mailer), testutil.NewJSONRequest(t, http.MethodPost, "/api/contact", contactBody()))

	data := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, true, data["auto_reply_sent"])
	assert.NotEmpty(t, data["message"])
	mailer.AssertExpectations(t)
}

func TestContactHandler_Submit_Honeypot(t *testing.T) {
	mailer := new(testutil.MockMailer)
	body := contactBody()
	body["website"] = "http://spam.example"

	w := testutil.Serve(contactEngine(mailer), testutil.NewJSONRequest(t, http.MethodPost, "/api/contact", body))

	data := testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.NotEmpty(t, data["message"])
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactHandler_Submit_Validation(t *testing.T) {
	mailer := new(testutil.MockMailer)
	body := contactBody()
	delete(body, "message")
	body["email"] = "nope"

	w := testutil.Serve(contactEngine(mailer), testutil.NewJSONRequest(t, http.MethodPost, "/api/contact", body))

	errInfo := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	assert.Len(t, errInfo["details"], 2)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactHandler_Submit_DeliveryFailure(t *testing.T) {
	mailer := new(testutil.MockMailer)
	mailer.On("Send", mock.Anything, mock.Anything).Return(fmt.Errorf("%w: HTTP 500", notification.ErrDeliveryFailed))

	w := testutil.Serve(contactEngine(mailer), testutil.NewJSONRequest(t, http.MethodPost, "/api/contact", contactBody()))

	testutil.AssertErrorResponse(t, w, http.StatusBadGateway, dto.ErrCodeUpstream)
}

func TestContactHandler_Submit_NotConfigured(t *testing.T) {
	w := testutil.Serve(contactEngine(nil), testutil.NewJSONRequest(t, http.MethodPost, "/api/contact", contactBody()))

	testutil.AssertErrorResponse(t, w, http.StatusServiceUnavailable, dto.ErrCodeUpstreamUnavailable)
}
