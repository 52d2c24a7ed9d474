package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/notification"
)

func testMessage() *notification.Message {
	return &notification.Message{
		To:       []notification.Address{{Name: "Sales", Email: "sales@example.com"}},
		ReplyTo:  &notification.Address{Name: "Ion", Email: "ion@example.com"},
		Subject:  "Contact: Ion",
		HTML:     "<p>Hi</p>",
		Text:     "Hi",
		Template: notification.TemplateContactNotification,
	}
}

func newSendGridServer(t *testing.T, status int, captured *map[string]any, auth *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}
		w.WriteHeader(status)
		if status >= 400 {
			_, _ = w.Write([]byte(`{"errors":[{"message":"bad"}]}`))
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func sendGridConfig(host string) *Config {
	return &Config{
		Provider: ProviderSendGrid,
		From:     notification.Address{Name: "Nordic ERP", Email: "no-reply@example.com"},
		SendGrid: SendGridConfig{APIKey: "SG.test", Host: host, Categories: []string{"website"}},
	}
}

func TestSendGridMailer_Send(t *testing.T) {
	var body map[string]any
	var auth string
	server := newSendGridServer(t, http.StatusAccepted, &body, &auth)

	mailer, err := NewMailer(sendGridConfig(server.URL), server.Client(), zap.NewNop(), nil)
	require.NoError(t, err)
	require.IsType(t, &SendGridMailer{}, mailer)

	require.NoError(t, mailer.Send(context.Background(), testMessage()))

	assert.Equal(t, "Bearer SG.test", auth)
	assert.Equal(t, "Contact: Ion", body["subject"])
	assert.Equal(t, map[string]any{"name": "Nordic ERP", "email": "no-reply@example.com"}, body["from"])
	assert.Equal(t, map[string]any{"name": "Ion", "email": "ion@example.com"}, body["reply_to"])
	assert.Equal(t, []any{"website", "contact_notification"}, body["categories"])

	content := body["content"].([]any)
	require.Len(t, content, 2)
	assert.Equal(t, "text/plain", content[0].(map[string]any)["type"])
	assert.Equal(t, "text/html", content[1].(map[string]any)["type"])

	personalizations := body["personalizations"].([]any)
	to := personalizations[0].(map[string]any)["to"].([]any)
	assert.Equal(t, "sales@example.com", to[0].(map[string]any)["email"])
}

func TestSendGridMailer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: notification.ErrProviderAuth},
		{name: "forbidden", status: http.StatusForbidden, wantErr: notification.ErrProviderAuth},
		{name: "bad request", status: http.StatusBadRequest, wantErr: notification.ErrDeliveryFailed},
		{name: "server error", status: http.StatusInternalServerError, wantErr: notification.ErrDeliveryFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newSendGridServer(t, tt.status, nil, nil)
			mailer := NewSendGridMailer(sendGridConfig(server.URL), server.Client(), zap.NewNop(), nil)

			err := mailer.Send(context.Background(), testMessage())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSendGridMailer_RejectsInvalidMessage(t *testing.T) {
	mailer := NewSendGridMailer(sendGridConfig("http://sendgrid.invalid"), http.DefaultClient, zap.NewNop(), nil)
	msg := testMessage()
	msg.To = nil
	assert.ErrorIs(t, mailer.Send(context.Background(), msg), notification.ErrNoRecipients)
}
