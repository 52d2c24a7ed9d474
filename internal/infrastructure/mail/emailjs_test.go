package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/website/internal/domain/notification"
)

func emailJSConfig(baseURL string) *Config {
	return &Config{
		Provider: ProviderEmailJS,
		From:     notification.Address{Name: "Nordic ERP", Email: "no-reply@example.com"},
		EmailJS: EmailJSConfig{
			ServiceID:  "service_1",
			TemplateID: "template_generic",
			Templates:  map[string]string{notification.TemplateWelcome: "template_welcome"},
			PublicKey:  "pub",
			PrivateKey: "priv",
			BaseURL:    baseURL,
		},
	}
}

func TestEmailJSMailer_Send(t *testing.T) {
	var got emailJSRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("OK"))
	}))
	defer server.Close()

	mailer, err := NewMailer(emailJSConfig(server.URL), server.Client(), zap.NewNop(), nil)
	require.NoError(t, err)

	msg := testMessage()
	msg.TemplateParams = map[string]string{"brand": "Nordic ERP"}
	require.NoError(t, mailer.Send(context.Background(), msg))

	assert.Equal(t, "service_1", got.ServiceID)
	assert.Equal(t, "template_generic", got.TemplateID)
	assert.Equal(t, "pub", got.UserID)
	assert.Equal(t, "priv", got.AccessToken)
	assert.Equal(t, "sales@example.com", got.TemplateParams["to_email"])
	assert.Equal(t, "ion@example.com", got.TemplateParams["reply_to"])
	assert.Equal(t, "<p>Hi</p>", got.TemplateParams["message_html"])
	assert.Equal(t, "Nordic ERP", got.TemplateParams["brand"])
}

func TestEmailJSMailer_TemplateMapping(t *testing.T) {
	m := NewEmailJSMailer(emailJSConfig("http://emailjs.invalid"), http.DefaultClient, zap.NewNop(), nil)

	msg := testMessage()
	msg.Template = notification.TemplateWelcome
	assert.Equal(t, "template_welcome", m.build(msg).TemplateID)

	msg.ReplyTo = nil
	assert.NotContains(t, m.build(msg).TemplateParams, "reply_to")
}

func TestEmailJSMailer_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("API calls are disabled for non-browser applications"))
	}))
	defer server.Close()

	m := NewEmailJSMailer(emailJSConfig(server.URL), server.Client(), zap.NewNop(), nil)
	assert.ErrorIs(t, m.Send(context.Background(), testMessage()), notification.ErrProviderAuth)

	server.Close()
	assert.ErrorIs(t, m.Send(context.Background(), testMessage()), notification.ErrDeliveryFailed)
}
