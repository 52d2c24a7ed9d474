package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress_String(t *testing.T) {
	assert.Equal(t, "sales@example.com", Address{Email: "sales@example.com"}.String())
	assert.Equal(t, `"Ana Pop" <ana@example.com>`, Address{Name: "Ana Pop", Email: "ana@example.com"}.String())
}

func TestMessage_Validate(t *testing.T) {
	valid := func() *Message {
		return &Message{
			To:      []Address{{Email: "sales@example.com"}},
			Subject: "New contact request",
			Text:    "hello",
		}
	}

	tests := []struct {
		name    string
		mutate  func(m *Message)
		wantErr error
	}{
		{name: "valid", mutate: func(m *Message) {}},
		{name: "html only", mutate: func(m *Message) { m.Text = ""; m.HTML = "<p>hello</p>" }},
		{name: "no recipients", mutate: func(m *Message) { m.To = nil }, wantErr: ErrNoRecipients},
		{name: "bad recipient", mutate: func(m *Message) { m.To[0].Email = "not-an-email" }, wantErr: ErrInvalidAddress},
		{name: "header injection", mutate: func(m *Message) { m.To[0].Email = "a@b.c> x" }, wantErr: ErrInvalidAddress},
		{name: "bad reply-to", mutate: func(m *Message) { m.ReplyTo = &Address{Email: "nope"} }, wantErr: ErrInvalidAddress},
		{name: "no subject", mutate: func(m *Message) { m.Subject = "" }, wantErr: ErrEmptyMessage},
		{name: "no body", mutate: func(m *Message) { m.Text = "" }, wantErr: ErrEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)
			err := m.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
