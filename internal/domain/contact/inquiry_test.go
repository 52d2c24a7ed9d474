package contact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/website/internal/domain/shared"
)

func TestInquiry_Validate(t *testing.T) {
	valid := func() *Inquiry {
		return &Inquiry{Name: "Ana", Email: " ANA@example.com", Message: "Please call me"}
	}

	t.Run("valid", func(t *testing.T) {
		i := valid()
		i.Normalize()
		require.NoError(t, i.Validate())
		assert.Equal(t, "ana@example.com", i.Email)
	})

	tests := []struct {
		name   string
		mutate func(i *Inquiry)
	}{
		{name: "missing name", mutate: func(i *Inquiry) { i.Name = "" }},
		{name: "bad email", mutate: func(i *Inquiry) { i.Email = "ana@" }},
		{name: "missing message", mutate: func(i *Inquiry) { i.Message = " " }},
		{name: "long message", mutate: func(i *Inquiry) { i.Message = strings.Repeat("x", MaxMessageLength+1) }},
		{name: "multiline subject", mutate: func(i *Inquiry) { i.Subject = "hi\r\nBcc: x@y.z" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := valid()
			tt.mutate(i)
			i.Normalize()
			assert.ErrorIs(t, i.Validate(), shared.ErrInvalidInput)
		})
	}
}

func TestInquiry_SubjectLineAndSpam(t *testing.T) {
	i := &Inquiry{Name: "Ana"}
	assert.Equal(t, "Contact: Ana", i.SubjectLine())
	i.Company = "Acme"
	assert.Equal(t, "Contact: Ana (Acme)", i.SubjectLine())
	i.Subject = "Pricing"
	assert.Equal(t, "Contact: Pricing", i.SubjectLine())

	assert.False(t, i.IsSpam())
	i.Honeypot = "http://spam.example"
	assert.True(t, i.IsSpam())
}
