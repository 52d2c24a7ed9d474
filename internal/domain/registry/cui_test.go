package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCUI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    CUI
		wantErr bool
	}{
		{name: "bare digits", input: "18547290", want: "18547290"},
		{name: "RO prefix", input: "RO14399840", want: "14399840"},
		{name: "lowercase prefix with spaces", input: " ro 16341004 ", want: "16341004"},
		{name: "dotted", input: "13.548.146", want: "13548146"},
		{name: "short code", input: "27", want: "27"},
		{name: "seven digits", input: "6859662", want: "6859662"},
		{name: "bad control digit", input: "18547291", wantErr: true},
		{name: "too short", input: "7", wantErr: true},
		{name: "too long", input: "12345678901", wantErr: true},
		{name: "letters", input: "12A45", wantErr: true},
		{name: "leading zero", input: "018547290", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "prefix only", input: "RO", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCUI(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCUI)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCUI_VATCode(t *testing.T) {
	cui := CUI("18547290")
	assert.Equal(t, "RO18547290", cui.VATCode())
	assert.Equal(t, "18547290", cui.String())

	c := &Company{CUI: cui}
	assert.Equal(t, "18547290", c.VATCode())
	c.VATPayer = true
	assert.Equal(t, "RO18547290", c.VATCode())
}
