package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldDiacritics(t *testing.T) {
	assert.Equal(t, "Stefan Taranu", FoldDiacritics("Ștefan Ţăranu"))
	assert.Equal(t, "Iasi si Brasov", FoldDiacritics("Iași și Brașov"))
	assert.Equal(t, "plain", FoldDiacritics("plain"))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Acme SRL":                 "acme-srl",
		"  Fabrica de Pâine S.A. ": "fabrica-de-paine-s-a",
		"Țesătoria #1 -- Sibiu":    "tesatoria-1-sibiu",
		"!!!":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}
