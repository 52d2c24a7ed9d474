package registry

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// openAPICompany is the body of GET /api/companies/{cui}
type openAPICompany struct {
	CIF                string   `json:"cif"`
	Name               string   `json:"denumire"`
	Address            string   `json:"adresa"`
	County             string   `json:"judet"`
	City               string   `json:"localitate"`
	PostalCode         string   `json:"cod_postal"`
	RegistrationNumber string   `json:"numar_reg_com"`
	Phone              string   `json:"telefon"`
	VAT                presence `json:"tva"`
	VATOnCollection    presence `json:"tva_la_incasare"`
	Deregistered       presence `json:"radiata"`
	LastProcessed      string   `json:"ultima_prelucrare"`
	Meta               struct {
		UpdatedAt string `json:"updated_at"`
	} `json:"meta"`
}

// presence decodes fields the API reports as a flag, a date, a list of
// periods or null. Anything non-empty and not false counts as set.
type presence bool

// UnmarshalJSON implements json.Unmarshaler
func (p *presence) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")),
		bytes.Equal(data, []byte(`""`)), bytes.Equal(data, []byte("[]")), bytes.Equal(data, []byte("{}")),
		bytes.Equal(data, []byte("0")):
		*p = false
	default:
		*p = true
	}
	return nil
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// lastUpdated picks the freshest timestamp the API reports
func (c *openAPICompany) lastUpdated() *time.Time {
	for _, s := range []string{c.Meta.UpdatedAt, c.LastProcessed} {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

func decodeCompany(data []byte) (*openAPICompany, error) {
	var c openAPICompany
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
