package odoo

import (
	"context"
	"fmt"
	"strings"

	"github.com/erp/website/internal/domain/erp"
)

// Gateway adapts Client to the erp.Gateway port
type Gateway struct {
	client *Client
}

// NewGateway creates an erp.Gateway backed by client
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// Connect authenticates and returns a request scoped session
func (g *Gateway) Connect(ctx context.Context) (erp.Session, error) {
	session, err := g.client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Ping returns the server version
func (g *Gateway) Ping(ctx context.Context) (string, error) {
	info, err := g.client.Version(ctx)
	if err != nil {
		return "", err
	}
	return info.ServerVersion, nil
}

// FindCountryID resolves an ISO country code to a res.country ID
func (s *Session) FindCountryID(ctx context.Context, isoCode string) (int64, bool, error) {
	code := strings.ToUpper(strings.TrimSpace(isoCode))
	if code == "" {
		return 0, false, nil
	}
	ids, err := s.Search(ctx, ModelCountry, Where("code", "=", code), &Options{Limit: 1})
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// ResolveReferences maps "module.name" external identifiers to record IDs
func (s *Session) ResolveReferences(ctx context.Context, xmlids ...string) ([]int64, error) {
	ids := make([]int64, 0, len(xmlids))
	for _, xmlid := range xmlids {
		module, name, ok := strings.Cut(xmlid, ".")
		if !ok || module == "" || name == "" {
			return nil, fmt.Errorf("%w: malformed external id %q", erp.ErrReferenceNotFound, xmlid)
		}

		records, err := s.SearchRead(ctx, ModelModelData,
			Where("module", "=", module).And("name", "=", name),
			[]string{"res_id"},
			&Options{Limit: 1},
		)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %s", erp.ErrReferenceNotFound, xmlid)
		}
		id, err := asID(records[0]["res_id"])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreatePartner creates a res.partner record
func (s *Session) CreatePartner(ctx context.Context, p erp.PartnerRecord) (int64, error) {
	v := Values{
		"name":       p.Name,
		"is_company": p.IsCompany,
	}
	v.setString("vat", p.VAT)
	v.setString("company_registry", p.CompanyRegistry)
	v.setString("email", p.Email)
	v.setString("phone", p.Phone)
	v.setString("website", p.Website)
	v.setString("street", p.Address.Street)
	v.setString("city", p.Address.City)
	v.setString("zip", p.Address.Zip)
	v.setID("country_id", p.Address.Country)
	return s.Create(ctx, ModelPartner, v)
}

// CreateCompany creates a res.company record on top of an existing partner
func (s *Session) CreateCompany(ctx context.Context, c erp.CompanyRecord) (int64, error) {
	v := Values{"name": c.Name}
	v.setID("partner_id", c.PartnerID)
	v.setString("email", c.Email)
	v.setString("phone", c.Phone)
	v.setString("vat", c.VAT)
	v.setString("company_registry", c.CompanyRegistry)
	v.setID("country_id", c.CountryID)
	return s.Create(ctx, ModelCompany, v)
}

// CreateUser creates a res.users record with its allowed companies and groups
func (s *Session) CreateUser(ctx context.Context, u erp.UserRecord) (int64, error) {
	v := Values{
		"name":  u.Name,
		"login": u.Login,
	}
	v.setString("email", u.Email)
	v.setString("password", u.Password)
	v.setString("lang", u.Lang)
	v.setID("company_id", u.CompanyID)
	if len(u.CompanyIDs) > 0 {
		v["company_ids"] = ReplaceWith(u.CompanyIDs...)
	}
	if len(u.GroupIDs) > 0 {
		v["groups_id"] = ReplaceWith(u.GroupIDs...)
	}
	return s.Create(ctx, ModelUser, v)
}

// CreateLead creates a crm.lead record
func (s *Session) CreateLead(ctx context.Context, l erp.LeadRecord) (int64, error) {
	v := Values{
		"name": l.Name,
		"type": "lead",
	}
	v.setString("partner_name", l.PartnerName)
	v.setString("contact_name", l.ContactName)
	v.setString("email_from", l.Email)
	v.setString("phone", l.Phone)
	v.setString("description", l.Description)
	v.setID("country_id", l.CountryID)
	return s.Create(ctx, ModelLead, v)
}

var (
	_ erp.Gateway = (*Gateway)(nil)
	_ erp.Session = (*Session)(nil)
)
