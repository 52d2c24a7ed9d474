package odoo

import (
	"fmt"

	"github.com/erp/website/internal/domain/erp"
)

// Model is the technical name of an Odoo model
type Model string

// Models written or read by the website
const (
	ModelPartner   Model = "res.partner"
	ModelCompany   Model = "res.company"
	ModelUser      Model = "res.users"
	ModelCountry   Model = "res.country"
	ModelModelData Model = "ir.model.data"
	ModelLead      Model = "crm.lead"
)

// String returns the technical model name
func (m Model) String() string {
	return string(m)
}

// Values holds field values for create and write
type Values map[string]any

// setString sets key only when value is non-empty
func (v Values) setString(key, value string) {
	if value != "" {
		v[key] = value
	}
}

// setID sets a many2one field only when id is set
func (v Values) setID(key string, id int64) {
	if id > 0 {
		v[key] = id
	}
}

// Domain is a search domain in Odoo's prefix notation.
// Leaves are [field, operator, value] triples; "|", "&" and "!" are operators.
type Domain []any

// Where returns a domain with a single leaf
func Where(field, operator string, value any) Domain {
	return Domain{}.And(field, operator, value)
}

// And appends a leaf. Consecutive leaves are implicitly AND-ed by Odoo.
func (d Domain) And(field, operator string, value any) Domain {
	return append(d, []any{field, operator, value})
}

// Or prefixes the next two terms with the OR operator
func (d Domain) Or() Domain {
	return append(d, "|")
}

func (d Domain) toRPC() []any {
	if d == nil {
		return []any{}
	}
	return []any(d)
}

// Options are the keyword arguments accepted by search and search_read
type Options struct {
	Limit   int
	Offset  int
	Order   string
	Context map[string]any
}

func (o *Options) kwargs() map[string]any {
	kw := map[string]any{}
	if o == nil {
		return kw
	}
	if o.Limit > 0 {
		kw["limit"] = o.Limit
	}
	if o.Offset > 0 {
		kw["offset"] = o.Offset
	}
	if o.Order != "" {
		kw["order"] = o.Order
	}
	if len(o.Context) > 0 {
		kw["context"] = o.Context
	}
	return kw
}

// x2many command codes
const (
	commandLink    = 4
	commandReplace = 6
)

// ReplaceWith returns the x2many command list replacing the relation with ids: [(6, 0, ids)]
func ReplaceWith(ids ...int64) []any {
	return []any{[]any{commandReplace, 0, idList(ids)}}
}

// LinkTo returns the x2many command list adding ids to the relation: [(4, id, 0), ...]
func LinkTo(ids ...int64) []any {
	cmds := make([]any, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, []any{commandLink, id, 0})
	}
	return cmds
}

func idList(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// asID converts the result of create into a record ID.
// Recent Odoo versions may answer with a one element list.
func asID(result any) (int64, error) {
	switch v := result.(type) {
	case int64:
		if v > 0 {
			return v, nil
		}
	case []any:
		if len(v) == 1 {
			return asID(v[0])
		}
	}
	return 0, fmt.Errorf("%w: expected record id, got %T", erp.ErrUnexpectedResult, result)
}

func asIDs(result any) ([]int64, error) {
	items, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected id list, got %T", erp.ErrUnexpectedResult, result)
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id, err := asID(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func asRecords(result any) ([]map[string]any, error) {
	items, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected record list, got %T", erp.ErrUnexpectedResult, result)
	}
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected record, got %T", erp.ErrUnexpectedResult, item)
		}
		records = append(records, rec)
	}
	return records, nil
}
