package odoo

import (
	"context"
	"fmt"

	"github.com/erp/website/internal/domain/erp"
)

// Session executes model methods with the uid obtained from Authenticate
type Session struct {
	client *Client
	uid    int64
}

// UID returns the authenticated user ID
func (s *Session) UID() int64 {
	return s.uid
}

// ExecuteKW calls object.execute_kw(db, uid, password, model, method, args, kwargs)
func (s *Session) ExecuteKW(ctx context.Context, model Model, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	cfg := s.client.config
	return s.client.call(ctx, s.client.object, model.String()+"."+method, "execute_kw",
		cfg.Database, s.uid, cfg.Password, model.String(), method, args, kwargs)
}

// Create creates one record and returns its ID
func (s *Session) Create(ctx context.Context, model Model, values Values) (int64, error) {
	result, err := s.ExecuteKW(ctx, model, "create", []any{map[string]any(values)}, nil)
	if err != nil {
		return 0, err
	}
	return asID(result)
}

// Search returns the IDs of the records matching domain
func (s *Session) Search(ctx context.Context, model Model, domain Domain, opts *Options) ([]int64, error) {
	result, err := s.ExecuteKW(ctx, model, "search", []any{domain.toRPC()}, opts.kwargs())
	if err != nil {
		return nil, err
	}
	return asIDs(result)
}

// SearchRead returns the given fields of the records matching domain
func (s *Session) SearchRead(ctx context.Context, model Model, domain Domain, fields []string, opts *Options) ([]map[string]any, error) {
	kwargs := opts.kwargs()
	if len(fields) > 0 {
		kwargs["fields"] = fields
	}
	result, err := s.ExecuteKW(ctx, model, "search_read", []any{domain.toRPC()}, kwargs)
	if err != nil {
		return nil, err
	}
	return asRecords(result)
}

// Write updates the records with the given IDs
func (s *Session) Write(ctx context.Context, model Model, ids []int64, values Values) error {
	result, err := s.ExecuteKW(ctx, model, "write", []any{idList(ids), map[string]any(values)}, nil)
	if err != nil {
		return err
	}
	if ok, _ := result.(bool); !ok {
		return fmt.Errorf("%w: write on %s returned %v", erp.ErrUnexpectedResult, model, result)
	}
	return nil
}
