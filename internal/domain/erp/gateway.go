package erp

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// Gateway Errors
// ---------------------------------------------------------------------------

var (
	ErrNotConfigured        = errors.New("erp: gateway not configured")
	ErrAuthenticationFailed = errors.New("erp: authentication failed")
	ErrUnavailable          = errors.New("erp: service unavailable")
	ErrRemoteFault          = errors.New("erp: remote fault")
	ErrUnexpectedResult     = errors.New("erp: unexpected result")
	ErrReferenceNotFound    = errors.New("erp: reference not found")
)

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// Gateway opens authenticated sessions against the ERP.
// Sessions are request scoped and never shared between requests.
type Gateway interface {
	// Connect authenticates and returns a new session
	Connect(ctx context.Context) (Session, error)

	// Ping checks that the ERP answers and returns its server version
	Ping(ctx context.Context) (string, error)
}

// Session performs record operations with the credentials of one authentication
type Session interface {
	// FindCountryID resolves an ISO 3166-1 alpha-2 code. found is false when the
	// ERP has no such country.
	FindCountryID(ctx context.Context, isoCode string) (id int64, found bool, err error)

	// ResolveReferences maps external identifiers ("module.name") to record IDs,
	// preserving the input order. A missing identifier is ErrReferenceNotFound.
	ResolveReferences(ctx context.Context, xmlids ...string) ([]int64, error)

	CreatePartner(ctx context.Context, p PartnerRecord) (int64, error)
	CreateCompany(ctx context.Context, c CompanyRecord) (int64, error)
	CreateUser(ctx context.Context, u UserRecord) (int64, error)
	CreateLead(ctx context.Context, l LeadRecord) (int64, error)
}
