package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/domain/translation"
)

// MockGateway is a mock implementation of erp.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Connect(ctx context.Context) (erp.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(erp.Session), args.Error(1)
}

func (m *MockGateway) Ping(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockSession is a mock implementation of erp.Session
type MockSession struct {
	mock.Mock
}

func (m *MockSession) FindCountryID(ctx context.Context, isoCode string) (int64, bool, error) {
	args := m.Called(ctx, isoCode)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockSession) ResolveReferences(ctx context.Context, xmlids ...string) ([]int64, error) {
	args := m.Called(ctx, xmlids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockSession) CreatePartner(ctx context.Context, p erp.PartnerRecord) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSession) CreateCompany(ctx context.Context, c erp.CompanyRecord) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSession) CreateUser(ctx context.Context, u erp.UserRecord) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSession) CreateLead(ctx context.Context, l erp.LeadRecord) (int64, error) {
	args := m.Called(ctx, l)
	return args.Get(0).(int64), args.Error(1)
}

// MockMailer is a mock implementation of notification.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *notification.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockRenderer is a mock implementation of notification.Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(name string, data any) (*notification.Message, error) {
	args := m.Called(name, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Message), args.Error(1)
}

// StubRenderer renders every template as a message whose subject is the template name
type StubRenderer struct{}

func (StubRenderer) Render(name string, _ any) (*notification.Message, error) {
	return &notification.Message{
		Subject:  name,
		Text:     name + "\n",
		HTML:     "<p>" + name + "</p>",
		Template: name,
	}, nil
}

// MockLookup is a mock implementation of registry.Lookup
type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Lookup(ctx context.Context, cui registry.CUI) (*registry.Company, error) {
	args := m.Called(ctx, cui)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Company), args.Error(1)
}

// MockCompleter is a mock implementation of translation.Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

// MessageTo matches a rendered message by template and first recipient
func MessageTo(template, email string) any {
	return mock.MatchedBy(func(msg *notification.Message) bool {
		return msg != nil && msg.Template == template && len(msg.To) > 0 && msg.To[0].Email == email
	})
}

var (
	_ erp.Gateway           = (*MockGateway)(nil)
	_ erp.Session           = (*MockSession)(nil)
	_ notification.Mailer   = (*MockMailer)(nil)
	_ notification.Renderer = (*MockRenderer)(nil)
	_ notification.Renderer = StubRenderer{}
	_ registry.Lookup       = (*MockLookup)(nil)
	_ translation.Completer = (*MockCompleter)(nil)
)
