package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	provisioningapp "github.com/erp/website/internal/application/provisioning"
	registryapp "github.com/erp/website/internal/application/registry"
	"github.com/erp/website/internal/bootstrap"
	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/registry"
	"github.com/erp/website/internal/domain/shared"
	"github.com/erp/website/internal/testutil"
)

type harness struct {
	lookup  *testutil.MockLookup
	gateway *testutil.MockGateway
	session *testutil.MockSession
	mailer  *testutil.MockMailer
}

func newHarness() *harness {
	return &harness{
		lookup:  new(testutil.MockLookup),
		gateway: new(testutil.MockGateway),
		session: new(testutil.MockSession),
		mailer:  new(testutil.MockMailer),
	}
}

// run executes sitectl with args against mocked upstreams
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &RootOptions{build: func(*RootOptions) (*bootstrap.Container, error) {
		log := zap.NewNop()
		return &bootstrap.Container{
			Registry:     registryapp.NewService(h.lookup, log),
			Provisioning: provisioningapp.NewService(h.gateway, h.mailer, testutil.StubRenderer{}, "https://erp.example.com/web/login", log),
		}, nil
	}}
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sitectl", cmd.Use)

	for _, path := range [][]string{{"lookup"}, {"odoo", "version"}, {"odoo", "provision"}, {"config"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, FormatText, formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := newHarness().run(t, "lookup", "18547290", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, GetExitCode(err))
}

func TestLookup(t *testing.T) {
	h := newHarness()
	cui, err := registry.ParseCUI("18547290")
	require.NoError(t, err)
	h.lookup.On("Lookup", mock.Anything, cui).Return(&registry.Company{
		CUI:      cui,
		Name:     "ACME SOFTWARE SRL",
		Address:  "Str. Memorandumului 28",
		County:   "Cluj",
		VATPayer: true,
	}, nil)

	out, err := h.run(t, "lookup", "RO18547290")
	require.NoError(t, err)
	assert.Contains(t, out, "ACME SOFTWARE SRL (RO18547290)")
	assert.Contains(t, out, "VAT payer:    yes")
}

func TestLookup_JSON(t *testing.T) {
	h := newHarness()
	cui, _ := registry.ParseCUI("18547290")
	h.lookup.On("Lookup", mock.Anything, cui).Return(&registry.Company{CUI: cui, Name: "ACME SOFTWARE SRL"}, nil)

	out, err := h.run(t, "lookup", "18547290", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string                      `json:"status"`
		Data   registryapp.CompanyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ACME SOFTWARE SRL", resp.Data.Name)
	assert.Equal(t, "18547290", resp.Data.VATCode)
}

func TestLookup_InvalidCUI(t *testing.T) {
	h := newHarness()

	out, err := h.run(t, "lookup", "18547291", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitUsage, GetExitCode(err))
	assert.Contains(t, out, `"code": "INVALID_INPUT"`)
	h.lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestLookup_NotFound(t *testing.T) {
	h := newHarness()
	h.lookup.On("Lookup", mock.Anything, mock.Anything).Return(nil, registry.ErrCompanyNotFound)

	_, err := h.run(t, "lookup", "18547290")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestLookup_RequiresArgument(t *testing.T) {
	_, err := newHarness().run(t, "lookup")
	assert.Error(t, err)
}

func TestOdooVersion(t *testing.T) {
	h := newHarness()
	h.gateway.On("Ping", mock.Anything).Return("17.0", nil)

	out, err := h.run(t, "odoo", "version")
	require.NoError(t, err)
	assert.Equal(t, "17.0\n", out)
}

func TestOdooVersion_Unreachable(t *testing.T) {
	h := newHarness()
	h.gateway.On("Ping", mock.Anything).Return("", errors.Join(erp.ErrUnavailable, errors.New("dial tcp: refused")))

	_, err := h.run(t, "odoo", "version")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestOdooProvision(t *testing.T) {
	h := newHarness()
	h.gateway.On("Connect", mock.Anything).Return(h.session, nil)
	h.session.On("FindCountryID", mock.Anything, "RO").Return(int64(181), true, nil)
	h.session.On("CreatePartner", mock.Anything, mock.Anything).Return(int64(11), nil)
	h.session.On("CreateCompany", mock.Anything, mock.Anything).Return(int64(3), nil)
	h.session.On("ResolveReferences", mock.Anything, erp.AdminGroups()).Return([]int64{1, 2}, nil)
	h.session.On("CreateUser", mock.Anything, mock.Anything).Return(int64(7), nil)
	h.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)

	out, err := h.run(t, "odoo", "provision",
		"--company", "Acme SRL", "--cui", "18547290",
		"--admin-name", "Ana Pop", "--admin-email", "ana@acme.ro")
	require.NoError(t, err)

	assert.Contains(t, out, "Company 3 created (partner 11)")
	assert.Contains(t, out, "Administrator 7, login ana@acme.ro")
	assert.Contains(t, out, "Generated password: ")
	h.session.AssertExpectations(t)
}

func TestOdooProvision_MissingFlags(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "odoo", "provision", "--company", "Acme SRL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin-email")
	h.gateway.AssertNotCalled(t, "Connect", mock.Anything)
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[app]
name = "erp-website"

[registry]
api_key = "registry-key"
`), 0o600))

	out, err := newHarness().run(t, "config", "--config", path, "--format", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "registry-key")

	var resp struct {
		Data []integrationStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	enabled := map[string]bool{}
	for _, s := range resp.Data {
		enabled[s.Name] = s.Enabled
	}
	assert.True(t, enabled["registry"])
	assert.False(t, enabled["odoo"])
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitUsage, GetExitCode(NewExitError(ExitUsage, "bad flag")))
	assert.Equal(t, ExitUsage, GetExitCode(shared.InvalidInput("bad cui")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
}
