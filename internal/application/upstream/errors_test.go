package upstream

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erp/website/internal/domain/erp"
	"github.com/erp/website/internal/domain/notification"
	"github.com/erp/website/internal/domain/shared"
)

func TestFromERP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *shared.DomainError
	}{
		{name: "not configured", err: erp.ErrNotConfigured, want: shared.ErrUpstreamUnavailable},
		{name: "auth", err: fmt.Errorf("%w: uid false", erp.ErrAuthenticationFailed), want: shared.ErrUpstreamAuth},
		{name: "fault", err: fmt.Errorf("%w: boom", erp.ErrRemoteFault), want: shared.ErrUpstream},
		{name: "transport", err: erp.ErrUnavailable, want: shared.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromERP(tt.err, "failed")
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, FromERP(nil, "x"))

	invalid := shared.InvalidInput("bad")
	assert.Same(t, invalid, FromERP(invalid, "x"))
}

func TestFromMail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *shared.DomainError
	}{
		{name: "not configured", err: notification.ErrNotConfigured, want: shared.ErrUpstreamUnavailable},
		{name: "auth", err: notification.ErrProviderAuth, want: shared.ErrUpstreamAuth},
		{name: "address", err: notification.ErrInvalidAddress, want: shared.ErrInvalidInput},
		{name: "delivery", err: errors.Join(notification.ErrDeliveryFailed), want: shared.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, FromMail(tt.err, "failed"), tt.want)
		})
	}
	assert.NoError(t, FromMail(nil, "x"))
}
