package probe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/probe/probetest"
)

func TestDNSProbe_Success(t *testing.T) {
	caps := &probetest.FakeCaps{Addrs: []string{"198.51.100.7", "2001:db8::7"}}
	p := &probe.DNSProbe{Caps: caps, Host: "api.devgrid.io", Timeout: time.Second}

	out := p.Run(context.Background())

	if out.Kind != probe.KindDNS {
		t.Errorf("expected kind %q, got %q", probe.KindDNS, out.Kind)
	}
	if out.Status != probe.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", out.Status, out.Detail)
	}
	if len(out.Measured.Addresses) != 2 {
		t.Errorf("expected 2 addresses, got %d", len(out.Measured.Addresses))
	}
}

func TestDNSProbe_Failure(t *testing.T) {
	caps := &probetest.FakeCaps{ResolveErr: errors.New("lookup api.devgrid.io: no such host")}
	p := &probe.DNSProbe{Caps: caps, Host: "api.devgrid.io", Timeout: time.Second}

	out := p.Run(context.Background())

	if out.Status != probe.StatusFailure {
		t.Fatalf("expected failure, got %s", out.Status)
	}
	if out.Detail == "" {
		t.Error("expected failure detail to carry the resolver error text")
	}
}

func TestDNSProbe_NoAddresses(t *testing.T) {
	caps := &probetest.FakeCaps{Addrs: []string{}}
	p := &probe.DNSProbe{Caps: caps, Host: "api.devgrid.io", Timeout: time.Second}

	if out := p.Run(context.Background()); out.Status != probe.StatusFailure {
		t.Errorf("expected failure when zero addresses return, got %s", out.Status)
	}
}
