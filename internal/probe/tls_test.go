package probe_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/probe/probetest"
	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
)

func TestTLSProbe_Success(t *testing.T) {
	p := &probe.TLSProbe{
		Caps:    &probetest.FakeCaps{},
		Host:    consts.TargetHost,
		Port:    consts.TargetPort,
		Timeout: time.Second,
	}
	out := p.Run(context.Background())
	if out.Status != probe.StatusSuccess {
		t.Fatalf("expected success, got %s (%s)", out.Status, out.Detail)
	}
	if !strings.Contains(out.Detail, consts.TargetHost) {
		t.Errorf("success detail must name the host, got %q", out.Detail)
	}
}

func TestTLSProbe_HandshakeFailureKeepsErrorText(t *testing.T) {
	caps := &probetest.FakeCaps{
		HandshakeErr: errors.New("x509: certificate signed by unknown authority"),
	}
	p := &probe.TLSProbe{Caps: caps, Host: consts.TargetHost, Port: consts.TargetPort, Timeout: time.Second}

	out := p.Run(context.Background())
	if out.Status != probe.StatusFailure {
		t.Fatalf("expected failure, got %s", out.Status)
	}
	if !strings.Contains(out.Detail, "x509") {
		t.Errorf("failure detail must carry the handshake error, got %q", out.Detail)
	}
}

func TestTLSProbe_TimeoutNormalized(t *testing.T) {
	caps := &probetest.FakeCaps{HandshakeErr: context.DeadlineExceeded}
	p := &probe.TLSProbe{Caps: caps, Host: consts.TargetHost, Port: consts.TargetPort, Timeout: time.Second}

	out := p.Run(context.Background())
	if out.Detail != "timeout" {
		t.Errorf("deadline errors must normalize to \"timeout\", got %q", out.Detail)
	}
}
