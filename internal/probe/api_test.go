package probe_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/probe/probetest"
	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
)

func newAPIProbe(caps *probetest.FakeCaps, timeout time.Duration) *probe.APIProbe {
	return &probe.APIProbe{
		Caps:     caps,
		Endpoint: consts.APIEndpoint,
		TokenVar: consts.EnvAPIToken,
		Timeout:  timeout,
	}
}

func TestAPIProbe_SkippedWithoutToken(t *testing.T) {
	caps := &probetest.FakeCaps{Env: map[string]string{}}
	out := newAPIProbe(caps, time.Second).Run(context.Background())

	if !out.Skipped {
		t.Fatal("expected probe to be skipped without a token")
	}
	if out.Status != probe.StatusIndeterminate {
		t.Errorf("skipped probe should be indeterminate, got %s", out.Status)
	}
	if out.Detail == "" {
		t.Error("skipped probe must be reported explicitly")
	}
}

func TestAPIProbe_SetsAuthAndVersionHeaders(t *testing.T) {
	caps := &probetest.FakeCaps{
		Env:        map[string]string{consts.EnvAPIToken: "tok-123"},
		HTTPStatus: 200,
	}
	newAPIProbe(caps, time.Second).Run(context.Background())

	if got := caps.SeenHeader.Get("Authorization"); got != "Bearer tok-123" {
		t.Errorf("unexpected Authorization header %q", got)
	}
	if got := caps.SeenHeader.Get(consts.VersionHeader); got != consts.ProtocolVersion {
		t.Errorf("expected %s: %s, got %q", consts.VersionHeader, consts.ProtocolVersion, got)
	}
}

func TestAPIProbe_StatusCodes(t *testing.T) {
	tests := []struct {
		status int
		want   probe.Status
	}{
		{200, probe.StatusSuccess},
		{401, probe.StatusFailure},
		{403, probe.StatusFailure},
		{404, probe.StatusFailure},
		{503, probe.StatusFailure},
	}
	for _, tc := range tests {
		caps := &probetest.FakeCaps{
			Env:        map[string]string{consts.EnvAPIToken: "tok"},
			HTTPStatus: tc.status,
		}
		out := newAPIProbe(caps, time.Second).Run(context.Background())
		if out.Status != tc.want {
			t.Errorf("status %d: expected %s, got %s", tc.status, tc.want, out.Status)
		}
		if out.Measured.HTTPStatus != tc.status {
			t.Errorf("status %d: measured %d", tc.status, out.Measured.HTTPStatus)
		}
	}
}

func TestAPIProbe_TimeoutNeverHangs(t *testing.T) {
	caps := &probetest.FakeCaps{
		Env:       map[string]string{consts.EnvAPIToken: "tok"},
		BlockHTTP: true,
	}
	p := newAPIProbe(caps, 50*time.Millisecond)

	start := time.Now()
	out := p.Run(context.Background())
	elapsed := time.Since(start)

	if out.Status != probe.StatusFailure {
		t.Fatalf("expected failure on timeout, got %s", out.Status)
	}
	if out.Detail != "timeout" {
		t.Errorf("expected detail \"timeout\", got %q", out.Detail)
	}
	if elapsed > time.Second {
		t.Errorf("probe took %v; must return promptly after its bound", elapsed)
	}
}

func TestAPIProbe_TransportErrorKeepsText(t *testing.T) {
	caps := &probetest.FakeCaps{
		Env:     map[string]string{consts.EnvAPIToken: "tok"},
		HTTPErr: errors.New("dial tcp 198.51.100.7:443: connect: connection refused"),
	}
	out := newAPIProbe(caps, time.Second).Run(context.Background())

	if out.Status != probe.StatusFailure {
		t.Fatalf("expected failure, got %s", out.Status)
	}
	if out.Measured.HTTPStatus != 0 {
		t.Errorf("no status should be recorded, got %d", out.Measured.HTTPStatus)
	}
	if out.Detail == "" {
		t.Error("raw failure text must be preserved for classification")
	}
}
