package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TLSProbe opens a verifying TLS connection to host:port with SNI set to
// the host. Only handshake success or failure matters; the chain itself is
// never inspected.
type TLSProbe struct {
	Caps    Capabilities
	Host    string
	Port    string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

func (p *TLSProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindTLS, CheckedAt: time.Now().UTC()}

	dialCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	if err := p.Caps.Handshake(dialCtx, p.Host, p.Port); err != nil {
		out.Status = StatusFailure
		out.Detail = probeFailureDetail(dialCtx, err)
		p.debugf("tls handshake failed: %v", err)
		return out
	}

	out.Status = StatusSuccess
	out.Detail = fmt.Sprintf("certificate chain for %s verified", p.Host)
	return out
}

func (p *TLSProbe) Name() string { return "probe tls" }

func (p *TLSProbe) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}

// probeFailureDetail normalizes a probe error into detail text. A deadline
// hit is reported as the fixed "timeout" detail so classification stays
// deterministic.
func probeFailureDetail(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	return err.Error()
}
