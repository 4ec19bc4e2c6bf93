package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DNSProbe resolves the fixed target host.
type DNSProbe struct {
	Caps    Capabilities
	Host    string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

// Run performs the lookup. Success means at least one address came back.
func (p *DNSProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindDNS, CheckedAt: time.Now().UTC()}

	lookupCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	addrs, err := p.Caps.Resolve(lookupCtx, p.Host)
	if err != nil {
		out.Status = StatusFailure
		out.Detail = probeFailureDetail(lookupCtx, err)
		p.debugf("dns lookup failed: %v", err)
		return out
	}
	if len(addrs) == 0 {
		out.Status = StatusFailure
		out.Detail = fmt.Sprintf("no addresses returned for %s", p.Host)
		return out
	}

	out.Status = StatusSuccess
	out.Detail = fmt.Sprintf("%s resolves to %d address(es)", p.Host, len(addrs))
	out.Measured.Addresses = addrs
	p.debugf("dns ok: %v", addrs)
	return out
}

func (p *DNSProbe) Name() string { return "probe dns" }

func (p *DNSProbe) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}
