package probe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RouteProbe resolves the outbound route to the fixed host and infers
// tunnel mode: a route whose next hop is a VPN-owned interface means the
// tunnel carries traffic for this specific target (full tunnel from the
// target's point of view), anything else means split.
type RouteProbe struct {
	Caps    Capabilities
	Host    string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

func (p *RouteProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindRoute, CheckedAt: time.Now().UTC()}

	routeCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	iface, err := p.Caps.OutboundInterface(routeCtx, p.Host)
	if err != nil {
		out.Status = StatusIndeterminate
		out.Detail = fmt.Sprintf("could not resolve outbound route: %v", err)
		return out
	}

	out.Status = StatusSuccess
	out.Measured.InterfaceName = iface
	if IsTunnelInterface(iface) {
		out.Measured.TunnelMode = "full"
		out.Detail = fmt.Sprintf("route to %s egresses via tunnel interface %s", p.Host, iface)
	} else {
		out.Measured.TunnelMode = "split"
		out.Detail = fmt.Sprintf("route to %s egresses via %s", p.Host, iface)
	}
	p.debugf("outbound interface for %s: %s", p.Host, iface)
	return out
}

func (p *RouteProbe) Name() string { return "probe route" }

func (p *RouteProbe) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}
