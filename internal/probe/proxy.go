package probe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

// ProxyEnvProbe reads the proxy environment variable family and evaluates
// whether the fixed target host is covered by the bypass list.
type ProxyEnvProbe struct {
	Caps Capabilities
	Host string
	// ExtraBypass holds additional bypass tokens from the config file,
	// honored alongside NO_PROXY when deciding whether the host is
	// covered.
	ExtraBypass []string
	Logger      *zap.SugaredLogger
}

func (p *ProxyEnvProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindProxyEnv, Status: StatusSuccess, CheckedAt: time.Now().UTC()}

	httpsProxy := p.firstEnv("HTTPS_PROXY", "https_proxy", "ALL_PROXY", "all_proxy")
	httpProxy := p.firstEnv("HTTP_PROXY", "http_proxy", "ALL_PROXY", "all_proxy")
	noProxy := p.firstEnv("NO_PROXY", "no_proxy")

	effective := httpsProxy
	if effective == "" {
		effective = httpProxy
	}
	if effective == "" {
		out.Detail = "no proxy environment configured"
		return out
	}

	combined := noProxy
	if len(p.ExtraBypass) > 0 {
		combined = strings.Join(append([]string{noProxy}, p.ExtraBypass...), ",")
	}

	out.Measured.ProxyURL = effective
	out.Measured.BypassList = noProxy
	out.Measured.HostBypassed = HostBypassed(p.Host, combined)
	out.Detail = fmt.Sprintf("proxy %s configured via environment", effective)

	if httpProxy != "" && httpsProxy != "" && httpProxy != httpsProxy {
		out.Measured.ProxyMismatch = true
		out.Detail += "; HTTP and HTTPS proxies differ"
	}
	p.debugf("proxy env: https=%q http=%q no_proxy=%q", httpsProxy, httpProxy, noProxy)
	return out
}

func (p *ProxyEnvProbe) Name() string { return "probe proxy-env" }

func (p *ProxyEnvProbe) firstEnv(names ...string) string {
	for _, n := range names {
		if v, ok := p.Caps.LookupEnv(n); ok && v != "" {
			return v
		}
	}
	return ""
}

func (p *ProxyEnvProbe) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}

// SystemProxyProbe reads the OS-level proxy store through the platform
// shim. On platforms without one it degrades to Indeterminate.
type SystemProxyProbe struct {
	Caps    Capabilities
	Host    string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

func (p *SystemProxyProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindSystemProxy, CheckedAt: time.Now().UTC()}

	readCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cfg, err := p.Caps.SystemProxy(readCtx)
	if err != nil {
		out.Status = StatusIndeterminate
		if errors.Is(err, errs.ErrSystemProxyUnavailable) {
			out.Detail = "no OS-level proxy store on this platform"
		} else {
			out.Detail = fmt.Sprintf("could not read system proxy settings: %v", err)
		}
		return out
	}

	out.Status = StatusSuccess
	if !cfg.Enabled {
		out.Detail = "system proxy disabled"
		return out
	}

	effective := cfg.HTTPSProxy
	if effective == "" {
		effective = cfg.HTTPProxy
	}
	bypass := strings.Join(cfg.Bypass, ",")
	out.Measured.ProxyURL = effective
	out.Measured.BypassList = bypass
	out.Measured.HostBypassed = HostBypassed(p.Host, bypass)
	out.Detail = fmt.Sprintf("system proxy %s enabled", effective)
	return out
}

func (p *SystemProxyProbe) Name() string { return "probe system-proxy" }

// HostBypassed reports whether host is covered by a comma-separated
// NO_PROXY style bypass list. Tokens match exactly, as a dot-prefixed
// domain suffix, or as the "*" wildcard; per-token ports are ignored.
func HostBypassed(host, list string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	for _, token := range strings.Split(list, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if token == "*" {
			return true
		}
		if i := strings.LastIndex(token, ":"); i > 0 && !strings.Contains(token[i+1:], "]") {
			token = token[:i]
		}
		if token == host {
			return true
		}
		if strings.HasPrefix(token, ".") && strings.HasSuffix(host, token) {
			return true
		}
		if strings.HasPrefix(token, "*.") && strings.HasSuffix(host, token[1:]) {
			return true
		}
	}
	return false
}
