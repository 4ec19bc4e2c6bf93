// Package diagnose orchestrates the diagnostic run: fixed categories in a
// fixed order, each driving its probes through the classifier and
// recommendation engine into the shared session. Every category always
// runs to completion even when an earlier one produced errors, so one
// failing probe never hides downstream issues.
package diagnose

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/khanhnv2901/apidiag/internal/classify"
	"github.com/khanhnv2901/apidiag/internal/installinfo"
	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/recommend"
	"github.com/khanhnv2901/apidiag/internal/session"
	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
)

// FixPolicy is the auto-remediation toggle. It is accepted and recorded
// but currently performs no action; no remediation is ever executed.
type FixPolicy int

const (
	FixDisabled FixPolicy = iota
	FixRequested
)

// Options configures one run. Zero values fall back to the fixed
// constants.
type Options struct {
	Host            string
	Endpoint        string
	ExpectedBaseURL string
	ExtraBypass     []string
	ClientVersion   string

	GOOS string
	Home string

	APITimeout   time.Duration
	DNSTimeout   time.Duration
	TLSTimeout   time.Duration
	RouteTimeout time.Duration

	Fix FixPolicy
}

func (o *Options) applyDefaults() {
	if o.Host == "" {
		o.Host = consts.TargetHost
	}
	if o.Endpoint == "" {
		o.Endpoint = consts.APIEndpoint
	}
	if o.ExpectedBaseURL == "" {
		o.ExpectedBaseURL = consts.ExpectedBaseURL
	}
	if o.GOOS == "" {
		o.GOOS = runtime.GOOS
	}
	if o.APITimeout == 0 {
		o.APITimeout = consts.APITimeout
	}
	if o.DNSTimeout == 0 {
		o.DNSTimeout = consts.DNSTimeout
	}
	if o.TLSTimeout == 0 {
		o.TLSTimeout = consts.TLSTimeout
	}
	if o.RouteTimeout == 0 {
		o.RouteTimeout = consts.RouteTimeout
	}
}

// Runner drives one diagnostic session. Categories and probes execute
// strictly sequentially; the session is single-writer.
type Runner struct {
	Caps    probe.Capabilities
	Logger  *zap.SugaredLogger
	Limiter *rate.Limiter
	Opts    Options
}

// NewRunner wires a runner with defaults applied and a limiter pacing the
// network-touching probes.
func NewRunner(caps probe.Capabilities, logger *zap.SugaredLogger, opts Options) *Runner {
	opts.applyDefaults()
	return &Runner{
		Caps:    caps,
		Logger:  logger,
		Limiter: rate.NewLimiter(rate.Limit(consts.ProbeRatePerSecond), 1),
		Opts:    opts,
	}
}

// Run executes every category in order. It returns an error only for
// session bookkeeping faults; probe failures are findings, never errors.
func (r *Runner) Run(ctx context.Context, s *session.Session) error {
	categories := []struct {
		name string
		run  func(context.Context, *session.Session)
	}{
		{classify.CategoryEnvironment, r.runEnvironment},
		{classify.CategoryAuthentication, r.runAuthentication},
		{classify.CategoryNetwork, r.runNetwork},
		{classify.CategoryProxyVPN, r.runProxyVPN},
		{classify.CategoryInstallation, r.runInstallation},
		{classify.CategoryConfiguration, r.runConfiguration},
	}

	for _, cat := range categories {
		if err := s.StartCategory(cat.name); err != nil {
			return fmt.Errorf("start category %s: %w", cat.name, err)
		}
		r.debugf("running category %s", cat.name)
		cat.run(ctx, s)
	}
	return nil
}

// apply appends findings and their recommendations, threading captured
// detail into the recommendation templates.
func (r *Runner) apply(s *session.Session, findings []classify.Finding) {
	for _, f := range findings {
		s.AddFindings(f)
		recs := recommend.For(f, recommend.Params{
			GOOS:       r.Opts.GOOS,
			BypassList: f.Detail["bypass"],
			VPNProduct: f.Detail["product"],
		})
		s.AddRecommendations(recs...)
	}
}

func (r *Runner) runEnvironment(ctx context.Context, s *session.Session) {
	baseURL, _ := r.Caps.LookupEnv(consts.EnvBaseURL)
	_, legacySet := r.Caps.LookupEnv(consts.EnvLegacyToken)

	detail := fmt.Sprintf("%s=%q", consts.EnvBaseURL, baseURL)
	if legacySet {
		detail += fmt.Sprintf("; deprecated %s is set", consts.EnvLegacyToken)
	}
	s.RecordOutcome("environment variables", probe.Outcome{
		Kind:      probe.KindEnvironment,
		Status:    probe.StatusSuccess,
		Detail:    detail,
		CheckedAt: time.Now().UTC(),
	})

	r.apply(s, classify.BaseURL(baseURL, r.Opts.ExpectedBaseURL))
	r.apply(s, classify.SecondaryCredential(consts.EnvLegacyToken, legacySet))
}

func (r *Runner) runAuthentication(ctx context.Context, s *session.Session) {
	token, ok := r.Caps.LookupEnv(consts.EnvAPIToken)
	present := ok && token != ""

	detail := fmt.Sprintf("%s is set", consts.EnvAPIToken)
	if !present {
		detail = fmt.Sprintf("%s is not set", consts.EnvAPIToken)
		if hits := installinfo.ScanProfiles(r.Opts.Home, consts.EnvAPIToken); len(hits) > 0 {
			detail += fmt.Sprintf("; its name appears in %s (not exported to this process?)",
				strings.Join(hits, ", "))
		}
	}
	s.RecordOutcome("auth token", probe.Outcome{
		Kind:      probe.KindEnvironment,
		Status:    probe.StatusSuccess,
		Detail:    detail,
		CheckedAt: time.Now().UTC(),
	})

	r.apply(s, classify.AuthToken(consts.EnvAPIToken, present))
}

func (r *Runner) runNetwork(ctx context.Context, s *session.Session) {
	dns := &probe.DNSProbe{Caps: r.Caps, Host: r.Opts.Host, Timeout: r.Opts.DNSTimeout, Logger: r.Logger}
	tlsProbe := &probe.TLSProbe{Caps: r.Caps, Host: r.Opts.Host, Port: consts.TargetPort, Timeout: r.Opts.TLSTimeout, Logger: r.Logger}
	api := &probe.APIProbe{Caps: r.Caps, Endpoint: r.Opts.Endpoint, TokenVar: consts.EnvAPIToken, Timeout: r.Opts.APITimeout, Logger: r.Logger}

	r.wait(ctx)
	dnsOutcome := dns.Run(ctx)
	s.RecordOutcome(dns.Name(), dnsOutcome)
	r.apply(s, classify.DNS(dnsOutcome))

	r.wait(ctx)
	tlsOutcome := tlsProbe.Run(ctx)
	s.RecordOutcome(tlsProbe.Name(), tlsOutcome)
	r.apply(s, classify.TLS(tlsOutcome))

	r.wait(ctx)
	apiOutcome := api.Run(ctx)
	s.RecordOutcome(api.Name(), apiOutcome)
	r.apply(s, classify.API(apiOutcome))
}

func (r *Runner) runProxyVPN(ctx context.Context, s *session.Session) {
	envProbe := &probe.ProxyEnvProbe{Caps: r.Caps, Host: r.Opts.Host, ExtraBypass: r.Opts.ExtraBypass, Logger: r.Logger}
	envOutcome := envProbe.Run(ctx)
	s.RecordOutcome(envProbe.Name(), envOutcome)
	r.apply(s, classify.Proxy(envOutcome, r.Opts.Host))

	sysProbe := &probe.SystemProxyProbe{Caps: r.Caps, Host: r.Opts.Host, Timeout: r.Opts.RouteTimeout, Logger: r.Logger}
	sysOutcome := sysProbe.Run(ctx)
	s.RecordOutcome(sysProbe.Name(), sysOutcome)
	r.apply(s, classify.Proxy(sysOutcome, r.Opts.Host))

	vpnProbe := &probe.VPNInterfaceProbe{Caps: r.Caps, Logger: r.Logger}
	vpnOutcome := vpnProbe.Run(ctx)
	s.RecordOutcome(vpnProbe.Name(), vpnOutcome)

	r.wait(ctx)
	routeProbe := &probe.RouteProbe{Caps: r.Caps, Host: r.Opts.Host, Timeout: r.Opts.RouteTimeout, Logger: r.Logger}
	routeOutcome := routeProbe.Run(ctx)
	s.RecordOutcome(routeProbe.Name(), routeOutcome)

	r.apply(s, classify.VPN(vpnOutcome, routeOutcome))
}

func (r *Runner) runInstallation(ctx context.Context, s *session.Session) {
	detail := fmt.Sprintf("diagnostic version %s", r.Opts.ClientVersion)
	if exe, err := installinfo.Executable(); err == nil {
		detail += fmt.Sprintf("; running from %s", exe)
	}
	name := installinfo.ClientBinaryName(r.Opts.GOOS)
	if path, ok := installinfo.OnPath(name); ok {
		detail += fmt.Sprintf("; client %s found at %s", name, path)
	} else {
		detail += fmt.Sprintf("; client %s not found on PATH", name)
	}
	s.RecordOutcome("installation", probe.Outcome{
		Kind:      probe.KindInstallation,
		Status:    probe.StatusSuccess,
		Detail:    detail,
		CheckedAt: time.Now().UTC(),
	})
}

func (r *Runner) runConfiguration(ctx context.Context, s *session.Session) {
	var present, missing []string
	for _, d := range installinfo.ConfigDirs(r.Opts.Home, r.Opts.GOOS) {
		if d.Exists {
			present = append(present, d.Path)
		} else {
			missing = append(missing, d.Path)
		}
	}
	detail := "config dirs: "
	switch {
	case len(present) > 0:
		detail += strings.Join(present, ", ")
	default:
		detail += "none present"
	}
	if len(missing) > 0 {
		detail += fmt.Sprintf(" (absent: %s)", strings.Join(missing, ", "))
	}
	s.RecordOutcome("configuration directories", probe.Outcome{
		Kind:      probe.KindConfiguration,
		Status:    probe.StatusSuccess,
		Detail:    detail,
		CheckedAt: time.Now().UTC(),
	})

	cachePath, cachePresent := installinfo.LegacyCacheDir(r.Opts.Home, r.Opts.GOOS)
	r.apply(s, classify.LegacyCache(cachePath, cachePresent))
}

// wait paces network-touching probes. A closed context falls through; the
// probe itself will surface the cancellation.
func (r *Runner) wait(ctx context.Context) {
	if r.Limiter != nil {
		_ = r.Limiter.Wait(ctx)
	}
}

func (r *Runner) debugf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Debugf(format, args...)
	}
}
