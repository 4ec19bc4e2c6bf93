package diagnose

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/khanhnv2901/apidiag/internal/classify"
	"github.com/khanhnv2901/apidiag/internal/probe"
	"github.com/khanhnv2901/apidiag/internal/probe/probetest"
	"github.com/khanhnv2901/apidiag/internal/session"
	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
)

func newTestRunner(t *testing.T, caps *probetest.FakeCaps) *Runner {
	t.Helper()
	r := NewRunner(caps, nil, Options{
		GOOS: "linux",
		Home: t.TempDir(),
	})
	r.Limiter = rate.NewLimiter(rate.Inf, 0)
	return r
}

// healthyCaps models a machine with working DNS/TLS/API and no proxy/VPN.
func healthyCaps(token string) *probetest.FakeCaps {
	env := map[string]string{}
	if token != "" {
		env[consts.EnvAPIToken] = token
	}
	return &probetest.FakeCaps{
		Addrs:      []string{"198.51.100.7"},
		HTTPStatus: 200,
		Ifaces:     []probe.Iface{{Name: "lo", Up: true}, {Name: "eth0", Up: true}},
		OutIface:   "eth0",
		Env:        env,
	}
}

func issueList(s *session.Session) []string {
	var issues []string
	for _, f := range s.Findings() {
		issues = append(issues, f.Issue)
	}
	return issues
}

func TestRun_HealthyMachineIsClean(t *testing.T) {
	r := newTestRunner(t, healthyCaps("tok"))
	s := session.New()

	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	sum, err := s.Summarize()
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if !sum.OK || sum.ExitCode != 0 {
		t.Errorf("healthy machine must be clean, got %+v with findings %v", sum, issueList(s))
	}
	if len(s.Recommendations()) != 0 {
		t.Errorf("clean run must have no recommendations, got %v", s.Recommendations())
	}
}

// No token: the API probe is skipped, the only finding is the missing
// token, and the run exits 1.
func TestRun_MissingTokenScenario(t *testing.T) {
	r := newTestRunner(t, healthyCaps(""))
	s := session.New()

	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	issues := issueList(s)
	if len(issues) != 1 || issues[0] != classify.IssueAuthTokenNotSet {
		t.Fatalf("expected exactly [auth-token-not-set], got %v", issues)
	}

	var apiRecord *session.ProbeRecord
	for i, rec := range s.Records() {
		if rec.Outcome.Kind == probe.KindAPI {
			apiRecord = &s.Records()[i]
		}
	}
	if apiRecord == nil {
		t.Fatal("API probe must still be recorded when skipped")
	}
	if !apiRecord.Outcome.Skipped {
		t.Error("API probe must be explicitly marked skipped")
	}

	sum, _ := s.Summarize()
	if sum.OK || sum.ExitCode != 1 {
		t.Errorf("missing token must exit 1, got %+v", sum)
	}
	if len(s.Recommendations()) == 0 {
		t.Error("the missing-token error must carry a recommendation")
	}
}

// Full-tunnel VPN scenario: VPN interface up and the route egresses
// through it.
func TestRun_FullTunnelVPNEscalates(t *testing.T) {
	caps := healthyCaps("tok")
	caps.Ifaces = append(caps.Ifaces, probe.Iface{Name: "wg0", Up: true})
	caps.OutIface = "wg0"

	r := newTestRunner(t, caps)
	s := session.New()
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	found := false
	for _, f := range s.Findings() {
		if f.Issue == classify.IssueVPNFullTunnelBlocking {
			found = true
			if f.Severity != classify.SeverityWarning {
				t.Errorf("escalated VPN finding must be a warning, got %s", f.Severity)
			}
		}
		if f.Issue == classify.IssueVPNDetected {
			t.Error("escalated conjunction must replace the plain vpn-detected info")
		}
	}
	if !found {
		t.Fatalf("expected vpn-full-tunnel-blocking, got %v", issueList(s))
	}

	sum, _ := s.Summarize()
	if !sum.OK {
		t.Errorf("warnings alone must not fail the run, got %+v", sum)
	}
}

// Split-tunnel VPN stays informational.
func TestRun_SplitTunnelVPNIsInfo(t *testing.T) {
	caps := healthyCaps("tok")
	caps.Ifaces = append(caps.Ifaces, probe.Iface{Name: "wg0", Up: true})
	caps.OutIface = "eth0"

	r := newTestRunner(t, caps)
	s := session.New()
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, f := range s.Findings() {
		if f.Issue == classify.IssueVPNFullTunnelBlocking {
			t.Error("split tunnel must not escalate")
		}
		if f.Issue == classify.IssueVPNDetected && f.Severity != classify.SeverityInfo {
			t.Errorf("vpn-detected must be info, got %s", f.Severity)
		}
	}
}

// An earlier failing category never stops later ones: DNS failure and the
// proxy warning must both be present.
func TestRun_EveryCategoryAlwaysRuns(t *testing.T) {
	caps := healthyCaps("tok")
	caps.ResolveErr = errTest("lookup api.devgrid.io: no such host")
	caps.Env["HTTPS_PROXY"] = "http://proxy.corp:3128"

	r := newTestRunner(t, caps)
	s := session.New()
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	issues := issueList(s)
	var haveDNS, haveProxy bool
	for _, issue := range issues {
		if issue == classify.IssueDNSResolutionFailed {
			haveDNS = true
		}
		if issue == classify.IssueProxyBypassMissing {
			haveProxy = true
		}
	}
	if !haveDNS || !haveProxy {
		t.Errorf("expected both dns and proxy findings, got %v", issues)
	}

	categories := map[string]bool{}
	for _, rec := range s.Records() {
		categories[rec.Category] = true
	}
	for _, want := range []string{
		classify.CategoryEnvironment,
		classify.CategoryAuthentication,
		classify.CategoryNetwork,
		classify.CategoryProxyVPN,
		classify.CategoryInstallation,
		classify.CategoryConfiguration,
	} {
		if !categories[want] {
			t.Errorf("category %s did not record any outcome", want)
		}
	}
}

// A blocked API call still lets the session reach Summarized within the
// probe bound plus scheduling slack.
func TestRun_BlockedAPINeverHangs(t *testing.T) {
	caps := healthyCaps("tok")
	caps.BlockHTTP = true

	r := newTestRunner(t, caps)
	r.Opts.APITimeout = 100 * time.Millisecond

	s := session.New()
	start := time.Now()
	if err := r.Run(context.Background(), s); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := s.Summarize(); err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("run took %v; a blocked API call must not hang the session", elapsed)
	}

	var haveTimeout bool
	for _, rec := range s.Records() {
		if rec.Outcome.Kind == probe.KindAPI && rec.Outcome.Detail == "timeout" {
			haveTimeout = true
		}
	}
	if !haveTimeout {
		t.Error("blocked API probe must record detail \"timeout\"")
	}
}

// Findings/recommendation order is reproducible across identical runs.
func TestRun_DeterministicOrder(t *testing.T) {
	build := func() []string {
		caps := healthyCaps("")
		caps.Env["HTTPS_PROXY"] = "http://proxy.corp:3128"
		caps.Env[consts.EnvLegacyToken] = "old-token"

		r := NewRunner(caps, nil, Options{GOOS: "linux", Home: "/nonexistent-home"})
		r.Limiter = rate.NewLimiter(rate.Inf, 0)
		s := session.New()
		if err := r.Run(context.Background(), s); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return append(issueList(s), s.Recommendations()...)
	}

	first := build()
	for i := 0; i < 3; i++ {
		next := build()
		if len(next) != len(first) {
			t.Fatalf("run %d produced %d entries, first produced %d", i, len(next), len(first))
		}
		for j := range next {
			if next[j] != first[j] {
				t.Fatalf("run %d diverged at %d: %q vs %q", i, j, next[j], first[j])
			}
		}
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
