// Package classify turns raw probe Outcomes into the stable issue
// taxonomy. Rules are deterministic and order-independent; independent
// probe failures are never suppressed, since their causes may be
// independent.
package classify

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/khanhnv2901/apidiag/internal/probe"
)

// certificateSignatures mark a TLS failure as a certificate problem rather
// than a generic connection failure.
var certificateSignatures = []string{
	"x509:",
	"certificate",
	"tls: failed to verify",
}

// dnsSignatures identify resolver failures inside raw error text. This
// substring fallback is inherently fragile but is the only signal when no
// HTTP status was obtained.
var dnsSignatures = []string{
	"no such host",
	"server misbehaving",
	"dns",
	"name resolution",
}

var refusedSignatures = []string{
	"connection refused",
	"actively refused",
}

func matchesAny(text string, signatures []string) bool {
	lower := strings.ToLower(text)
	for _, s := range signatures {
		if strings.Contains(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// DNS classifies the DNS probe outcome.
func DNS(o probe.Outcome) []Finding {
	if o.Status != probe.StatusFailure {
		return nil
	}
	return []Finding{{
		Severity: SeverityError,
		Category: CategoryNetwork,
		Issue:    IssueDNSResolutionFailed,
		Message:  fmt.Sprintf("DNS resolution failed: %s", o.Detail),
	}}
}

// TLS classifies the handshake outcome, distinguishing certificate
// failures from generic connection failures.
func TLS(o probe.Outcome) []Finding {
	if o.Status != probe.StatusFailure {
		return nil
	}
	if matchesAny(o.Detail, certificateSignatures) {
		return []Finding{{
			Severity: SeverityError,
			Category: CategoryNetwork,
			Issue:    IssueTLSCertificateInvalid,
			Message:  fmt.Sprintf("TLS certificate verification failed: %s", o.Detail),
		}}
	}
	return []Finding{{
		Severity: SeverityWarning,
		Category: CategoryNetwork,
		Issue:    IssueTLSUnverified,
		Message:  fmt.Sprintf("TLS handshake could not be completed: %s", o.Detail),
	}}
}

// API classifies the API probe outcome. Classification is a pure function
// of (status code, failure text). A skipped probe contributes nothing.
func API(o probe.Outcome) []Finding {
	if o.Skipped || o.Status == probe.StatusIndeterminate {
		return nil
	}

	if status := o.Measured.HTTPStatus; status != 0 {
		switch status {
		case http.StatusOK:
			return nil
		case http.StatusUnauthorized:
			return []Finding{{
				Severity: SeverityError,
				Category: CategoryNetwork,
				Issue:    IssueAuthFailed,
				Message:  "API rejected the token (401 Unauthorized)",
			}}
		case http.StatusForbidden:
			return []Finding{{
				Severity: SeverityError,
				Category: CategoryNetwork,
				Issue:    IssueAuthForbidden,
				Message:  "API refused access for this token (403 Forbidden)",
			}}
		case http.StatusNotFound:
			return []Finding{{
				Severity: SeverityError,
				Category: CategoryNetwork,
				Issue:    IssueEndpointNotFound,
				Message:  "API endpoint not found (404)",
			}}
		default:
			return []Finding{{
				Severity: SeverityWarning,
				Category: CategoryNetwork,
				Issue:    IssueUnexpectedResponse,
				Message:  fmt.Sprintf("API returned unexpected status %d", status),
			}}
		}
	}

	// No status code obtained; fall back to inspecting raw failure text
	// to disambiguate the root cause.
	findings := []Finding{{
		Severity: SeverityError,
		Category: CategoryNetwork,
		Issue:    IssueConnectionFailed,
		Message:  fmt.Sprintf("API request failed before a response was received: %s", o.Detail),
	}}
	switch {
	case matchesAny(o.Detail, dnsSignatures):
		findings = append(findings, Finding{
			Severity: SeverityError,
			Category: CategoryNetwork,
			Issue:    IssueDNSResolutionFailed,
			Message:  "failure text indicates a DNS resolution problem",
		})
	case matchesAny(o.Detail, refusedSignatures):
		findings = append(findings, Finding{
			Severity: SeverityError,
			Category: CategoryNetwork,
			Issue:    IssueConnectionRefused,
			Message:  "failure text indicates the connection was refused",
		})
	case matchesAny(o.Detail, certificateSignatures):
		findings = append(findings, Finding{
			Severity: SeverityError,
			Category: CategoryNetwork,
			Issue:    IssueTLSCertificateInvalid,
			Message:  "failure text indicates a TLS certificate problem",
		})
	}
	return findings
}

// Proxy classifies a proxy configuration outcome (environment or system
// store). A proxy that is configured while the target host is absent from
// the bypass list is the actionable case.
func Proxy(o probe.Outcome, host string) []Finding {
	if o.Status != probe.StatusSuccess || o.Measured.ProxyURL == "" {
		return nil
	}

	var findings []Finding
	if !o.Measured.HostBypassed {
		findings = append(findings, Finding{
			Severity: SeverityWarning,
			Category: CategoryProxyVPN,
			Issue:    IssueProxyBypassMissing,
			Message:  fmt.Sprintf("proxy %s is configured but %s is not on the bypass list", o.Measured.ProxyURL, host),
			Detail: map[string]string{
				"proxy":  o.Measured.ProxyURL,
				"bypass": o.Measured.BypassList,
			},
		})
	}
	if o.Measured.ProxyMismatch {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Category: CategoryProxyVPN,
			Issue:    IssueProxyConfigInconsistent,
			Message:  "HTTP and HTTPS proxy variables point at different proxies",
		})
	}
	return findings
}

// VPN applies the conjunction rule: VPN presence alone is informational,
// but a VPN whose route to the target also traverses the tunnel is
// escalated, because the tunnel then owns the traffic this tool is
// diagnosing.
func VPN(vpnOutcome, routeOutcome probe.Outcome) []Finding {
	if vpnOutcome.Status != probe.StatusSuccess || vpnOutcome.Measured.InterfaceName == "" {
		return nil
	}

	product := vpnOutcome.Measured.VPNProduct
	viaVPN := routeOutcome.Status == probe.StatusSuccess &&
		routeOutcome.Measured.TunnelMode == "full"

	if viaVPN {
		return []Finding{{
			Severity: SeverityWarning,
			Category: CategoryProxyVPN,
			Issue:    IssueVPNFullTunnelBlocking,
			Message: fmt.Sprintf("%s is running and the route to the API egresses through its tunnel (%s)",
				product, routeOutcome.Measured.InterfaceName),
			Detail: map[string]string{"product": product},
		}}
	}
	return []Finding{{
		Severity: SeverityInfo,
		Category: CategoryProxyVPN,
		Issue:    IssueVPNDetected,
		Message:  fmt.Sprintf("%s is running (interface %s); API traffic does not use the tunnel", product, vpnOutcome.Measured.InterfaceName),
		Detail:   map[string]string{"product": product},
	}}
}

// AuthToken classifies token presence.
func AuthToken(tokenVar string, present bool) []Finding {
	if present {
		return nil
	}
	return []Finding{{
		Severity: SeverityError,
		Category: CategoryAuthentication,
		Issue:    IssueAuthTokenNotSet,
		Message:  fmt.Sprintf("%s is not set; the client cannot authenticate", tokenVar),
	}}
}

// SecondaryCredential flags the deprecated credential variable.
func SecondaryCredential(legacyVar string, present bool) []Finding {
	if !present {
		return nil
	}
	return []Finding{{
		Severity: SeverityWarning,
		Category: CategoryEnvironment,
		Issue:    IssueSecondaryCredential,
		Message:  fmt.Sprintf("deprecated credential variable %s is set and may shadow the primary token", legacyVar),
	}}
}

// BaseURL compares an override against the expected fixed value.
func BaseURL(actual, expected string) []Finding {
	if actual == "" || strings.TrimRight(actual, "/") == expected {
		return nil
	}
	return []Finding{{
		Severity: SeverityWarning,
		Category: CategoryEnvironment,
		Issue:    IssueBaseURLOverride,
		Message:  fmt.Sprintf("base URL override %q does not match the expected %q", actual, expected),
		Detail:   map[string]string{"actual": actual, "expected": expected},
	}}
}

// LegacyCache flags a leftover console credential-cache directory.
func LegacyCache(path string, present bool) []Finding {
	if !present {
		return nil
	}
	return []Finding{{
		Severity: SeverityWarning,
		Category: CategoryConfiguration,
		Issue:    IssueConsoleCacheConflict,
		Message:  fmt.Sprintf("legacy console credential cache at %s may conflict with the current client", path),
		Detail:   map[string]string{"path": path},
	}}
}
