// Package recommend maps findings to ordered remediation strings. The
// mapping is a pure static lookup parameterized by platform and by detail
// the probes captured; duplicate suppression happens on session append.
package recommend

import (
	"fmt"

	"github.com/khanhnv2901/apidiag/internal/classify"
	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
)

// Params carries the platform and captured detail the templates need.
type Params struct {
	GOOS       string
	BypassList string
	VPNProduct string
}

// For returns the remediation strings for one finding, in priority order.
// Every Error and Warning finding yields at least one string; Info
// findings never do.
func For(f classify.Finding, p Params) []string {
	switch f.Issue {
	case classify.IssueDNSResolutionFailed:
		return []string{
			fmt.Sprintf("Verify that %s resolves: try `nslookup %s` and check your DNS server settings.", consts.TargetHost, consts.TargetHost),
			"If you are on a corporate network, ask your network team whether internal DNS must be used.",
		}
	case classify.IssueTLSCertificateInvalid:
		return []string{
			"A middlebox (corporate proxy, antivirus, captive portal) is likely intercepting TLS. Ask your IT team for the inspection CA certificate and install it in the system trust store.",
		}
	case classify.IssueTLSUnverified:
		return []string{
			fmt.Sprintf("Check that outbound TCP 443 to %s is allowed by your firewall.", consts.TargetHost),
		}
	case classify.IssueAuthFailed:
		return []string{
			fmt.Sprintf("The token in %s was rejected. Generate a new token from the dashboard and re-export it.", consts.EnvAPIToken),
		}
	case classify.IssueAuthForbidden:
		return []string{
			"The token authenticated but lacks access to this endpoint. Check the token's scopes and your organization's access policy.",
		}
	case classify.IssueEndpointNotFound:
		return []string{
			fmt.Sprintf("The endpoint was not found. If %s is set, remove it or point it back to %s.", consts.EnvBaseURL, consts.ExpectedBaseURL),
		}
	case classify.IssueConnectionFailed:
		return []string{
			"The request never reached the API. Work through the network findings above; they share the same root cause.",
		}
	case classify.IssueConnectionRefused:
		return []string{
			"The connection was refused, which usually means a proxy or firewall rejected it. Verify your proxy settings and firewall egress rules.",
		}
	case classify.IssueUnexpectedResponse:
		return []string{
			"The API answered with an unexpected status. Check https://status.devgrid.io for an ongoing incident before changing local configuration.",
		}
	case classify.IssueProxyBypassMissing:
		return proxyBypassAdvice(p)
	case classify.IssueVPNFullTunnelBlocking:
		return vpnAdvice(p)
	case classify.IssueConsoleCacheConflict:
		return []string{
			"Remove the legacy console credential cache directory (shown above) after backing it up; the current client does not read it and stale credentials there cause confusing auth behavior.",
		}
	case classify.IssueSecondaryCredential:
		return []string{
			fmt.Sprintf("Unset %s; it is deprecated and shadows %s in older client versions.", consts.EnvLegacyToken, consts.EnvAPIToken),
		}
	case classify.IssueAuthTokenNotSet:
		return tokenAdvice(p)
	case classify.IssueBaseURLOverride:
		return []string{
			fmt.Sprintf("Unset %s unless you intentionally run against a self-hosted gateway; the expected value is %s.", consts.EnvBaseURL, consts.ExpectedBaseURL),
		}
	}
	return nil
}

func tokenAdvice(p Params) []string {
	if p.GOOS == "windows" {
		return []string{
			fmt.Sprintf("Set the token for your user: `setx %s <your-token>` and restart the terminal.", consts.EnvAPIToken),
		}
	}
	return []string{
		fmt.Sprintf("Export the token in your shell profile: `export %s=<your-token>` in ~/.zshrc or ~/.bashrc, then open a new shell.", consts.EnvAPIToken),
	}
}

func proxyBypassAdvice(p Params) []string {
	current := p.BypassList
	if current == "" {
		current = "(empty)"
	}
	if p.GOOS == "windows" {
		return []string{
			fmt.Sprintf("Add %s to the proxy bypass list (currently %s): Settings → Network & Internet → Proxy, or extend NO_PROXY.", consts.TargetHost, current),
		}
	}
	return []string{
		fmt.Sprintf("Add %s to NO_PROXY (currently %s) so API traffic skips the proxy: `export NO_PROXY=%s,$NO_PROXY`.", consts.TargetHost, current, consts.TargetHost),
	}
}

func vpnAdvice(p Params) []string {
	product := p.VPNProduct
	if product == "" {
		product = "your VPN client"
	}
	return []string{
		fmt.Sprintf("%s routes API traffic through its tunnel. If API calls fail or stall, ask your VPN administrator to split-tunnel %s or allow it through the tunnel's egress policy.", product, consts.TargetHost),
	}
}
