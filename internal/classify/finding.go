package classify

// Severity orders findings by how actionable they are. Only Error affects
// the run's exit status.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// Issue codes form the stable taxonomy the recommendation engine keys on.
const (
	IssueDNSResolutionFailed     = "dns-resolution-failed"
	IssueTLSCertificateInvalid   = "tls-certificate-invalid"
	IssueTLSUnverified           = "tls-unverified"
	IssueAuthFailed              = "auth-failed"
	IssueAuthForbidden           = "auth-forbidden"
	IssueEndpointNotFound        = "endpoint-not-found"
	IssueConnectionFailed        = "connection-failed"
	IssueConnectionRefused       = "connection-refused"
	IssueUnexpectedResponse      = "unexpected-response"
	IssueProxyBypassMissing      = "proxy-bypass-missing"
	IssueProxyConfigInconsistent = "proxy-config-inconsistent"
	IssueVPNDetected             = "vpn-detected"
	IssueVPNFullTunnelBlocking   = "vpn-full-tunnel-blocking"
	IssueConsoleCacheConflict    = "console-cache-conflict"
	IssueSecondaryCredential     = "secondary-credential-detected"
	IssueAuthTokenNotSet         = "auth-token-not-set"
	IssueBaseURLOverride         = "base-url-override"
)

// Finding is a classified issue derived from one or more probe Outcomes.
type Finding struct {
	Severity Severity          `json:"severity"`
	Category string            `json:"category"`
	Issue    string            `json:"issue"`
	Message  string            `json:"message"`
	Detail   map[string]string `json:"detail,omitempty"`
}

// Category names, in execution order.
const (
	CategoryEnvironment    = "Environment"
	CategoryAuthentication = "Authentication"
	CategoryNetwork        = "Network"
	CategoryProxyVPN       = "Proxy/VPN"
	CategoryInstallation   = "Installation"
	CategoryConfiguration  = "Configuration"
)
