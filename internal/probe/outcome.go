package probe

import (
	"context"
	"time"
)

// Kind identifies which probe produced an Outcome.
type Kind string

const (
	KindDNS          Kind = "dns"
	KindTLS          Kind = "tls"
	KindAPI          Kind = "api"
	KindProxyEnv     Kind = "proxy-env"
	KindSystemProxy  Kind = "system-proxy"
	KindVPNInterface Kind = "vpn-interface"
	KindRoute        Kind = "route"

	// Local, non-network inspection records share the probe result shape
	// so the renderer can treat every check uniformly.
	KindEnvironment   Kind = "environment"
	KindInstallation  Kind = "installation"
	KindConfiguration Kind = "configuration"
)

// Status is the coarse verdict of a single probe.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	// StatusIndeterminate means the probe could not determine an answer
	// (optional capability absent, permission denied, probe skipped).
	// It is never escalated past Info.
	StatusIndeterminate Status = "indeterminate"
)

// Measured carries the structured values a probe captured alongside its
// verdict. Only the fields relevant to the probe's kind are populated.
type Measured struct {
	Addresses     []string `json:"addresses,omitempty"`
	HTTPStatus    int      `json:"http_status,omitempty"`
	InterfaceName string   `json:"interface_name,omitempty"`
	TunnelMode    string   `json:"tunnel_mode,omitempty"` // "full" or "split"
	VPNProduct    string   `json:"vpn_product,omitempty"`
	ProxyURL      string   `json:"proxy_url,omitempty"`
	BypassList    string   `json:"bypass_list,omitempty"`
	HostBypassed  bool     `json:"host_bypassed,omitempty"`
	ProxyMismatch bool     `json:"proxy_mismatch,omitempty"`
}

// Outcome is the immutable result of one probe. Probes never raise faults
// to the orchestrator: every run, including a failed or skipped one,
// returns a completed Outcome.
type Outcome struct {
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	Skipped   bool      `json:"skipped,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	Measured  Measured  `json:"measured,omitempty"`
}

// Probe is one bounded external check. Implementations are side-effect
// free, independent of other probes, and degrade to Indeterminate rather
// than failing the run when an optional capability is unavailable.
type Probe interface {
	Run(ctx context.Context) Outcome
	Name() string
}
