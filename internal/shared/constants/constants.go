package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

// Fixed API target. The diagnostic always probes this endpoint; a
// DEVGRID_BASE_URL override is compared against ExpectedBaseURL and
// reported, never followed.
const (
	TargetHost      = "api.devgrid.io"
	TargetPort      = "443"
	APIEndpoint     = "https://api.devgrid.io/v1/ping"
	ExpectedBaseURL = "https://api.devgrid.io"

	// VersionHeader carries the fixed protocol version on the API probe.
	VersionHeader   = "X-DevGrid-Version"
	ProtocolVersion = "2024-06-01"
)

// Environment variables the tool reads. Values are never printed; shell
// profiles are scanned for the token variable's name only.
const (
	EnvAPIToken    = "DEVGRID_API_TOKEN"
	EnvLegacyToken = "DEVGRID_AUTH_TOKEN"
	EnvBaseURL     = "DEVGRID_BASE_URL"
)

const (
	// APITimeout bounds the authenticated GET against the fixed endpoint.
	APITimeout = 10 * time.Second
	// DNSTimeout bounds the resolver lookup.
	DNSTimeout = 5 * time.Second
	// TLSTimeout bounds the handshake probe.
	TLSTimeout = 5 * time.Second
	// RouteTimeout bounds outbound-route and system-proxy lookups.
	RouteTimeout = 3 * time.Second
)

// ProbeRatePerSecond paces network-touching probes so a diagnostic run is
// gentle on resolvers and gateways.
const ProbeRatePerSecond = 4
