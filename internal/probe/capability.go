package probe

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"os"
	"runtime"

	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

// Iface is one enumerated network interface.
type Iface struct {
	Name string
	Up   bool
}

// SystemProxyConfig is the OS-level proxy store as read by the platform
// shim (scutil on macOS, the WinINET registry hive on Windows).
type SystemProxyConfig struct {
	Enabled    bool
	HTTPProxy  string
	HTTPSProxy string
	Bypass     []string
}

// Capabilities is the system facility surface the probes run against. The
// classifier, recommender, and aggregator are written once against this
// interface; platform variance lives in the adapter. Tests substitute a
// fake.
type Capabilities interface {
	// Resolve looks up host and returns its addresses.
	Resolve(ctx context.Context, host string) ([]string, error)

	// Handshake opens a TLS connection to host:port with SNI=host and
	// full chain verification, then closes it. Only the verdict matters.
	Handshake(ctx context.Context, host, port string) error

	// HTTPGet issues a GET and returns the response status code. The body
	// is discarded.
	HTTPGet(ctx context.Context, url string, header http.Header) (int, error)

	// ListInterfaces enumerates network interfaces.
	ListInterfaces() ([]Iface, error)

	// OutboundInterface reports the name of the interface the OS would
	// use to reach host.
	OutboundInterface(ctx context.Context, host string) (string, error)

	// LookupEnv mirrors os.LookupEnv.
	LookupEnv(name string) (string, bool)

	// SystemProxy reads OS-level proxy settings. Returns
	// errs.ErrSystemProxyUnavailable where no such store exists.
	SystemProxy(ctx context.Context) (SystemProxyConfig, error)
}

// SystemCaps is the production Capabilities adapter.
type SystemCaps struct{}

// NewSystemCaps verifies the platform is probeable and returns the
// adapter. An unsupported platform is a ToolMissing condition: the caller
// aborts before any category runs.
func NewSystemCaps() (*SystemCaps, error) {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
	default:
		return nil, errs.ErrUnsupportedPlatform
	}
	if _, err := net.Interfaces(); err != nil {
		return nil, errs.ErrCapabilityMissing
	}
	return &SystemCaps{}, nil
}

func (c *SystemCaps) Resolve(ctx context.Context, host string) ([]string, error) {
	resolver := &net.Resolver{}
	return resolver.LookupHost(ctx, host)
}

func (c *SystemCaps) Handshake(ctx context.Context, host, port string) error {
	dialer := &tls.Dialer{
		Config: &tls.Config{ServerName: host},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return err
	}
	return conn.Close()
}

func (c *SystemCaps) HTTPGet(ctx context.Context, url string, header http.Header) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	client := &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *SystemCaps) ListInterfaces() ([]Iface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	out := make([]Iface, 0, len(ifaces))
	for _, it := range ifaces {
		out = append(out, Iface{
			Name: it.Name,
			Up:   it.Flags&net.FlagUp != 0,
		})
	}
	return out, nil
}

// OutboundInterface resolves the route by opening a connected UDP socket
// toward the target and mapping the chosen local address back to an
// interface. No packet is sent.
func (c *SystemCaps) OutboundInterface(ctx context.Context, host string) (string, error) {
	addrs, err := c.Resolve(ctx, host)
	if err != nil || len(addrs) == 0 {
		return "", errs.ErrNoOutboundRoute
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", net.JoinHostPort(addrs[0], "443"))
	if err != nil {
		return "", errs.ErrNoOutboundRoute
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "", errs.ErrNoOutboundRoute
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, it := range ifaces {
		ifaceAddrs, err := it.Addrs()
		if err != nil {
			continue
		}
		for _, a := range ifaceAddrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			if ipNet.IP.Equal(local.IP) {
				return it.Name, nil
			}
		}
	}
	return "", errs.ErrNoOutboundRoute
}

func (c *SystemCaps) LookupEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (c *SystemCaps) SystemProxy(ctx context.Context) (SystemProxyConfig, error) {
	return readSystemProxy(ctx)
}
