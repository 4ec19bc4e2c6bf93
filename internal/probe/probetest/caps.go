// Package probetest provides a scriptable Capabilities fake for probe,
// classifier, and orchestrator tests.
package probetest

import (
	"context"
	"net/http"

	"github.com/khanhnv2901/apidiag/internal/probe"
)

// FakeCaps implements probe.Capabilities with canned responses.
type FakeCaps struct {
	Addrs      []string
	ResolveErr error

	HandshakeErr error

	HTTPStatus int
	HTTPErr    error
	// BlockHTTP makes HTTPGet wait for context cancellation, simulating
	// an API call that never returns within its bound.
	BlockHTTP bool

	Ifaces    []probe.Iface
	IfacesErr error

	OutIface string
	OutErr   error

	Env map[string]string

	SysProxy    probe.SystemProxyConfig
	SysProxyErr error

	// SeenHeader captures the header of the last HTTPGet.
	SeenHeader http.Header
}

func (f *FakeCaps) Resolve(ctx context.Context, host string) ([]string, error) {
	return f.Addrs, f.ResolveErr
}

func (f *FakeCaps) Handshake(ctx context.Context, host, port string) error {
	return f.HandshakeErr
}

func (f *FakeCaps) HTTPGet(ctx context.Context, url string, header http.Header) (int, error) {
	f.SeenHeader = header
	if f.BlockHTTP {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	return f.HTTPStatus, f.HTTPErr
}

func (f *FakeCaps) ListInterfaces() ([]probe.Iface, error) {
	return f.Ifaces, f.IfacesErr
}

func (f *FakeCaps) OutboundInterface(ctx context.Context, host string) (string, error) {
	return f.OutIface, f.OutErr
}

func (f *FakeCaps) LookupEnv(name string) (string, bool) {
	v, ok := f.Env[name]
	return v, ok
}

func (f *FakeCaps) SystemProxy(ctx context.Context) (probe.SystemProxyConfig, error) {
	return f.SysProxy, f.SysProxyErr
}
