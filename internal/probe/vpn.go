package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// vpnProductSignatures maps interface/adapter name fragments to the VPN
// client they indicate. Matching is case-insensitive substring.
var vpnProductSignatures = map[string][]string{
	"WireGuard":            {"wg", "wireguard"},
	"Tailscale":            {"tailscale"},
	"ZeroTier":             {"zerotier"},
	"OpenVPN":              {"tap-windows", "openvpn"},
	"Cisco AnyConnect":     {"cscotun", "anyconnect"},
	"GlobalProtect":        {"gpd", "pangp"},
	"NordVPN":              {"nordlynx", "nordvpn"},
	"Mullvad":              {"mullvad"},
	"ProtonVPN":            {"proton"},
	"ExpressVPN":           {"expressvpn"},
	"Fortinet FortiClient": {"fortissl", "forticlient"},
	"Check Point Harmony":  {"cphwan"},
	"Microsoft Always On":  {"rasgre", "sstp"},
}

// tunnelNamePrefixes are generic tunnel-style interface names with no
// product identity (utun on macOS, tun/tap/ppp elsewhere).
var tunnelNamePrefixes = []string{"utun", "tun", "tap", "ppp", "ipsec"}

// MatchVPNProduct reports the VPN product an interface name indicates, if
// any.
func MatchVPNProduct(name string) (string, bool) {
	lower := strings.ToLower(name)
	for product, fragments := range vpnProductSignatures {
		for _, frag := range fragments {
			if strings.Contains(lower, frag) {
				return product, true
			}
		}
	}
	return "", false
}

// IsTunnelInterface reports whether the name looks like a VPN-owned
// tunnel, either by product signature or by generic tunnel naming.
func IsTunnelInterface(name string) bool {
	if _, ok := MatchVPNProduct(name); ok {
		return true
	}
	lower := strings.ToLower(name)
	for _, prefix := range tunnelNamePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// VPNInterfaceProbe enumerates network interfaces and reports whether a
// VPN client appears to be running, with a candidate product identity.
type VPNInterfaceProbe struct {
	Caps   Capabilities
	Logger *zap.SugaredLogger
}

func (p *VPNInterfaceProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindVPNInterface, CheckedAt: time.Now().UTC()}

	ifaces, err := p.Caps.ListInterfaces()
	if err != nil {
		out.Status = StatusIndeterminate
		out.Detail = fmt.Sprintf("could not enumerate interfaces: %v", err)
		return out
	}

	for _, it := range ifaces {
		if !it.Up || !IsTunnelInterface(it.Name) {
			continue
		}
		out.Status = StatusSuccess
		out.Measured.InterfaceName = it.Name
		if product, ok := MatchVPNProduct(it.Name); ok {
			out.Measured.VPNProduct = product
			out.Detail = fmt.Sprintf("%s tunnel interface %s is up", product, it.Name)
		} else {
			out.Measured.VPNProduct = "unidentified VPN"
			out.Detail = fmt.Sprintf("tunnel interface %s is up", it.Name)
		}
		p.debugf("vpn interface detected: %s", it.Name)
		return out
	}

	out.Status = StatusSuccess
	out.Detail = "no VPN tunnel interface detected"
	return out
}

func (p *VPNInterfaceProbe) Name() string { return "probe vpn-interface" }

func (p *VPNInterfaceProbe) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}
