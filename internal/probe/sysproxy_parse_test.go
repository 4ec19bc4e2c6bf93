package probe

import "testing"

const scutilSample = `<dictionary> {
  ExceptionsList : <array> {
    0 : localhost
    1 : *.corp.internal
  }
  FTPPassive : 1
  HTTPEnable : 1
  HTTPPort : 3128
  HTTPProxy : proxy.corp
  HTTPSEnable : 1
  HTTPSPort : 3128
  HTTPSProxy : proxy.corp
}`

func TestParseScutilProxy(t *testing.T) {
	cfg := parseScutilProxy(scutilSample)

	if !cfg.Enabled {
		t.Fatal("expected proxy enabled")
	}
	if cfg.HTTPSProxy != "proxy.corp:3128" {
		t.Errorf("unexpected https proxy %q", cfg.HTTPSProxy)
	}
	if len(cfg.Bypass) != 2 || cfg.Bypass[1] != "*.corp.internal" {
		t.Errorf("unexpected bypass list %v", cfg.Bypass)
	}
}

func TestParseScutilProxy_Disabled(t *testing.T) {
	cfg := parseScutilProxy("<dictionary> {\n  HTTPEnable : 0\n}")
	if cfg.Enabled {
		t.Error("expected proxy disabled")
	}
}

const regSample = `
HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Internet Settings
    ProxyEnable    REG_DWORD    0x1
    ProxyServer    REG_SZ    proxy.corp:8080
    ProxyOverride    REG_SZ    *.corp.internal;localhost;<local>
`

func TestParseInetSettings(t *testing.T) {
	cfg := parseInetSettings(regSample)

	if !cfg.Enabled {
		t.Fatal("expected proxy enabled")
	}
	if cfg.HTTPProxy != "proxy.corp:8080" || cfg.HTTPSProxy != "proxy.corp:8080" {
		t.Errorf("unexpected proxies %q / %q", cfg.HTTPProxy, cfg.HTTPSProxy)
	}
	if len(cfg.Bypass) != 2 {
		t.Errorf("expected <local> dropped from bypass, got %v", cfg.Bypass)
	}
}

func TestParseInetSettings_PerScheme(t *testing.T) {
	cfg := parseInetSettings(`
    ProxyEnable    REG_DWORD    0x1
    ProxyServer    REG_SZ    http=a.corp:80;https=b.corp:443
`)
	if cfg.HTTPProxy != "a.corp:80" {
		t.Errorf("unexpected http proxy %q", cfg.HTTPProxy)
	}
	if cfg.HTTPSProxy != "b.corp:443" {
		t.Errorf("unexpected https proxy %q", cfg.HTTPSProxy)
	}
}
