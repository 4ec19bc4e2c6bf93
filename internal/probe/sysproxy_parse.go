package probe

import (
	"bufio"
	"strings"
)

// parseScutilProxy understands the flat "Key : Value" lines of scutil
// --proxy output plus the ExceptionsList array entries ("0 : host").
func parseScutilProxy(out string) SystemProxyConfig {
	var cfg SystemProxyConfig
	kv := map[string]string{}
	inExceptions := false

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "ExceptionsList"):
			inExceptions = true
			continue
		case line == "}":
			inExceptions = false
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if inExceptions {
			if val != "" {
				cfg.Bypass = append(cfg.Bypass, val)
			}
			continue
		}
		kv[key] = val
	}

	if kv["HTTPEnable"] == "1" {
		cfg.Enabled = true
		cfg.HTTPProxy = joinHostPort(kv["HTTPProxy"], kv["HTTPPort"])
	}
	if kv["HTTPSEnable"] == "1" {
		cfg.Enabled = true
		cfg.HTTPSProxy = joinHostPort(kv["HTTPSProxy"], kv["HTTPSPort"])
	}
	return cfg
}

func joinHostPort(host, port string) string {
	if host == "" {
		return ""
	}
	if port == "" {
		return host
	}
	return host + ":" + port
}

// parseInetSettings reads "Name  REG_TYPE  Value" rows from reg query
// output. ProxyServer may be a single "host:port" or a
// "scheme=host:port;..." list; ProxyOverride is semicolon separated.
func parseInetSettings(out string) SystemProxyConfig {
	var cfg SystemProxyConfig

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		name, value := fields[0], strings.Join(fields[2:], " ")
		switch name {
		case "ProxyEnable":
			cfg.Enabled = strings.EqualFold(value, "0x1")
		case "ProxyServer":
			for _, part := range strings.Split(value, ";") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				switch {
				case strings.HasPrefix(part, "http="):
					cfg.HTTPProxy = strings.TrimPrefix(part, "http=")
				case strings.HasPrefix(part, "https="):
					cfg.HTTPSProxy = strings.TrimPrefix(part, "https=")
				case !strings.Contains(part, "="):
					cfg.HTTPProxy = part
					cfg.HTTPSProxy = part
				}
			}
		case "ProxyOverride":
			for _, host := range strings.Split(value, ";") {
				host = strings.TrimSpace(host)
				if host != "" && host != "<local>" {
					cfg.Bypass = append(cfg.Bypass, host)
				}
			}
		}
	}
	return cfg
}
