//go:build windows

package probe

import (
	"context"
	"fmt"
	"os/exec"

	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

const inetSettingsKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Internet Settings`

// readSystemProxy queries the per-user WinINET registry hive, which is
// what the Windows settings UI writes.
func readSystemProxy(ctx context.Context) (SystemProxyConfig, error) {
	if _, err := exec.LookPath("reg"); err != nil {
		return SystemProxyConfig{}, errs.ErrSystemProxyUnavailable
	}

	out, err := exec.CommandContext(ctx, "reg", "query", inetSettingsKey).Output()
	if err != nil {
		return SystemProxyConfig{}, fmt.Errorf("reg query: %w", err)
	}
	return parseInetSettings(string(out)), nil
}
