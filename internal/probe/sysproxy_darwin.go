//go:build darwin

package probe

import (
	"context"
	"fmt"
	"os/exec"

	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

// readSystemProxy shells out to scutil, the macOS dynamic store client,
// and parses the key/value proxy dictionary it prints.
func readSystemProxy(ctx context.Context) (SystemProxyConfig, error) {
	if _, err := exec.LookPath("scutil"); err != nil {
		return SystemProxyConfig{}, errs.ErrSystemProxyUnavailable
	}

	out, err := exec.CommandContext(ctx, "scutil", "--proxy").Output()
	if err != nil {
		return SystemProxyConfig{}, fmt.Errorf("scutil --proxy: %w", err)
	}
	return parseScutilProxy(string(out)), nil
}
