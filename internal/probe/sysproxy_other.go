//go:build !darwin && !windows

package probe

import (
	"context"

	errs "github.com/khanhnv2901/apidiag/internal/shared/errors"
)

// Linux and the other Unix-likes have no single OS-level proxy store;
// desktop environments each keep their own. The probe degrades to
// Indeterminate and the environment variable family remains the source of
// truth.
func readSystemProxy(ctx context.Context) (SystemProxyConfig, error) {
	return SystemProxyConfig{}, errs.ErrSystemProxyUnavailable
}
