package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	consts "github.com/khanhnv2901/apidiag/internal/shared/constants"
)

// APIProbe issues an authenticated GET against the fixed endpoint. It runs
// only when the token variable is set; without a token it reports an
// explicitly skipped Outcome and contributes no finding.
type APIProbe struct {
	Caps     Capabilities
	Endpoint string
	TokenVar string
	Timeout  time.Duration
	Logger   *zap.SugaredLogger
}

func (p *APIProbe) Run(ctx context.Context) Outcome {
	out := Outcome{Kind: KindAPI, CheckedAt: time.Now().UTC()}

	token, ok := p.Caps.LookupEnv(p.TokenVar)
	if !ok || token == "" {
		out.Status = StatusIndeterminate
		out.Skipped = true
		out.Detail = fmt.Sprintf("skipped: %s not set", p.TokenVar)
		return out
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set(consts.VersionHeader, consts.ProtocolVersion)

	reqCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	status, err := p.Caps.HTTPGet(reqCtx, p.Endpoint, header)
	if err != nil {
		// No status code obtained; the raw failure text is the only
		// signal left for the classifier to disambiguate root cause.
		out.Status = StatusFailure
		out.Detail = probeFailureDetail(reqCtx, err)
		p.debugf("api request failed: %v", err)
		return out
	}

	out.Measured.HTTPStatus = status
	out.Detail = fmt.Sprintf("GET %s returned %d", p.Endpoint, status)
	if status == http.StatusOK {
		out.Status = StatusSuccess
	} else {
		out.Status = StatusFailure
	}
	p.debugf("api status=%d", status)
	return out
}

func (p *APIProbe) Name() string { return "probe api" }

func (p *APIProbe) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Debugf(format, args...)
	}
}
