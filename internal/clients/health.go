package clients

import (
	"context"
	"net/http"
	"time"
)

const defaultProbeTimeout = 2 * time.Second

// HealthProbe names one backend endpoint checked by /health/upstream.
type HealthProbe struct {
	Name    string
	Client  *Client
	Path    string
	Timeout time.Duration
}

type HealthResult struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"statusCode,omitempty"`
	LatencyMS  int64  `json:"latencyMs"`
	Error      string `json:"error,omitempty"`
}

// CheckHealth never returns an error; a failed probe is reported in the result.
func CheckHealth(ctx context.Context, probe HealthProbe) HealthResult {
	timeout := probe.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res := HealthResult{Name: probe.Name}
	started := time.Now()
	resp, err := probe.Client.Do(ctx, http.MethodGet, probe.Path, "", nil, http.Header{})
	res.LatencyMS = time.Since(started).Milliseconds()
	if err != nil {
		res.Error = (&UnreachableError{Port: probe.Client.Port(), Err: err}).Error()
		return res
	}
	defer resp.Body.Close()

	res.StatusCode = resp.StatusCode
	res.OK = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !res.OK {
		res.Error = http.StatusText(resp.StatusCode)
	}
	return res
}
