package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

const pingTimeout = 10 * time.Second

// Ping checks that serverURL is a catalog API by calling its health endpoint.
// It accepts either the API root (".../api") or the host root.
func Ping(ctx context.Context, serverURL string) (string, error) {
	serverURL = strings.TrimRight(serverURL, "/")

	candidates := []string{serverURL}
	if !strings.HasSuffix(serverURL, "/api") {
		candidates = append(candidates, serverURL+"/api")
	}

	client := NewClient(serverURL, slog.Default(), WithTimeout(pingTimeout))

	var errs []string
	for _, base := range candidates {
		client.baseURL = base
		body, err := client.doRequest(ctx, http.MethodGet, "health", nil, nil)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		var health healthResponse
		if err := sonic.Unmarshal(body, &health); err != nil {
			errs = append(errs, fmt.Sprintf("%s/health: failed to parse response: %v", base, err))
			continue
		}
		if health.Status != "healthy" && health.Status != statusOK && health.Status != statusSuccess {
			errs = append(errs, fmt.Sprintf("%s/health: unexpected status %q", base, health.Status))
			continue
		}
		return base, nil
	}

	return "", fmt.Errorf("not a catalog server: %s", strings.Join(errs, "; "))
}
