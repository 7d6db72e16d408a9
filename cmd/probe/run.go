package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vechain/walletkit/internal/config"
)

type probeArgs struct {
	path    string
	timeout time.Duration
	config  config.Server
	verbose bool
}

// runProbe hits a management endpoint on the locally listening server and
// exits non-zero on failure. Used as a Kubernetes exec probe.
func runProbe(args probeArgs) {
	ctx, cancel := context.WithTimeout(context.Background(), args.timeout)
	defer cancel()

	probeURL := localManagementURL(args.config, args.path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", probeURL).Msg("Failed to build probe request")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal().Err(err).Str("url", probeURL).Msg("Probe request failed")
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)

	if args.verbose {
		fmt.Println(strings.TrimSpace(string(body)))
	}

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Str("url", probeURL).Msg("Probe failed")
		os.Exit(1)
	}
}

func localManagementURL(cfg config.Server, path string) string {
	listen := cfg.Echo.ListenAddress
	if strings.HasPrefix(listen, ":") {
		listen = "localhost" + listen
	}

	probeURL := url.URL{
		Scheme: "http",
		Host:   listen,
		Path:   path,
	}

	if cfg.Management.Secret != "" {
		query := url.Values{}
		query.Set("mgmt-secret", cfg.Management.Secret)
		probeURL.RawQuery = query.Encode()
	}

	return probeURL.String()
}
