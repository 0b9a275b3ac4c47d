package cli

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/trailquest/trailquest-go/pkg/authapi"
	"github.com/trailquest/trailquest-go/pkg/config"
	"github.com/trailquest/trailquest-go/pkg/credential"
	"github.com/trailquest/trailquest-go/pkg/gateway"
	"github.com/trailquest/trailquest-go/pkg/observability"
	"github.com/trailquest/trailquest-go/pkg/session"
	"github.com/trailquest/trailquest-go/pkg/store"
)

// sdk bundles the wired-up client stack for one CLI invocation
type sdk struct {
	cfg        *config.Config
	logger     *observability.Logger
	controller *session.Controller
	httpClient *http.Client
	closers    []func()
}

// newSDK builds the full stack from environment configuration
func newSDK() (*sdk, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stderr)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
	}

	s := &sdk{cfg: cfg, logger: logger}

	backend, err := s.openBackend()
	if err != nil {
		return nil, err
	}

	s.controller = session.New(session.Config{
		Auth:          authapi.NewClient(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.HTTPTimeout}),
		Store:         store.NewSessionStore(backend, logger, metrics),
		Validator:     credential.NewValidator(),
		RefreshWindow: cfg.Session.RefreshWindow,
		CheckInterval: cfg.Session.CheckInterval,
		Logger:        logger,
		Metrics:       metrics,
	})
	s.closers = append(s.closers, s.controller.Close)

	s.httpClient = gateway.NewClient(s.controller,
		gateway.WithLogger(logger),
		gateway.WithMetrics(metrics),
		gateway.WithOnAuthRequired(func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'trailquest login' to sign in again.")
		}),
	)
	s.httpClient.Timeout = cfg.API.HTTPTimeout

	return s, nil
}

func (s *sdk) openBackend() (store.Store, error) {
	switch s.cfg.Store.Backend {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreFile:
		return store.NewFileStore(s.cfg.Store.Path)
	case config.StoreSQLite:
		backend, err := store.NewSQLiteStore(s.cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { backend.Close() })
		return backend, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", s.cfg.Store.Backend)
	}
}

// Close tears the stack down in reverse order
func (s *sdk) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// readSecret takes the secret from TRAILQUEST_SECRET or prompts for it
func readSecret() (string, error) {
	if secret := os.Getenv("TRAILQUEST_SECRET"); secret != "" {
		return secret, nil
	}
	fmt.Fprint(os.Stderr, "Secret: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	secret := strings.TrimSpace(line)
	if secret == "" {
		return "", fmt.Errorf("secret must not be empty")
	}
	return secret, nil
}
