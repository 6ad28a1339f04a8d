// Package client manages SPARQL client creation and configuration.
package client

import (
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/helpers"
	"evalgo.org/dumppublisher/internal/sparql"
)

// Options are shared by every client the manager creates.
type Options struct {
	UpdateEndpoint string
	Sudo           bool
	Retries        int
	Timeout        time.Duration
	Debug          bool
}

// Manager handles SPARQL client creation and caching
type Manager struct {
	defaultEndpoint string
	opts            Options
	log             *logrus.Entry
	cache           map[string]*sparql.Client
	mu              sync.RWMutex
}

// NewManager creates a new client manager. defaultEndpoint serves both reads
// and writes unless Options.UpdateEndpoint is set.
func NewManager(defaultEndpoint string, opts Options, log *logrus.Entry) *Manager {
	return &Manager{
		defaultEndpoint: helpers.NormalizeURL(defaultEndpoint),
		opts:            opts,
		log:             log,
		cache:           make(map[string]*sparql.Client),
	}
}

// Default returns the client for the default endpoint. Updates issued through
// it go to the configured update endpoint.
func (m *Manager) Default() *sparql.Client {
	return m.GetClient("")
}

// GetClient returns a read client for endpoint. An empty endpoint selects the
// default one. Clients are cached per endpoint URL.
func (m *Manager) GetClient(endpoint string) *sparql.Client {
	endpoint = helpers.NormalizeURL(endpoint)
	if endpoint == "" {
		endpoint = m.defaultEndpoint
	}

	m.mu.RLock()
	if cached, exists := m.cache[endpoint]; exists {
		m.mu.RUnlock()
		return cached
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, exists := m.cache[endpoint]; exists {
		return cached
	}

	httpClient := &http.Client{}
	if m.opts.Debug {
		httpClient = helpers.EnableHTTPDebugLogging(httpClient, m.log)
	}

	cfg := sparql.Config{
		QueryEndpoint: endpoint,
		Sudo:          m.opts.Sudo,
		Retries:       m.opts.Retries,
		Timeout:       m.opts.Timeout,
	}
	if endpoint == m.defaultEndpoint {
		cfg.UpdateEndpoint = helpers.NormalizeURL(m.opts.UpdateEndpoint)
	}

	c := sparql.NewClient(cfg, httpClient, m.log.WithField("endpoint", endpoint))
	m.cache[endpoint] = c
	return c
}
