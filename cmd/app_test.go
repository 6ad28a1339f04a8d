package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/dumppublisher/internal/config"
	"evalgo.org/dumppublisher/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set(config.KeyGraphToDump, "http://mu.semte.ch/graphs/public")
	v.Set(config.KeyFileBaseName, "mandatarissen")
	v.Set(config.KeyDatasetSubject, "http://data.lblod.info/datasets/delta-producer/mandatarissen")
	v.Set(config.KeyShareDir, t.TempDir())
	v.Set(config.KeyPublicationEndpoint, "http://publication:8890/sparql/")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	return cfg
}

func TestNewAppRegistersDumpOperation(t *testing.T) {
	cfg := testConfig(t)
	logger, err := logging.New("error", "text")
	require.NoError(t, err)

	a := newApp(cfg, logger)
	assert.True(t, a.operations.Supports(config.DefaultTaskOperation))
	assert.Equal(t, []string{config.DefaultTaskOperation}, a.operations.Operations())

	families, err := a.registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestExportRequest(t *testing.T) {
	cfg := testConfig(t)
	req := exportRequest(cfg)

	assert.Equal(t, "http://mu.semte.ch/graphs/public", req.Graph)
	assert.Equal(t, "mandatarissen", req.FileBaseName)
	assert.Equal(t, "http://publication:8890/sparql", req.PublicationEndpoint)
	assert.Equal(t, config.DefaultBatchSize, req.BatchSize)
}

func TestCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "export", "run-task", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
