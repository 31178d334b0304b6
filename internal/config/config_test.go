package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "state_dir: /var/lib/harvester\n"))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/harvester", cfg.StateDir)
	assert.Equal(t, 24*time.Hour, cfg.Harvest.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.Harvest.ErrorInterval)
	assert.False(t, cfg.Harvest.WaitOnError)
	assert.Equal(t, SinkSRU, cfg.Sink.Type)
	assert.Equal(t, 3, cfg.Source.OAIPMH.Retry.MaxAttempts)
	assert.Equal(t, "records", cfg.Sink.Database.Table)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("HARVESTER_DB_PASSWORD", "s3cret")
	cfg, err := Load(writeConfig(t, `
sink:
  type: postgres
  database:
    host: db
    user: harvester
    password: ${HARVESTER_DB_PASSWORD}
    dbname: records
harvest:
  refresh_interval: 6h
  error_interval: 1m
  wait_on_error: true
source:
  oaipmh:
    exclude_sets: [private, drafts]
    repositories:
      - baseurl: https://example.org/oai
        metadata_prefix: oai_dc
        set: books
        repository_group_id: group
`))
	require.NoError(t, err)

	assert.Equal(t, "host=db port=5432 user=harvester password=s3cret dbname=records sslmode=disable", cfg.Sink.Database.DSN())
	assert.Equal(t, 6*time.Hour, cfg.Harvest.RefreshInterval)
	assert.Equal(t, time.Minute, cfg.Harvest.ErrorInterval)
	assert.True(t, cfg.Harvest.WaitOnError)
	require.Len(t, cfg.Source.OAIPMH.Repositories, 1)
	assert.Equal(t, "books", cfg.Source.OAIPMH.Repositories[0].Set)
	assert.Equal(t, []string{"private", "drafts"}, cfg.Source.OAIPMH.ExcludeSets)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown sink", "sink:\n  type: kafka\n", "unknown sink type"},
		{"missing baseurl", "source:\n  oaipmh:\n    repositories:\n      - metadata_prefix: oai_dc\n", "baseurl is required"},
		{"missing prefix", "source:\n  oaipmh:\n    repositories:\n      - baseurl: http://x\n", "metadata_prefix is required"},
		{"bad yaml", "harvest: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config file")
}
