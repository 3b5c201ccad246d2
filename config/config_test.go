// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymoushlmnop/matrix-discovery/config"
	"github.com/anonymoushlmnop/matrix-discovery/eventlog/ingest"
	"github.com/anonymoushlmnop/matrix-discovery/matrix"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1.0, cfg.Discovery.TemporalThreshold)
	assert.Equal(t, "first", cfg.Discovery.Granularity)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depmatrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discovery:
  temporal_threshold: 0.8
  existential_threshold: 0.7
  granularity: every
server:
  address: "127.0.0.1:9000"
`), 0o600))
	t.Setenv("DEPMATRIX_EXISTENTIAL_THRESHOLD", "0.95")
	t.Setenv("DEPMATRIX_WORKERS", "4")
	t.Setenv("DEPMATRIX_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Discovery.TemporalThreshold)
	assert.Equal(t, 0.95, cfg.Discovery.ExistentialThreshold)
	assert.Equal(t, "every", cfg.Discovery.Granularity)
	assert.Equal(t, 4, cfg.Discovery.Workers)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)

	opts, err := cfg.Discovery.MatrixOptions()
	require.NoError(t, err)
	o := matrix.NewOptions(opts...)
	assert.Equal(t, 4, o.Workers())
	assert.Equal(t, "every", o.Granularity().String())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DEPMATRIX_TEMPORAL_THRESHOLD", "1.5")
	_, err := config.Load("")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLoad_MalformedThresholdEnv(t *testing.T) {
	for _, key := range []string{"DEPMATRIX_TEMPORAL_THRESHOLD", "DEPMATRIX_EXISTENTIAL_THRESHOLD", "DEPMATRIX_MAX_TRACES"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "0,8")
			_, err := config.Load("")
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_MaxTraces(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, ingest.DefaultMaxTraces, cfg.Ingest.MaxTraces)

	t.Setenv("DEPMATRIX_MAX_TRACES", "10")
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Ingest.MaxTraces)
	assert.Len(t, cfg.Ingest.PipelineOptions(), 1)

	t.Setenv("DEPMATRIX_MAX_TRACES", "0")
	_, err = config.Load("")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestValidate_Granularity(t *testing.T) {
	cfg := config.Default()
	cfg.Discovery.Granularity = "sometimes"
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
	_, err := cfg.Discovery.MatrixOptions()
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestEnvHelpers_Fallbacks(t *testing.T) {
	t.Setenv("DEPMATRIX_TEST_F", "abc")
	t.Setenv("DEPMATRIX_TEST_B", "yes")
	assert.Equal(t, 0.5, config.GetEnvFloat("DEPMATRIX_TEST_F", 0.5))
	assert.Equal(t, 7, config.GetEnvInt("DEPMATRIX_TEST_F", 7))
	assert.True(t, config.GetEnvBool("DEPMATRIX_TEST_B", true))
	assert.Equal(t, "d", config.GetEnvString("DEPMATRIX_TEST_UNSET", "d"))
	assert.Equal(t, time.Minute, config.GetEnvDuration("DEPMATRIX_TEST_F", time.Minute))
}

func TestLoadEnv_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DEPMATRIX_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("DEPMATRIX_TEST_DOTENV", "")
	os.Unsetenv("DEPMATRIX_TEST_DOTENV")

	config.LoadEnv(path)
	assert.Equal(t, "loaded", os.Getenv("DEPMATRIX_TEST_DOTENV"))
	// a missing file is tolerated
	assert.NotPanics(t, func() { config.LoadEnv(filepath.Join(t.TempDir(), "none.env")) })
}
