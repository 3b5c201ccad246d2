// SPDX-License-Identifier: MIT

package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonymoushlmnop/matrix-discovery/logger"
	"github.com/anonymoushlmnop/matrix-discovery/logger/console"
)

func TestFacade_DispatchesToAllBackends(t *testing.T) {
	var a, b bytes.Buffer
	logger.Init(
		console.New(console.Params{Output: &a}),
		console.New(console.Params{Output: &b, Debug: true}),
	)
	t.Cleanup(func() { logger.Init() })

	logger.Debug("hidden at info")
	logger.Info("discovered", "activities", 3)

	assert.NotContains(t, a.String(), "hidden at info")
	assert.Contains(t, a.String(), "discovered")
	assert.Contains(t, a.String(), "activities=3")
	assert.Contains(t, b.String(), "hidden at info")
}

func TestFacade_NoBackendsIsNoop(t *testing.T) {
	logger.Init()
	assert.NotPanics(t, func() {
		logger.Warn("nothing")
		logger.Error("still nothing")
	})
}

func TestConsole_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := console.New(console.Params{Output: &buf, JSON: true})
	l.Warn("slow", "ms", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
	assert.Equal(t, "slow", rec["msg"])
	assert.Equal(t, "warn", rec["level"])
}
