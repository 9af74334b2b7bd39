package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitGlobalLogger(t *testing.T) {
	require.Error(t, InitGlobalLogger("loud"))
	require.NoError(t, InitGlobalLogger("debug"))
	require.NoError(t, InitGlobalLogger("INFO"))

	log := GetLoggerWithPrefix("[TEST]")
	require.NotNil(t, log)
	log.Infof("logger ready level=%s", "INFO")
}
