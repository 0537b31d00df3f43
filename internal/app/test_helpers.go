package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/viewparams/internal/registry"
	"github.com/specialistvlad/viewparams/internal/testutil"
	"github.com/stretchr/testify/require"
)

// SetupAppTest creates a new app instance for system testing. Logs are
// captured at debug level and dumped when VIEWPARAMS_TEST_LOGS=true.
func SetupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	testApp, err := NewApp(logBuffer, validated, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("VIEWPARAMS_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
