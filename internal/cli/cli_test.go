package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/viewparams/internal/app"
	"github.com/specialistvlad/viewparams/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	root := testutil.WriteFiles(t, map[string]string{
		"viewparams.toml": `
location   = "two"
log_level  = "warn"
http_port  = 8081
manifests  = ["from-file"]
`,
		"broken.toml": `location = `,
	})
	configPath := filepath.Join(root, "viewparams.toml")

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      string
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-manifests", "/a,/b",
				"--manifests=/c",
				"--default-view=two",
				"--log-level=debug",
				"--log-format=json",
				"--http-port=8080",
				"--bridge-url=http://localhost:3000",
				"--bridge-namespace=/ui",
				"--bridge-insecure",
				"--serve",
				"one/tab=TAB_ONE",
			},
			expectedConfig: &app.Config{
				ManifestPaths:   []string{"/a", "/b", "/c"},
				Location:        "one/tab=TAB_ONE",
				DefaultView:     "two",
				LogLevel:        "debug",
				LogFormat:       "json",
				HTTPPort:        8080,
				BridgeURL:       "http://localhost:3000",
				BridgeNamespace: "/ui",
				BridgeInsecure:  true,
				Serve:           true,
			},
		},
		{
			name: "Defaults",
			args: []string{},
			expectedConfig: &app.Config{
				LogLevel:        "info",
				LogFormat:       "text",
				BridgeNamespace: "/",
			},
		},
		{
			name: "Shorthand location flag",
			args: []string{"-l", "three/selectedItems=(1,2)"},
			expectedConfig: &app.Config{
				Location:        "three/selectedItems=(1,2)",
				LogLevel:        "info",
				LogFormat:       "text",
				BridgeNamespace: "/",
			},
		},
		{
			name: "Config file under explicit flags",
			args: []string{"-config", configPath, "-log-level", "error"},
			expectedConfig: &app.Config{
				ManifestPaths:   []string{"from-file"},
				Location:        "two",
				LogLevel:        "error",
				LogFormat:       "text",
				HTTPPort:        8081,
				BridgeNamespace: "/",
			},
		},
		{
			name:       "Help flag triggers clean exit",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
				require.Contains(t, output, "viewparams [options] [LOCATION]")
			},
		},
		{
			name:      "Unknown flag",
			args:      []string{"-workers", "4"},
			expectErr: "flag provided but not defined: -workers",
		},
		{
			name:      "Invalid log level",
			args:      []string{"-log-level", "trace"},
			expectErr: "invalid log-level",
		},
		{
			name:      "Too many locations",
			args:      []string{"one", "two"},
			expectErr: "expected at most one LOCATION",
		},
		{
			name:      "Serve without endpoints",
			args:      []string{"-serve"},
			expectErr: "serve mode",
		},
		{
			name:      "Broken config file",
			args:      []string{"-config", filepath.Join(root, "broken.toml")},
			expectErr: "load config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			cfg, exit, err := Parse(tc.args, out)

			if tc.expectErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				require.Equal(t, 2, exitErr.Code)
				require.Contains(t, err.Error(), tc.expectErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, exit)
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
					t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
