package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

type testOptions struct {
	Config string `help:"Config file path"`

	Port         string   `toml:"server.port" env:"PORT"`
	NatsEnabled  bool     `toml:"nats.enabled" env:"NATS_ENABLED"`
	NatsPort     int      `toml:"nats.port" env:"NATS_PORT"`
	NatsURL      string   `toml:"nats.url" env:"NATS_URL"`
	DeviceDriver string   `toml:"device.driver" env:"DEVICE_DRIVER" flag:"driver"`
	Scale        float64  `toml:"display.scale" env:"DISPLAY_SCALE"`
	Origins      []string `toml:"server.origins" env:"ORIGINS"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

const sampleTOML = `
[server]
port = ":9000"
origins = ["http://a", "http://b"]

[nats]
enabled = true
port = 4333
url = "nats://board:4222"

[device]
driver = "noop"

[display]
scale = 2
`

func TestLoadConfigFromTOML(t *testing.T) {
	opts := &testOptions{Config: writeConfig(t, sampleTOML), Port: ":8090", DeviceDriver: "sim"}

	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	want := &testOptions{
		Config:       opts.Config,
		Port:         ":9000",
		NatsEnabled:  true,
		NatsPort:     4333,
		NatsURL:      "nats://board:4222",
		DeviceDriver: "noop",
		Scale:        2,
		Origins:      []string{"http://a", "http://b"},
	}
	if !reflect.DeepEqual(opts, want) {
		t.Errorf("LoadConfig() = %+v, want %+v", opts, want)
	}
}

func TestLoadConfigEnvOverridesTOML(t *testing.T) {
	t.Setenv("M5NODE_PORT", ":7000")
	t.Setenv("M5NODE_NATS_PORT", "5222")
	t.Setenv("M5NODE_NATS_ENABLED", "false")
	t.Setenv("M5NODE_ORIGINS", "http://x, http://y")
	t.Setenv("M5NODE_DISPLAY_SCALE", "0.5")

	opts := &testOptions{Config: writeConfig(t, sampleTOML)}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != ":7000" {
		t.Errorf("Port = %q, want :7000", opts.Port)
	}
	if opts.NatsPort != 5222 {
		t.Errorf("NatsPort = %d, want 5222", opts.NatsPort)
	}
	if opts.NatsEnabled {
		t.Error("NatsEnabled = true, want env false to win")
	}
	if opts.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", opts.Scale)
	}
	if !reflect.DeepEqual(opts.Origins, []string{"http://x", "http://y"}) {
		t.Errorf("Origins = %v", opts.Origins)
	}
	// Untouched by env
	if opts.NatsURL != "nats://board:4222" {
		t.Errorf("NatsURL = %q, want TOML value", opts.NatsURL)
	}
}

func TestLoadConfigSkipsChangedFlags(t *testing.T) {
	t.Setenv("M5NODE_PORT", ":7000")

	opts := &testOptions{Config: writeConfig(t, sampleTOML)}

	cmd := &cobra.Command{Use: "m5node"}
	cmd.Flags().StringVar(&opts.Port, "port", ":8090", "")
	cmd.Flags().StringVar(&opts.DeviceDriver, "driver", "sim", "")
	cmd.Flags().IntVar(&opts.NatsPort, "nats-port", 4222, "")
	if err := cmd.Flags().Parse([]string{"--port", ":6000", "--driver", "sim"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Port != ":6000" {
		t.Errorf("Port = %q, want CLI value :6000", opts.Port)
	}
	if opts.DeviceDriver != "sim" {
		t.Errorf("DeviceDriver = %q, want CLI value sim", opts.DeviceDriver)
	}
	if opts.NatsPort != 4333 {
		t.Errorf("NatsPort = %d, want TOML value for unchanged flag", opts.NatsPort)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{Config: filepath.Join(t.TempDir(), "absent.toml"), Port: ":8090"}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
	if opts.Port != ":8090" {
		t.Errorf("Port = %q, want default kept", opts.Port)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if err := LoadConfig(&testOptions{Config: writeConfig(t, "[server\nport = ")}, nil); err == nil {
		t.Error("LoadConfig should fail for invalid TOML")
	}
	if err := LoadConfig(testOptions{}, nil); err == nil {
		t.Error("LoadConfig should reject a non-pointer")
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Port":           "port",
		"LoggingLevel":   "logging-level",
		"NatsURL":        "nats-url",
		"MetricsEnabled": "metrics-enabled",
		"AuthUsername":   "auth-username",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"nats": map[string]any{"port": int64(4222)},
		"flat": "x",
	}

	if got := getNestedValue(data, "nats.port"); got != int64(4222) {
		t.Errorf("nats.port = %v", got)
	}
	if got := getNestedValue(data, "flat"); got != "x" {
		t.Errorf("flat = %v", got)
	}
	if got := getNestedValue(data, "flat.deeper"); got != nil {
		t.Errorf("flat.deeper = %v, want nil", got)
	}
	if got := getNestedValue(data, "missing.key"); got != nil {
		t.Errorf("missing.key = %v, want nil", got)
	}
}

func TestReadLoggingConfig(t *testing.T) {
	path := writeConfig(t, `
[logging]
level = "warn"

[logging.modules]
dispatcher = "debug"
nats = "error"
`)

	cfg, err := ReadLoggingConfig(path)
	if err != nil {
		t.Fatalf("ReadLoggingConfig failed: %v", err)
	}
	if cfg.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Level)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want default text", cfg.Format)
	}
	want := map[string]string{"dispatcher": "debug", "nats": "error"}
	if !reflect.DeepEqual(cfg.Modules, want) {
		t.Errorf("Modules = %v, want %v", cfg.Modules, want)
	}
}

func TestLoadLoggingConfigDefaults(t *testing.T) {
	for name, path := range map[string]string{
		"empty path": "",
		"missing":    filepath.Join(t.TempDir(), "absent.toml"),
		"invalid":    writeConfig(t, "[logging\n"),
	} {
		t.Run(name, func(t *testing.T) {
			cfg := LoadLoggingConfig(path)
			if cfg.Level != "info" || cfg.Format != "text" || len(cfg.Modules) != 0 {
				t.Errorf("LoadLoggingConfig(%q) = %+v, want defaults", path, cfg)
			}
		})
	}
}
