package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxBodyBytes != 64<<10 {
		t.Errorf("Server.MaxBodyBytes = %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Batch.Workers != 8 || cfg.Batch.MaxItems != 256 {
		t.Errorf("Batch = %+v", cfg.Batch)
	}
	if cfg.Log.Level != "info" || cfg.Log.Encoding != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reqline.yaml")
	data := []byte("server:\n  addr: \":9090\"\n  read_timeout: 2s\nbatch:\n  workers: 2\nlog:\n  level: debug\n  encoding: console\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	if err := l.ReadFile(path); err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 2*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 2s", cfg.Server.ReadTimeout)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("Batch.Workers = %d, want 2", cfg.Batch.Workers)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Encoding != "console" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader()
	if err := l.ReadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("ReadFile() error = nil for missing file")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("REQLINE_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("REQLINE_BATCH_WORKERS", "3")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Batch.Workers != 3 {
		t.Errorf("Batch.Workers = %d, want 3", cfg.Batch.Workers)
	}
}

func TestBindFlags(t *testing.T) {
	fs := Flags("test")
	if err := fs.Parse([]string{"--addr", ":1234", "--log-level", "warn"}); err != nil {
		t.Fatal(err)
	}
	l := NewLoader()
	if err := l.BindFlags(fs); err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":1234" {
		t.Errorf("Server.Addr = %q, want :1234", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Log.File != "" {
		t.Errorf("Log.File = %q, want empty", cfg.Log.File)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := NewLoader().Load()
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	cfg := base()
	cfg.Batch.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for zero workers")
	}

	cfg = base()
	cfg.Log.Encoding = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for unknown encoding")
	}

	cfg = base()
	cfg.Server.MaxBodyBytes = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for negative body limit")
	}
}

func TestWatch_NoFile(t *testing.T) {
	if err := NewLoader().Watch(func(*Config) {}, nil); err != ErrNoConfigFile {
		t.Errorf("Watch() = %v, want ErrNoConfigFile", err)
	}
}

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
}

func watchedLoader(t *testing.T, initial string) (*Loader, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reqline.yaml")
	writeConfig(t, path, initial)
	l := NewLoader()
	if err := l.ReadFile(path); err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return l, path
}

func TestWatch_Reload(t *testing.T) {
	l, path := watchedLoader(t, "log:\n  level: info\n")

	changes := make(chan *Config, 16)
	err := l.Watch(func(cfg *Config) {
		select {
		case changes <- cfg:
		default:
		}
	}, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeConfig(t, path, "log:\n  level: debug\n")

	// A rewrite can surface as several events; wait for the final content.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Log.Level == "debug" {
				return
			}
		case <-timeout:
			t.Fatal("onChange not called with log.level=debug")
		}
	}
}

func TestWatch_InvalidReload(t *testing.T) {
	l, path := watchedLoader(t, "log:\n  encoding: json\n")

	errs := make(chan error, 16)
	err := l.Watch(func(*Config) {}, func(err error) {
		select {
		case errs <- err:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	writeConfig(t, path, "log:\n  encoding: xml\n")

	select {
	case err := <-errs:
		if !strings.Contains(err.Error(), "log.encoding") {
			t.Errorf("onError got %v, want log.encoding failure", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("onError not called for invalid log.encoding")
	}
}
