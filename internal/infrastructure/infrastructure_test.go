package infrastructure_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/prognosis/internal/config"
	"github.com/JaimeStill/prognosis/internal/infrastructure"
	"github.com/JaimeStill/prognosis/pkg/storage"
)

func TestNewWithoutDatabase(t *testing.T) {
	root := filepath.Join(t.TempDir(), "models")
	cfg := &config.Config{
		LogLevel: "info",
		Storage:  storage.Config{Provider: storage.ProviderFilesystem, Root: root},
	}

	infra, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database != nil {
		t.Error("Database should be nil when disabled")
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		t.Fatalf("WaitForStartup() error = %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("storage root not created: %v", err)
	}
	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	cfg := &config.Config{Storage: storage.Config{Provider: "ftp"}}
	if _, err := infrastructure.NewWithWriter(cfg, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown storage provider")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := infrastructure.NewLogger(&buf, tt.level)
			logger.Debug("dbg")
			logger.Info("inf")

			out := buf.String()
			if got := strings.Contains(out, "msg=dbg"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			if got := strings.Contains(out, "msg=inf"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}
