package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"baseliner/config"
	"baseliner/dataset"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	if ctx == nil {
		t.Fatal("ContextWithEnv() returned nil")
	}

	env := EnvFromContext(ctx)
	if env == nil {
		t.Fatal("EnvFromContext() returned nil")
	}
	if env.start.IsZero() {
		t.Error("Environment start time not set")
	}
}

func TestEnvFromContext(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		if EnvFromContext(ContextWithEnv(context.Background())) == nil {
			t.Error("Expected non-nil environment")
		}
	})

	t.Run("panic on missing env", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("Expected panic when env not in context")
			}
		}()
		EnvFromContext(context.Background())
	})
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))

	time.Sleep(10 * time.Millisecond)
	uptime := env.Uptime()

	if uptime < 10*time.Millisecond {
		t.Errorf("Uptime() = %v, expected at least 10ms", uptime)
	}
	if uptime > 1*time.Second {
		t.Errorf("Uptime() = %v, unexpectedly large", uptime)
	}
}

func TestLocalEnv_RedirectStdLog(t *testing.T) {
	t.Run("with logger", func(t *testing.T) {
		env := &LocalEnv{
			Log: zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		}

		for i := 0; i < 3; i++ {
			env.RedirectStdLog()
			if env.restoreStdLog == nil {
				t.Errorf("Iteration %d: restoreStdLog not set", i)
			}
			env.RestoreStdLog()
		}
	})

	t.Run("without logger", func(t *testing.T) {
		env := &LocalEnv{}

		env.RedirectStdLog()
		if env.restoreStdLog != nil {
			t.Error("Expected restoreStdLog to remain nil")
		}
		env.RestoreStdLog()
	})
}

func TestLocalEnv_LoadDataset(t *testing.T) {
	t.Run("embedded", func(t *testing.T) {
		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		if err := env.LoadDataset(""); err != nil {
			t.Fatalf("LoadDataset() error = %v", err)
		}
		if env.Dataset != dataset.Default() {
			t.Error("Expected embedded dataset")
		}
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.json")
		data := `{"features": {"grid": {"kind": "feature", "name": "Grid", "status": {"baseline": "high", "support": {"chrome": "57"}}}}}`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		env := &LocalEnv{Log: zaptest.NewLogger(t)}
		if err := env.LoadDataset(path); err != nil {
			t.Fatalf("LoadDataset() error = %v", err)
		}
		if env.Dataset.Len() != 1 {
			t.Errorf("Dataset has %d entries, want 1", env.Dataset.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		env := &LocalEnv{}
		if err := env.LoadDataset(filepath.Join(t.TempDir(), "absent.json")); err == nil {
			t.Error("Expected error for missing dataset")
		}
		if env.Dataset != nil {
			t.Error("Dataset should stay unset on error")
		}
	})
}

func TestLocalEnv_Integration(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)

	env.Cfg = &config.Config{Version: 1}
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Target = "2023"
	env.Format = config.ExportFormatCsv

	env.RedirectStdLog()
	time.Sleep(5 * time.Millisecond)
	if env.Uptime() < 5*time.Millisecond {
		t.Error("Uptime too small")
	}
	env.RestoreStdLog()

	// same environment is visible through context
	if got := EnvFromContext(ctx); got.Target != "2023" || got.Format != config.ExportFormatCsv {
		t.Errorf("Environment = %+v", got)
	}
}
