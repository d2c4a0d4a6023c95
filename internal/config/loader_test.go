package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/pable/go-bb-metrics/internal/config"
)

var configEnvVars = []string{
	"BBM_CONFIG",
	"BBM_DATA_DIR",
	"BBM_LOG_LEVEL",
	"BBM_LOG_FORMAT",
	"BBM_WORKERS",
	"BBM_HISTORY_LIMIT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bbmetrics.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the defaults apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "console")
				convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading a YAML file by path", func() {
			path := writeConfigFile(t, `
data_dir: /srv/sessions
log_level: debug
workers: 3
`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then file values override defaults and the rest stay", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/sessions")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Workers, convey.ShouldEqual, 3)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "console")
			})
		})

		convey.Convey("When the file comes from BBM_CONFIG and env overrides it", func() {
			path := writeConfigFile(t, "data_dir: /from/file\nworkers: 3\n")
			_ = os.Setenv("BBM_CONFIG", path)
			_ = os.Setenv("BBM_WORKERS", "7")
			_ = os.Setenv("BBM_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/from/file")
				convey.So(cfg.Workers, convey.ShouldEqual, 7)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When the file does not exist", func() {
			cfg, err := config.Load(ctx, "/non/existent/bbmetrics.yaml")

			convey.Convey("Then a load error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML is malformed", func() {
			path := writeConfigFile(t, "invalid: yaml: content: [")
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then a load error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When a setting is invalid", func() {
			_ = os.Setenv("BBM_LOG_LEVEL", "verbose")
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "log_level")
			})
		})
	})
}

func TestNewWithOptions(t *testing.T) {
	convey.Convey("Given options", t, func() {
		cfg := config.New(config.WithDataDir("/tmp/x"), config.WithWorkers(0))

		convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/x")
		convey.So(cfg.Workers, convey.ShouldEqual, 0)
		convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
	})
}
