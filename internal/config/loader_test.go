package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/tabula/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"TABULA_CONFIG",
		"TABULA_LOG_LEVEL",
		"TABULA_ADDR",
		"TABULA_DATA_PATH",
		"TABULA_REDIS_URL",
		"TABULA_ADMIN_ACCOUNT",
		"TABULA_ADMIN_PASSWORD_HASH",
		"TABULA_DEBOUNCE_MS",
		"TABULA_WRITE_GUARD_MS",
		"TABULA_MAX_STANDINGS_LIMIT",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "tabula.db")
				convey.So(cfg.RedisURL, convey.ShouldEqual, "redis://localhost:6379/0")
				convey.So(cfg.Groups, convey.ShouldResemble, []string{"teens", "preteens"})
				convey.So(cfg.DebounceMS, convey.ShouldEqual, 300)
				convey.So(cfg.WriteGuardMS, convey.ShouldEqual, 250)
				convey.So(cfg.MaxStandingsLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TABULA_ADDR", ":8080")
			_ = os.Setenv("TABULA_REDIS_URL", "redis://cache:6379/1")
			_ = os.Setenv("TABULA_DEBOUNCE_MS", "150")
			_ = os.Setenv("TABULA_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RedisURL, convey.ShouldEqual, "redis://cache:6379/1")
				convey.So(cfg.DebounceMS, convey.ShouldEqual, 150)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")

				convey.Convey("And untouched fields keep their defaults", func() {
					convey.So(cfg.WriteGuardMS, convey.ShouldEqual, 250)
				})
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			path := filepath.Join(t.TempDir(), "tabula.yaml")
			body := "addr: \":7070\"\ngroups:\n  - teens\n  - juniors\n  - kids\n"
			convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("TABULA_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Groups, convey.ShouldResemble, []string{"teens", "juniors", "kids"})
			})

			convey.Convey("And env vars should override the file", func() {
				_ = os.Setenv("TABULA_ADDR", ":6060")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("TABULA_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with ErrLoadConfig", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("TABULA_DEBOUNCE_MS", "-5")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails with ErrInvalidConfig", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}
