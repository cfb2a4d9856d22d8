package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "standard configuration",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "testuser",
				Password: "testpass",
				Database: "testdb",
				SSLMode:  "disable",
			},
			want: "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable",
		},
		{
			name: "IPv6 host",
			cfg: DatabaseConfig{
				Host:     "::1",
				Port:     5432,
				User:     "user",
				Password: "pass",
				Database: "db",
				SSLMode:  "require",
			},
			want: "host=::1 port=5432 user=user password=pass dbname=db sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ConnectionString(); got != tt.want {
				t.Errorf("DatabaseConfig.ConnectionString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitConfig_Defaults(t *testing.T) {
	for _, env := range []string{"", "dev", "test", "prod"} {
		t.Run("env="+env, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()

			if err := InitConfig(env); err != nil {
				t.Fatalf("InitConfig() error = %v", err)
			}

			wantName := "dataschema_dev"
			if env != "" {
				wantName = "dataschema_" + env
			}
			checks := map[string]any{
				"SERVER_HOST":             "0.0.0.0",
				"SERVER_PORT":             50051,
				"METRICS_PORT":            9090,
				"DB_DRIVER":               DriverPostgres,
				"DB_USER":                 "dataschema",
				"DB_NAME":                 wantName,
				"API_KEY_EXPIRES_IN_DAYS": 364,
				"LOG_LEVEL":               "info",
			}
			for key, want := range checks {
				var got any
				switch want.(type) {
				case int:
					got = viper.GetInt(key)
				default:
					got = viper.GetString(key)
				}
				if got != want {
					t.Errorf("%s = %v, want %v", key, got, want)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		set         map[string]any
		wantErrMsg  string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "postgres with password",
			set:  map[string]any{"DB_PASSWORD": "testpassword"},
			validateCfg: func(t *testing.T, cfg *Config) {
				if cfg.Database.Driver != DriverPostgres || cfg.Database.Password != "testpassword" {
					t.Errorf("unexpected database config: %+v", cfg.Database)
				}
				if cfg.Database.Port != 15432 {
					t.Errorf("Load() Database.Port = %v, want 15432", cfg.Database.Port)
				}
				if cfg.APIKey.ExpiresInDays != 364 || cfg.APIKey.Bootstrap {
					t.Errorf("unexpected api key config: %+v", cfg.APIKey)
				}
				if !cfg.Cache.Enabled || cfg.Cache.TTLMinutes != 30 {
					t.Errorf("unexpected cache config: %+v", cfg.Cache)
				}
				if cfg.Log.Format != "json" || cfg.Log.MaxSizeMB != 100 {
					t.Errorf("unexpected log config: %+v", cfg.Log)
				}
			},
		},
		{
			name:       "postgres without password",
			set:        map[string]any{},
			wantErrMsg: "DB_PASSWORD is required (set via environment variable or .env file)",
		},
		{
			name: "sqlite does not need a password",
			set:  map[string]any{"DB_DRIVER": DriverSQLite, "SQLITE_PATH": "/tmp/registry.db"},
			validateCfg: func(t *testing.T, cfg *Config) {
				if cfg.Database.Driver != DriverSQLite || cfg.Database.SQLitePath != "/tmp/registry.db" {
					t.Errorf("unexpected database config: %+v", cfg.Database)
				}
			},
		},
		{
			name:       "unknown driver",
			set:        map[string]any{"DB_DRIVER": "mysql"},
			wantErrMsg: `unsupported DB_DRIVER "mysql" (expected postgres or sqlite)`,
		},
		{
			name:       "key lifetime above maximum",
			set:        map[string]any{"DB_PASSWORD": "x", "API_KEY_EXPIRES_IN_DAYS": 366},
			wantErrMsg: "API_KEY_EXPIRES_IN_DAYS must be between 1 and 365, got 366",
		},
		{
			name: "custom server config",
			set:  map[string]any{"DB_PASSWORD": "x", "SERVER_HOST": "custom.host", "SERVER_PORT": 8080},
			validateCfg: func(t *testing.T, cfg *Config) {
				if cfg.Server.Host != "custom.host" || cfg.Server.Port != 8080 {
					t.Errorf("unexpected server config: %+v", cfg.Server)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			if err := InitConfig("test"); err != nil {
				t.Fatalf("InitConfig() error = %v", err)
			}
			for k, v := range tt.set {
				viper.Set(k, v)
			}

			cfg, err := Load()
			if tt.wantErrMsg != "" {
				if err == nil || err.Error() != tt.wantErrMsg {
					t.Errorf("Load() error = %v, want %v", err, tt.wantErrMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.validateCfg(t, cfg)
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root, err := findProjectRoot()
	if err != nil {
		t.Fatalf("findProjectRoot() error = %v, want nil", err)
	}

	if _, err := os.Stat(filepath.Join(root, "go.mod")); os.IsNotExist(err) {
		t.Errorf("findProjectRoot() returned %v, but go.mod does not exist there", root)
	}
}
