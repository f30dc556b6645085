package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  host: 127.0.0.1
  port: 50051
http:
  port: 8080
database:
  host: localhost
  port: 5432
  user: splitbill
  database: splitbill_db
auth:
  provider: local
  jwt:
    secret: 0123456789abcdef0123456789abcdef
`

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, AuthProviderLocal, cfg.Auth.Provider)
	assert.Equal(t, 60, cfg.Auth.JWT.AccessTokenExpiry)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0 0 9 * * *", cfg.Scheduler.SendShareReminders)
	assert.Equal(t, "127.0.0.1:50051", cfg.GetServerAddress())
	assert.Equal(t, "127.0.0.1:8080", cfg.GetHTTPAddress())
	assert.Equal(t, "postgres://splitbill:@localhost:5432/splitbill_db?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{"short secret", func(s string) string {
			return strings.ReplaceAll(s, "0123456789abcdef0123456789abcdef", "short")
		}, "at least 32 characters"},
		{"unknown provider", func(s string) string {
			return strings.ReplaceAll(s, "provider: local", "provider: ldap")
		}, "unsupported auth provider"},
		{"firebase without project", func(s string) string {
			return strings.ReplaceAll(s, "provider: local", "provider: firebase")
		}, "firebase project id"},
		{"same ports", func(s string) string {
			return strings.ReplaceAll(s, "port: 8080", "port: 50051")
		}, "must differ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.mutate(validYAML)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50051, cfg.Server.Port)
}

func TestGetSecurityLevel(t *testing.T) {
	assert.Equal(t, SecurityPublic, GetSecurityLevel("/splitbill.v1.SplitBillService/Login"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/splitbill.v1.SplitBillService/MarkSharePaid"))
	assert.Equal(t, SecurityAccess, GetSecurityLevel("/unknown/Method"))
}
