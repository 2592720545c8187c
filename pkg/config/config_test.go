package config

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/env"
	"gotest.tools/v3/fs"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "APP_ENV", "PORT", "LOG_LEVEL", "DATABASE_URL",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL", "DB_MAX_CONNS",
		"JWT_SECRET", "JWT_ISSUER", "JWT_TTL_MINUTES", "BCRYPT_COST",
		"SF_LOGIN_URL", "SF_USERNAME", "SF_PASSWORD", "SF_SECURITY_TOKEN",
		"SF_API_VERSION", "SF_TIMEOUT_SECONDS", "SF_SESSION_TTL_MINUTES",
		"REDIS_URL", "FRONTEND_URL",
	} {
		env.Patch(t, k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Port, "3000")
	assert.Equal(t, cfg.JWTTTL(), time.Hour)
	assert.Equal(t, cfg.BcryptCost, 10)
	assert.Equal(t, cfg.SalesforceTimeout(), 15*time.Second)
	assert.Equal(t, cfg.FrontendURL, "http://localhost:5173")
	assert.Equal(t, cfg.DatabaseURL, "")
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	env.PatchAll(t, map[string]string{
		"PORT":              "8081",
		"DATABASE_URL":      "postgres://u:p@db:5432/app",
		"JWT_TTL_MINUTES":   "180",
		"SF_USERNAME":       "svc@acme.test",
		"SF_SECURITY_TOKEN": "tok",
		"FRONTEND_URL":      "https://app.example.com",
		"BCRYPT_COST":       "not-a-number",
	})

	cfg, err := Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Port, "8081")
	assert.Equal(t, cfg.JWTTTL(), 3*time.Hour)
	assert.Equal(t, cfg.Salesforce.Username, "svc@acme.test")
	assert.Equal(t, cfg.Salesforce.SecurityToken, "tok")
	assert.Equal(t, cfg.FrontendURL, "https://app.example.com")
	assert.Equal(t, cfg.BcryptCost, 10, "unparsable values keep the default")
	assert.NilError(t, cfg.Validate())
}

func TestLoad_ComposesDSNFromParts(t *testing.T) {
	clearEnv(t)
	env.PatchAll(t, map[string]string{
		"DB_HOST":     "db.internal",
		"DB_USER":     "app",
		"DB_PASSWORD": "pw",
		"DB_NAME":     "users",
		"DB_SSL":      "true",
	})

	cfg, err := Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.DatabaseURL, "postgres://app:pw@db.internal:5432/users?sslmode=require")
}

func TestLoad_YAMLFileUnderEnv(t *testing.T) {
	clearEnv(t)
	file := fs.NewFile(t, "config.yaml", fs.WithContent(`
port: "9000"
database_url: postgres://yaml@db/app
jwt_ttl_minutes: 120
salesforce:
  username: yaml@acme.test
  timeout_seconds: 20
`))
	env.Patch(t, "CONFIG_FILE", file.Path())
	env.Patch(t, "PORT", "9100")

	cfg, err := Load()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Port, "9100", "env wins over file")
	assert.Equal(t, cfg.DatabaseURL, "postgres://yaml@db/app")
	assert.Equal(t, cfg.JWTTTLMinutes, 120)
	assert.Equal(t, cfg.Salesforce.Username, "yaml@acme.test")
	assert.Equal(t, cfg.SalesforceTimeout(), 20*time.Second)
	assert.Equal(t, cfg.Salesforce.APIVersion, "59.0", "unset keys keep defaults")
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	file := fs.NewFile(t, "config.yaml", fs.WithContent("port: [unterminated"))
	env.Patch(t, "CONFIG_FILE", file.Path())

	_, err := Load()
	assert.ErrorContains(t, err, "parse config file")
}

func TestValidate_Production(t *testing.T) {
	cfg := defaults()
	cfg.Env = "production"
	cfg.DatabaseURL = "postgres://x"

	err := cfg.Validate()
	assert.Assert(t, is.ErrorContains(err, "must be changed in production"))

	cfg.JWTSecret = "a-real-secret"
	assert.NilError(t, cfg.Validate())
}
