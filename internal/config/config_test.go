package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_YAMLWithEnvPlaceholders(t *testing.T) {
	t.Setenv("REPAIR_TEST_DB", "/tmp/repair-test.db")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  addr: ":9000"
database:
  type: sqlite
  dbname: ${REPAIR_TEST_DB}
jwt:
  secret_key: ${REPAIR_TEST_SECRET:fallback-secret-key-for-tests-0123456789}
  duration: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/repair-test.db", cfg.Database.DBName)
	assert.Equal(t, "fallback-secret-key-for-tests-0123456789", cfg.JWT.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Duration)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, "./uploads", cfg.Upload.Dir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Duration)
	assert.Equal(t, int64(50), cfg.Upload.MaxSizeMiB)
	assert.Equal(t, "admin", cfg.Bootstrap.AdminUsername)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	mysql := DatabaseConfig{Type: "mysql", User: "u", Password: "p", Host: "db", Port: 3306, DBName: "repair"}
	assert.Equal(t, "u:p@tcp(db:3306)/repair?charset=utf8mb4&parseTime=True&loc=Local", mysql.DSN())

	pg := DatabaseConfig{Type: "postgres", User: "u", Password: "p", Host: "db", Port: 5432, DBName: "repair", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=repair sslmode=disable", pg.DSN())

	lite := DatabaseConfig{Type: "sqlite", DBName: "./data/x.db"}
	assert.Equal(t, "./data/x.db", lite.DSN())

	assert.Equal(t, "", (&DatabaseConfig{Type: "oracle"}).DSN())
}
