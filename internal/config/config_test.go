package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
	"github.com/m04kA/SMC-AppointmentService/pkg/validation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvAdminToken, "from-env")
	t.Setenv(EnvDatabasePassword, "secret")

	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "appointments"

[booking]
window_start = "08:00"
window_end = "12:00"
timezone = "UTC"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "from-env", cfg.Admin.Token)
	assert.Equal(t, "host=db port=5432 user=postgres password=secret dbname=appointments sslmode=disable", cfg.Database.DSN())

	rules, err := cfg.BookingRules()
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("08:00"), rules.WindowStart)
	assert.Equal(t, 30, rules.StepMinutes)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))

	assert.ErrorIs(t, err, ErrRead)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Admin.Token = "token"
	require.NoError(t, cfg.Validate())

	cfg.Storage.Bookings = "mongo"
	cfg.Storage.Schedule = BackendMemory
	cfg.Booking.WindowEnd = "08:00"
	cfg.Booking.Timezone = "Mars/Olympus"
	cfg.Notifications.Enabled = true
	cfg.Notifications.AmqpURL = ""

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)

	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{
		"bookings",
		"storage.seed_file",
		"storage.allow_degraded",
		"notifications.amqp_url",
		"booking",
		"booking.timezone",
	}, fields)
}

func TestValidate_RedisBackend(t *testing.T) {
	cfg := Default()
	cfg.Admin.Token = "token"
	cfg.Storage.Bookings = BackendRedis
	cfg.Redis.Addr = "localhost"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")

	cfg.Redis.Addr = "localhost:6379"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 3*time.Second, cfg.Redis.LockTimeout())
}

func TestValidate_RedisLockTTL(t *testing.T) {
	cfg := Default()
	cfg.Admin.Token = "token"
	cfg.Storage.Bookings = BackendRedis
	cfg.Redis.LockTTLMs = 3000
	cfg.Redis.LockTimeoutMs = 3000

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "redis.lock_ttl_ms")

	cfg.Redis.LockTTLMs = 0
	assert.NoError(t, cfg.Validate())

	cfg.Redis.LockTTLMs = 10000
	assert.NoError(t, cfg.Validate())
}
