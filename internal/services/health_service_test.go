package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	path   string
	tables int
}

func (f fakeSource) Source() string    { return f.path }
func (f fakeSource) CachedTables() int { return f.tables }

func TestHealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", nil, quietLogger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestReadinessCheck(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "contracts.xlsx")

	hs := NewHealthService("1.0.0", fakeSource{path: source}, quietLogger)
	status := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["source"].(ServiceHealth).Status)
	assert.Equal(t, "ready", status.Services["regions"].(ServiceHealth).Status)

	require.NoError(t, os.WriteFile(source, []byte("x"), 0o644))
	status = hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", status.Status)

	hs = NewHealthService("1.0.0", fakeSource{path: dir}, quietLogger)
	assert.Equal(t, "not_ready", hs.ReadinessCheck(context.Background()).Status)
}

func TestSystemStats(t *testing.T) {
	hs := NewHealthService("1.0.0", fakeSource{tables: 2}, quietLogger)

	stats := hs.SystemStats(context.Background())
	assert.Equal(t, 2, stats.CachedTables)
	assert.Positive(t, stats.Goroutines)
	assert.NotEmpty(t, stats.GoVersion)

	detail := hs.GetDetailedHealth(context.Background())
	assert.Contains(t, detail, "readiness")
	assert.Contains(t, detail, "stats")
}

func TestVersion(t *testing.T) {
	hs := NewHealthService("1.2.3", fakeSource{}, quietLogger)

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "v1", v["data_format"])
	assert.Contains(t, v, "build_time")
	assert.Contains(t, v, "uptime")
}
