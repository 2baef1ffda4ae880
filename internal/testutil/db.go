package testutil

import (
	"path/filepath"
	"testing"

	"github.com/yuqie6/AccomTrack/internal/bootstrap"
	"github.com/yuqie6/AccomTrack/internal/pkg/config"
)

// OpenTestCore opens a fully migrated store in a temp dir and wires every service.
func OpenTestCore(t *testing.T) *bootstrap.Core {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "accommodations.db")

	core, err := bootstrap.NewCoreFromConfig(cfg)
	if err != nil {
		t.Fatalf("open test core: %v", err)
	}
	t.Cleanup(func() { _ = core.Close() })
	return core
}
