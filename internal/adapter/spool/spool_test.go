package spool

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lidarlab/ceilo-ingest/internal/config"
)

func newTestExtractor(t *testing.T) (*Extractor, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		SpoolDir:       filepath.Join(root, "spool"),
		SpoolDoneDir:   filepath.Join(root, "done"),
		SpoolFailedDir: filepath.Join(root, "failed"),
	}
	e, err := NewExtractor(cfg, slog.Default())
	require.NoError(t, err)
	return e, cfg.SpoolDir
}

func writeSpoolFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewExtractor_CreatesDirectories(t *testing.T) {
	e, _ := newTestExtractor(t)
	for _, dir := range []string{e.dir, e.doneDir, e.failedDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestExtractBatch_NameOrder(t *testing.T) {
	e, dir := newTestExtractor(t)
	writeSpoolFile(t, dir, "20240426_02.dat", "b")
	writeSpoolFile(t, dir, "20240426_01.dat", "a")
	writeSpoolFile(t, dir, "20240426_03.dat", "c")

	batch, err := e.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	assert.Equal(t, "20240426_01.dat", filepath.Base(batch[0].Path))
	assert.Equal(t, "20240426_02.dat", filepath.Base(batch[1].Path))
	assert.Equal(t, "20240426_03.dat", filepath.Base(batch[2].Path))
	assert.Equal(t, []byte("a"), batch[0].Content)
}

func TestExtractBatch_LimitsBatchSize(t *testing.T) {
	e, dir := newTestExtractor(t)
	writeSpoolFile(t, dir, "a.dat", "1")
	writeSpoolFile(t, dir, "b.dat", "2")
	writeSpoolFile(t, dir, "c.dat", "3")

	batch, err := e.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "a.dat", filepath.Base(batch[0].Path))
	assert.Equal(t, "b.dat", filepath.Base(batch[1].Path))
}

func TestExtractBatch_SkipsInProgressFiles(t *testing.T) {
	e, dir := newTestExtractor(t)
	writeSpoolFile(t, dir, ".hidden", "x")
	writeSpoolFile(t, dir, "upload.dat.tmp", "x")
	writeSpoolFile(t, dir, "ready.dat", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	batch, err := e.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "ready.dat", filepath.Base(batch[0].Path))
}

func TestExtractBatch_EmptySpool(t *testing.T) {
	e, _ := newTestExtractor(t)

	batch, err := e.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestExtractBatch_CancelledContext(t *testing.T) {
	e, _ := newTestExtractor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ExtractBatch(ctx, 10)
	assert.Error(t, err)
}

func TestCommit_MovesToDone(t *testing.T) {
	e, dir := newTestExtractor(t)
	writeSpoolFile(t, dir, "a.dat", "payload")

	batch, err := e.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.NoError(t, batch[0].Commit(context.Background(), true))

	assert.NoFileExists(t, filepath.Join(dir, "a.dat"))
	moved, err := os.ReadFile(filepath.Join(e.doneDir, "a.dat"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), moved)
}

func TestCommit_MovesToFailed(t *testing.T) {
	e, dir := newTestExtractor(t)
	writeSpoolFile(t, dir, "bad.dat", "garbage")

	batch, err := e.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.NoError(t, batch[0].Commit(context.Background(), false))

	assert.NoFileExists(t, filepath.Join(dir, "bad.dat"))
	assert.FileExists(t, filepath.Join(e.failedDir, "bad.dat"))
}

func TestCommit_MissingFile(t *testing.T) {
	e, dir := newTestExtractor(t)
	writeSpoolFile(t, dir, "a.dat", "payload")

	batch, err := e.ExtractBatch(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	require.NoError(t, os.Remove(batch[0].Path))
	assert.Error(t, batch[0].Commit(context.Background(), true))
}
