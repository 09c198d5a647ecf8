package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/furniture-charges/constants"
	"github.com/joseph-ayodele/furniture-charges/internal/core"
	"github.com/joseph-ayodele/furniture-charges/internal/core/async"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
	"github.com/joseph-ayodele/furniture-charges/internal/pricing"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeInventory(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, f.SaveAs(path))
}

func newUsecase(outDir string) *Usecase {
	p := core.NewProcessor(quiet(), pricing.DefaultTable(), 1)
	return NewUsecase(p, export.NewService(quiet()), nil, outDir, quiet())
}

func TestIsHiddenAndAllowed(t *testing.T) {
	assert.True(t, IsHidden("/x/.git"))
	assert.True(t, IsHidden("~$inventory.xlsx"))
	assert.False(t, IsHidden("inventory.xlsx"))

	assert.True(t, AllowedExt("a/B.XLSX"))
	assert.True(t, AllowedExt("move.docx"))
	assert.False(t, AllowedExt("scan.pdf"))
	assert.False(t, AllowedExt("a.charges.xlsx"))
	assert.Equal(t, "move.charges.xlsx", OutputName("/in/move.docx"))
}

func TestScanDirectory_FiltersAndDedupes(t *testing.T) {
	root := t.TempDir()
	rows := [][]any{{"Item", "Quantity"}, {"Sofa 8ft", 2}}
	writeInventory(t, filepath.Join(root, "a.xlsx"), rows)
	writeInventory(t, filepath.Join(root, "nested", "b.xlsx"), [][]any{{"Item"}, {"Ottoman"}})
	writeInventory(t, filepath.Join(root, ".hidden", "c.xlsx"), rows)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	// byte-identical copy of a.xlsx
	data, err := os.ReadFile(filepath.Join(root, "a.xlsx"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "z-copy.xlsx"), data, 0o644))

	got, stats, err := NewFSIngestor(quiet(), true).ScanDirectory(root)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(4), stats.Scanned)
	assert.Equal(t, uint32(1), stats.Deduplicated)

	byName := map[string]Candidate{}
	for _, c := range got {
		byName[filepath.Base(c.Path)] = c
	}
	assert.False(t, byName["a.xlsx"].Deduplicated)
	assert.True(t, byName["z-copy.xlsx"].Deduplicated)
	assert.Equal(t, byName["a.xlsx"].HashHex, byName["z-copy.xlsx"].HashHex)
}

func TestScanDirectory_EmptyRoot(t *testing.T) {
	_, _, err := NewFSIngestor(nil, false).ScanDirectory("  ")
	assert.Error(t, err)
}

func TestHandleFile_WritesWorkbook(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "results")
	src := filepath.Join(in, "move.xlsx")
	writeInventory(t, src, [][]any{{"Description", "Qty"}, {"Sofa 8ft", 2}, {"Recliner Chair", ""}})

	r := newUsecase(out).HandleFile(context.Background(), src)
	require.Empty(t, r.Err)
	assert.Equal(t, constants.RunStatusOK, r.Status)
	assert.Equal(t, 2, r.Items)
	assert.Equal(t, filepath.Join(out, "move.charges.xlsx"), r.OutputPath)

	f, err := excelize.OpenFile(r.OutputPath, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Results")
	require.NoError(t, err)

	var found bool
	for _, row := range rows {
		if len(row) == 2 && row[0] == "Total Receiving Charges" {
			found = true
			assert.Equal(t, "240", row[1])
		}
	}
	assert.True(t, found, "summary row missing")
}

func TestHandleFile_Statuses(t *testing.T) {
	dir := t.TempDir()
	uc := newUsecase("")

	empty := filepath.Join(dir, "empty.xlsx")
	writeInventory(t, empty, [][]any{{"Item", "Quantity"}})
	r := uc.HandleFile(context.Background(), empty)
	assert.Equal(t, constants.RunStatusEmpty, r.Status)
	assert.FileExists(t, filepath.Join(dir, "empty.charges.xlsx"))

	bad := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("%PDF-1.4"), 0o644))
	r = uc.HandleFile(context.Background(), bad)
	assert.Equal(t, constants.RunStatusFailed, r.Status)
	assert.NotEmpty(t, r.Err)
}

func TestRunDirectory(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeInventory(t, filepath.Join(root, "a.xlsx"), [][]any{{"Item", "Quantity"}, {"Loveseat", 1}})
	writeInventory(t, filepath.Join(root, "b.xlsx"), [][]any{{"Item", "Quantity"}})
	data, err := os.ReadFile(filepath.Join(root, "a.xlsx"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "c.xlsx"), data, 0o644))

	results, stats, err := newUsecase(out).RunDirectory(context.Background(), root, true,
		async.WithWorkers(2), async.WithQueueSize(1))
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(2), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Empty)
	assert.Equal(t, uint32(1), stats.Deduplicated)
	assert.Zero(t, stats.Failed)

	assert.FileExists(t, filepath.Join(out, "a.charges.xlsx"))
	assert.FileExists(t, filepath.Join(out, "b.charges.xlsx"))
	assert.NoFileExists(t, filepath.Join(out, "c.charges.xlsx"))
}

type recordingHandler struct {
	paths chan string
}

func (h *recordingHandler) HandleFile(_ context.Context, path string) FileResult {
	h.paths <- path
	return FileResult{SourcePath: path, Status: constants.RunStatusOK}
}

func TestWatch_ProcessesNewFiles(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &recordingHandler{paths: make(chan string, 4)}
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchConfig{Roots: []string{root}, Debounce: 50 * time.Millisecond}, h, quiet())
	}()

	// give the watcher time to register the root
	time.Sleep(100 * time.Millisecond)
	src := filepath.Join(root, "arrival.xlsx")
	writeInventory(t, src, [][]any{{"Item"}, {"Nightstand"}})
	require.NoError(t, os.WriteFile(filepath.Join(root, "ignored.txt"), []byte("x"), 0o644))

	select {
	case p := <-h.paths:
		assert.Equal(t, src, p)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the new file")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, quiet())
	assert.Error(t, err)
}
