package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-bb-metrics/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// writeWorkbook saves a workbook whose first sheet is a decoy and whose
// second sheet holds the hitting data.
func writeWorkbook(t *testing.T, dir, name string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "exported by device"))
	_, err := f.NewSheet("Hits")
	require.NoError(t, err)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Hits", cellRef, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadCSV_BOMAndSemicolon(t *testing.T) {
	body := "\xEF\xBB\xBFPlayer;Date;Speed\n\nIto;2024-05-01;150\n;;\n"
	tbl, err := ReadCSV(strings.NewReader(body), "semi.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Date", "Speed"}, tbl.Header)
	require.Len(t, tbl.Rows, 1, "blank rows are skipped")
	assert.Equal(t, FormatCSV, tbl.Format)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv")
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestReadXLSX_PicksDataSheet(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir, "session.xlsx", [][]any{
		{"Hitter First Name", "Hit Created At", "ExitSpeed (KMH)", "Angle"},
		{"Ito", "2024-05-01 10:00:00", 152.5, 22},
	})

	tbl, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, tbl.Format)
	assert.Equal(t, "session.xlsx", tbl.Name)

	events, stats := Normalize(tbl, DetectKind(tbl.Header))
	require.Len(t, events, 1)
	assert.Equal(t, 1, stats.Admitted)
	assert.Equal(t, model.KindHitting, events[0].Kind)
	assert.InDelta(t, 152.5, events[0].ExitSpeed.Value, 1e-9)
	assert.Equal(t, model.NewDate(2024, time.May, 1), events[0].Date)
}

func TestReadFile_Unsupported(t *testing.T) {
	_, err := ReadFile("notes.pdf")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestLoad_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a/2024-05-01.csv",
		"Player,Date,Speed,Angle\nIto,2024-05-01,145,15\nIto,2024-05-01,0,20\n")
	bad := writeFile(t, dir, "b/broken.xlsx", "this is not a zip archive")
	c := writeFile(t, dir, "c/2024-05-08.csv",
		"Player,Date,Speed,Angle\nIto,2024-05-08,150,25\n")

	events, reports, err := Load(context.Background(), []string{a, bad, c}, WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 145.0, events[0].ExitSpeed.Value, "file order is preserved")
	assert.Equal(t, 150.0, events[1].ExitSpeed.Value)

	require.Len(t, reports, 3)
	assert.NoError(t, reports[0].Err)
	assert.Equal(t, 1, reports[0].Stats.Rejected)
	assert.Error(t, reports[1].Err)
	assert.NoError(t, reports[2].Err)
}

func TestLoad_ForcedKind(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "p.csv", "Player,Date,RelSpeed\nSato,2024-05-01,140\n")
	events, reports, err := Load(context.Background(), []string{p}, WithKind(model.KindPitching))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.KindPitching, reports[0].Kind)
	assert.Equal(t, "Sato", events[0].Subject)
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Load(ctx, []string{"x.csv"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024/may/b.csv", "x\n")
	writeFile(t, dir, "2024/a.xlsx", "x")
	writeFile(t, dir, "2024/~$a.xlsx", "lock")
	writeFile(t, dir, "readme.md", "x")
	writeFile(t, dir, ".cache/c.csv", "x\n")

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2024/a.xlsx"),
		filepath.Join(dir, "2024/may/b.csv"),
	}, paths)
}
