package storage

import (
	"testing"
	"time"

	"github.com/pable/go-bb-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleEvents() []model.Event {
	may1 := model.NewDate(2024, time.May, 1)
	return []model.Event{
		{Kind: model.KindHitting, Subject: "Ito", Date: may1, Source: "a.csv",
			ExitSpeed: model.Some(145), LaunchAngle: model.Some(15), Course: 5},
		{Kind: model.KindHitting, Subject: "Ito", Source: "a.csv",
			ExitSpeed: model.Some(120)},
		{Kind: model.KindPitching, Subject: "Sato", Date: may1, Source: "tm.csv",
			PitchType: "Fastball", PitchCall: "StrikeSwinging", RelSpeed: model.Some(145.5)},
	}
}

func TestLoadEventsAndCount(t *testing.T) {
	db := openMemDB(t)
	if err := db.LoadEvents(sampleEvents()); err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}

	hits, err := db.CountEvents(model.KindHitting)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if hits != 2 {
		t.Errorf("expected 2 hitting events, got %d", hits)
	}
	pitches, _ := db.CountEvents(model.KindPitching)
	if pitches != 1 {
		t.Errorf("expected 1 pitching event, got %d", pitches)
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if err := db.LoadEvents(sampleEvents()); err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}

	cols, rows, err := db.QueryRaw("SELECT subject, date, exit_speed, is_barrel FROM hitting ORDER BY id")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 4 || cols[0] != "subject" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "2024-05-01" || rows[0][2] != "145" || rows[0][3] != "1" {
		t.Errorf("unexpected first row %v", rows[0])
	}
	// Undated event keeps a NULL date.
	if rows[1][1] != "—" {
		t.Errorf("expected NULL date to render as —, got %q", rows[1][1])
	}
}

func TestQueryRawPitchingView(t *testing.T) {
	db := openMemDB(t)
	if err := db.LoadEvents(sampleEvents()); err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}

	_, rows, err := db.QueryRaw("SELECT pitch_type, rel_speed, is_swing, is_whiff FROM pitching")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := []string{"Fastball", "145.5", "1", "1"}
	for i := range want {
		if rows[0][i] != want[i] {
			t.Errorf("col %d: want %q, got %q", i, want[i], rows[0][i])
		}
	}
}

func TestQueryRawBadSQL(t *testing.T) {
	db := openMemDB(t)
	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestOpenIsolated(t *testing.T) {
	a := openMemDB(t)
	b := openMemDB(t)
	if err := a.LoadEvents(sampleEvents()); err != nil {
		t.Fatalf("LoadEvents: %v", err)
	}
	n, err := b.CountEvents(model.KindHitting)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	if n != 0 {
		t.Errorf("separate databases must not share data, got %d events", n)
	}
}
