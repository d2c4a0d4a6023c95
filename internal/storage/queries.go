package storage

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/pable/go-bb-metrics/internal/classify"
	"github.com/pable/go-bb-metrics/internal/model"
)

// LoadEvents inserts events in one transaction.
func (db *DB) LoadEvents(events []model.Event) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO events(
			kind, subject, date, source,
			exit_speed, launch_angle, distance, direction, course,
			pitch_type, rel_speed, induced_vert_break, horz_break,
			plate_loc_side, plate_loc_height, pitch_call,
			is_barrel, is_strike, is_swing, is_whiff
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.Exec(
			e.Kind.String(), e.Subject, nullDate(e.Date), e.Source,
			nullMetric(e.ExitSpeed), nullMetric(e.LaunchAngle), nullMetric(e.Distance), nullMetric(e.Direction), nullCourse(e.Course),
			nullString(e.PitchType), nullMetric(e.RelSpeed), nullMetric(e.InducedVertBreak), nullMetric(e.HorzBreak),
			nullMetric(e.PlateLocSide), nullMetric(e.PlateLocHeight), nullString(e.PitchCall),
			boolInt(classify.IsBarrel(e)), boolInt(classify.IsStrike(e)), boolInt(classify.IsSwing(e)), boolInt(classify.IsWhiff(e)),
		)
		if err != nil {
			return fmt.Errorf("insert event from %s: %w", e.Source, err)
		}
	}
	return tx.Commit()
}

// CountEvents returns the number of stored events of kind.
func (db *DB) CountEvents(kind model.Kind) (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM events WHERE kind = ?", kind.String()).Scan(&n)
	return n, err
}

// QueryRaw runs an arbitrary query and returns the column names and every
// row rendered as strings. NULL renders as "—".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = formatValue(v)
		}
		out = append(out, rec)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "—"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func nullMetric(m model.Metric) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.OK}
}

func nullDate(d model.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullCourse(c int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(c), Valid: c > 0}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
