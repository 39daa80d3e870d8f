package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-pheval/internal/assess"
	"github.com/inodb/vibe-pheval/internal/standardise"
	"github.com/inodb/vibe-pheval/internal/stats"
)

// recordKey is the composite key for deduplicating rank records before writing.
type recordKey struct {
	sampleID, entity string
}

// WriteRankRecords replaces the rank records of (run, kind) using the
// Appender API. Duplicate (sample_id, entity) entries keep the first record.
func (s *Store) WriteRankRecords(run string, kind standardise.Kind, records []assess.MatchResult) error {
	if _, err := s.db.Exec("DELETE FROM rank_records WHERE run=? AND kind=?", run, string(kind)); err != nil {
		return fmt.Errorf("clear rank records: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	seen := make(map[recordKey]bool, len(records))
	deduped := make([]assess.MatchResult, 0, len(records))
	for _, m := range records {
		k := recordKey{m.SampleID, m.Entity}
		if !seen[k] {
			seen[k] = true
			deduped = append(deduped, m)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "rank_records")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, m := range deduped {
		if err := appender.AppendRow(run, string(kind), m.SampleID, m.Entity, int64(m.Rank)); err != nil {
			return fmt.Errorf("append rank record: %w", err)
		}
	}

	return appender.Flush()
}

// LookupRankRecords returns the rank records of (run, kind) ordered by
// sample and entity.
func (s *Store) LookupRankRecords(run string, kind standardise.Kind) ([]assess.MatchResult, error) {
	rows, err := s.db.Query(`SELECT sample_id, entity, rank
		FROM rank_records
		WHERE run=? AND kind=?
		ORDER BY sample_id, entity`, run, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query rank records: %w", err)
	}
	defer rows.Close()

	var records []assess.MatchResult
	for rows.Next() {
		m := assess.MatchResult{Kind: kind}
		var rank int64
		if err := rows.Scan(&m.SampleID, &m.Entity, &rank); err != nil {
			return nil, fmt.Errorf("scan rank record: %w", err)
		}
		m.Rank = int(rank)
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rank records: %w", err)
	}
	return records, nil
}

// WriteSummary stores the summary row of (run, kind), replacing any
// previous one. The row label is not stored; run takes its place.
func (s *Store) WriteSummary(run string, kind standardise.Kind, row stats.SummaryRow) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO summaries VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run, string(kind),
		int64(row.Total),
		int64(row.Top1), row.Top1Pct,
		int64(row.Top3), row.Top3Pct,
		int64(row.Top5), row.Top5Pct,
		int64(row.Top10), row.Top10Pct,
		int64(row.Found), row.FoundPct,
		row.MRR,
	)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Summaries returns every stored summary of kind, labelled by run.
func (s *Store) Summaries(kind standardise.Kind) ([]stats.SummaryRow, error) {
	rows, err := s.db.Query(`SELECT run, total,
		top1, top1_pct, top3, top3_pct, top5, top5_pct, top10, top10_pct,
		found, found_pct, mrr
		FROM summaries
		WHERE kind=?
		ORDER BY run`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []stats.SummaryRow
	for rows.Next() {
		var r stats.SummaryRow
		var total, top1, top3, top5, top10, found int64
		if err := rows.Scan(&r.Label, &total,
			&top1, &r.Top1Pct, &top3, &r.Top3Pct, &top5, &r.Top5Pct, &top10, &r.Top10Pct,
			&found, &r.FoundPct, &r.MRR,
		); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		r.Total, r.Top1, r.Top3, r.Top5, r.Top10, r.Found = int(total), int(top1), int(top3), int(top5), int(top10), int(found)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

// Runs lists the stored run labels in sorted order.
func (s *Store) Runs() ([]string, error) {
	rows, err := s.db.Query(`SELECT run FROM rank_records
		UNION SELECT run FROM summaries
		ORDER BY run`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ClearRun removes every record and summary of run.
func (s *Store) ClearRun(run string) error {
	if _, err := s.db.Exec("DELETE FROM rank_records WHERE run=?", run); err != nil {
		return fmt.Errorf("clear rank records: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM summaries WHERE run=?", run); err != nil {
		return fmt.Errorf("clear summaries: %w", err)
	}
	return nil
}
