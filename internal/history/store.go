// Package history persists analyses and their explanations in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/textlens/textlens/internal/db"
	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/highlight"
	"github.com/textlens/textlens/internal/trends"
)

// Store provides CRUD operations for analyses.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save inserts a new analysis with its explanation words. An empty ID is
// replaced by a UUID and a zero CreatedAt by the current time.
func (s *Store) Save(ctx context.Context, a Analysis) (Analysis, error) {
	if a.Result == nil {
		return a, fmt.Errorf("saving analysis: missing result")
	}
	if !a.Source.Valid() {
		return a, fmt.Errorf("saving analysis: unknown source %q", a.Source)
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = a.CreatedAt.UTC().Truncate(time.Second)

	probs, err := json.Marshal(a.Result.Probabilities)
	if err != nil {
		return a, fmt.Errorf("marshalling probabilities: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return a, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analyses (id, source, name, text, prediction, confidence, probabilities, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Source), a.Name, a.Text,
		a.Result.Prediction, a.Result.Confidence, string(probs),
		a.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		return a, fmt.Errorf("inserting analysis: %w", err)
	}

	for i, w := range a.Result.Explanation {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO analysis_words (analysis_id, position, word, weight) VALUES (?, ?, ?, ?)`,
			a.ID, i, w.Word, w.Weight)
		if err != nil {
			return a, fmt.Errorf("inserting explanation word: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return a, fmt.Errorf("committing analysis: %w", err)
	}
	return a, nil
}

// Get returns one analysis including its explanation.
func (s *Store) Get(ctx context.Context, id string) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, name, text, prediction, confidence, probabilities, created_at
		FROM analyses WHERE id = ?`, id)

	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word, weight FROM analysis_words WHERE analysis_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("getting explanation: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var w highlight.ScoredWord
		if err := rows.Scan(&w.Word, &w.Weight); err != nil {
			return nil, err
		}
		a.Result.Explanation = append(a.Result.Explanation, w)
	}
	return a, rows.Err()
}

// List returns analyses matching the filter, newest first. Explanations
// are not loaded; use Get for the full record.
func (s *Store) List(ctx context.Context, filter Filter) ([]Analysis, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.Label != "" {
		clauses = append(clauses, "prediction = ?")
		args = append(args, filter.Label)
	}

	query := "SELECT id, source, name, text, prediction, confidence, probabilities, created_at FROM analyses"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Delete removes an analysis and its words.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM analysis_words WHERE analysis_id = ?", id); err != nil {
		return fmt.Errorf("deleting explanation: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// CountByYear returns per-year verdict counts. Error verdicts are left out.
func (s *Store) CountByYear(ctx context.Context) ([]trends.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(substr(created_at, 1, 4) AS INTEGER) AS year, prediction, COUNT(*)
		FROM analyses
		WHERE prediction != ?
		GROUP BY year, prediction
		ORDER BY year, prediction`, detector.LabelError)
	if err != nil {
		return nil, fmt.Errorf("counting analyses: %w", err)
	}
	defer rows.Close()

	var out []trends.Record
	for rows.Next() {
		var r trends.Record
		if err := rows.Scan(&r.Year, &r.Label, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// TopWords returns the words that appear most often in stored
// explanations, optionally restricted to one predicted label.
func (s *Store) TopWords(ctx context.Context, label string, limit int) ([]WordStat, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT lower(w.word), COUNT(*), AVG(w.weight)
		FROM analysis_words w JOIN analyses a ON a.id = w.analysis_id`
	var args []any
	if label != "" {
		query += " WHERE a.prediction = ?"
		args = append(args, label)
	}
	query += fmt.Sprintf(" GROUP BY lower(w.word) ORDER BY COUNT(*) DESC, lower(w.word) LIMIT %d", limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top words: %w", err)
	}
	defer rows.Close()

	var out []WordStat
	for rows.Next() {
		var ws WordStat
		if err := rows.Scan(&ws.Word, &ws.Count, &ws.MeanWeight); err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(sc scanner) (*Analysis, error) {
	var (
		a         Analysis
		source    string
		probsJSON string
		created   string
		res       detector.Result
	)
	err := sc.Scan(&a.ID, &source, &a.Name, &a.Text,
		&res.Prediction, &res.Confidence, &probsJSON, &created)
	if err != nil {
		return nil, err
	}
	a.Source = Source(source)

	if err := json.Unmarshal([]byte(probsJSON), &res.Probabilities); err != nil || res.Probabilities == nil {
		res.Probabilities = map[string]float64{}
	}
	res.Explanation = highlight.ExplanationSet{}
	a.Result = &res

	if t, parseErr := time.Parse(time.DateTime, created); parseErr == nil {
		a.CreatedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
		a.CreatedAt = t
	}
	return &a, nil
}
