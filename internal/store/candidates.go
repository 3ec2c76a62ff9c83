// internal/store/candidates.go

// Package store holds the data suppliers feeding the ranking pipeline:
// Postgres for candidates and actor profiles, Redis as a read-through
// profile cache, and Elasticsearch for candidate search. Every supplier
// hands its rows to the ingest boundary so the engine only ever sees
// validated, typed records.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/lib/pq"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/ingest"
	"matching-engine/internal/matching"
)

const candidateColumns = `
	id, required_skills, lat, lng, budget_min, budget_max, fixed_price,
	urgency, created_at, verified_payment, description, city, zip_code,
	rating_overall, rating_reliability, rating_communication,
	rating_fairness, rating_respectfulness, total_ratings`

// CandidateStore supplies candidates from Postgres.
type CandidateStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCandidateStore(db *sql.DB, log logger.Logger) *CandidateStore {
	return &CandidateStore{db: db, logger: log}
}

// GetByIDs loads the given candidates. Rows failing validation are
// reported as skips, not errors; a missing id is simply absent from the
// result.
func (s *CandidateStore) GetByIDs(ctx context.Context, ids []string) ([]*matching.Candidate, []ingest.Skipped, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, nil, s.queryError("candidates_by_ids", err)
	}
	defer rows.Close()

	return s.collect(rows)
}

// ListOpen returns up to limit open candidates, newest first.
func (s *CandidateStore) ListOpen(ctx context.Context, limit int) ([]*matching.Candidate, []ingest.Skipped, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE status = 'open' ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, nil, s.queryError("open_candidates", err)
	}
	defer rows.Close()

	return s.collect(rows)
}

// collect scans rows into raw records and pushes each through the ingest
// boundary, isolating per-row failures.
func (s *CandidateStore) collect(rows *sql.Rows) ([]*matching.Candidate, []ingest.Skipped, error) {
	var candidates []*matching.Candidate
	var skipped []ingest.Skipped

	for rows.Next() {
		raw, id, err := scanCandidateRow(rows)
		if err != nil {
			s.logger.Warn("candidate row rejected", map[string]interface{}{
				"candidateId": id,
				"error":       err.Error(),
			})
			skipped = append(skipped, ingest.Skipped{CandidateID: id, Reason: err.Error()})
			continue
		}

		c, err := ingest.Candidate(raw)
		if err != nil {
			skipped = append(skipped, ingest.Skipped{CandidateID: id, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, s.queryError("candidate_rows", err)
	}

	return candidates, skipped, nil
}

// scanCandidateRow turns one row into the raw JSON record shape the ingest
// boundary expects. Nullable columns become absent fields, never zeros.
func scanCandidateRow(rows *sql.Rows) (json.RawMessage, string, error) {
	var (
		id, urgency                              string
		skills                                   pq.StringArray
		lat, lng, budgetMin, budgetMax, fixed    sql.NullFloat64
		createdAt                                time.Time
		verifiedPayment                          bool
		description, city, zipCode               sql.NullString
		overall, reliability, communication      sql.NullFloat64
		fairness, respectfulness                 sql.NullFloat64
		totalRatings                             sql.NullInt64
	)

	if err := rows.Scan(
		&id, &skills, &lat, &lng, &budgetMin, &budgetMax, &fixed,
		&urgency, &createdAt, &verifiedPayment, &description, &city, &zipCode,
		&overall, &reliability, &communication, &fairness, &respectfulness,
		&totalRatings,
	); err != nil {
		return nil, id, err
	}

	record := map[string]interface{}{
		"id":              id,
		"requiredSkills":  []string(skills),
		"urgency":         urgency,
		"createdAt":       createdAt.UTC().Format(time.RFC3339),
		"verifiedPayment": verifiedPayment,
	}
	if lat.Valid && lng.Valid {
		record["location"] = map[string]interface{}{"lat": lat.Float64, "lng": lng.Float64}
	}
	if budgetMin.Valid || budgetMax.Valid {
		record["budget"] = map[string]interface{}{
			"min": budgetMin.Float64,
			"max": budgetMax.Float64,
		}
	}
	if fixed.Valid {
		record["fixedPrice"] = fixed.Float64
	}
	if description.Valid {
		record["description"] = description.String
	}
	if city.Valid {
		record["city"] = city.String
	}
	if zipCode.Valid {
		record["zipCode"] = zipCode.String
	}
	if rep := reputationRecord(overall, reliability, communication, fairness, respectfulness, totalRatings); rep != nil {
		record["reputation"] = rep
	}

	raw, err := json.Marshal(record)
	return raw, id, err
}

func reputationRecord(overall, reliability, communication, fairness, respectfulness sql.NullFloat64, total sql.NullInt64) map[string]interface{} {
	rep := map[string]interface{}{}
	put := func(key string, v sql.NullFloat64) {
		if v.Valid {
			rep[key] = v.Float64
		}
	}
	put("overall", overall)
	put("reliability", reliability)
	put("communication", communication)
	put("fairness", fairness)
	put("respectfulness", respectfulness)
	if len(rep) == 0 {
		return nil
	}
	if total.Valid {
		rep["totalRatings"] = total.Int64
	}
	return rep
}

func (s *CandidateStore) queryError(queryType string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(queryType)
	}
	return errors.NewQueryExecutionFailedError(queryType, err)
}
