package repository

import (
	"database/sql"
	"fmt"

	"finbrief/internal/model"
)

type BriefingRepository struct {
	db *sql.DB
}

func NewBriefingRepository(db *sql.DB) *BriefingRepository {
	return &BriefingRepository{db: db}
}

// SaveBriefing inserts a finished briefing and its cited sources in one
// transaction.
func (r *BriefingRepository) SaveBriefing(briefing *model.Briefing, sources []model.BriefingSource) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO briefing(run_id, topic, report_zh, report_en, source_count, model_used)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, briefing.RunID, briefing.Topic, briefing.ReportZH, briefing.ReportEN, briefing.SourceCount, briefing.ModelUsed).Scan(&briefing.ID)
	if err != nil {
		return fmt.Errorf("insert briefing: %w", err)
	}

	for _, src := range sources {
		_, err := tx.Exec(`
			INSERT INTO briefing_source(briefing_id, source_id, title, url)
			VALUES($1, $2, $3, $4)
		`, briefing.ID, src.SourceID, src.Title, src.URL)
		if err != nil {
			return fmt.Errorf("insert source: %w", err)
		}
	}

	return tx.Commit()
}

func (r *BriefingRepository) GetBriefings(limit, offset int) ([]model.Briefing, error) {
	rows, err := r.db.Query(`
		SELECT id, run_id, topic, report_zh, report_en, source_count, model_used, created_at
		FROM briefing
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefings []model.Briefing
	for rows.Next() {
		var b model.Briefing
		err := rows.Scan(&b.ID, &b.RunID, &b.Topic, &b.ReportZH, &b.ReportEN, &b.SourceCount, &b.ModelUsed, &b.CreatedAt)
		if err != nil {
			return nil, err
		}
		briefings = append(briefings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return briefings, nil
}

func (r *BriefingRepository) GetBriefingTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM briefing`).Scan(&total)
	return total, err
}

func (r *BriefingRepository) GetLatestBriefing() (*model.Briefing, error) {
	var b model.Briefing
	err := r.db.QueryRow(`
		SELECT id, run_id, topic, report_zh, report_en, source_count, model_used, created_at
		FROM briefing
		ORDER BY created_at DESC
		LIMIT 1
	`).Scan(&b.ID, &b.RunID, &b.Topic, &b.ReportZH, &b.ReportEN, &b.SourceCount, &b.ModelUsed, &b.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *BriefingRepository) GetSourcesByBriefingID(briefingID int64) ([]model.BriefingSource, error) {
	rows, err := r.db.Query(`
		SELECT id, briefing_id, source_id, title, url
		FROM briefing_source
		WHERE briefing_id = $1
		ORDER BY source_id ASC
	`, briefingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []model.BriefingSource
	for rows.Next() {
		var s model.BriefingSource
		err := rows.Scan(&s.ID, &s.BriefingID, &s.SourceID, &s.Title, &s.URL)
		if err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sources, nil
}
