package sqlite

import (
	"database/sql"

	"plantbot/internal/domain"
)

func InsertAnalysis(db *sql.DB, rec domain.AnalysisRecord) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO analyses (plant_id, scan_id, raw_response, reliability_status, health_score, summary, common_name, scientific_name)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PlantID, rec.ScanID, rec.RawResponse, string(rec.ReliabilityStatus),
		rec.HealthScore, rec.Summary, rec.CommonName, rec.ScientificName,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetAnalysis(db *sql.DB, id int64) (domain.AnalysisRecord, error) {
	var rec domain.AnalysisRecord
	var status string
	err := db.QueryRow(
		`SELECT id, plant_id, scan_id, raw_response, reliability_status, health_score, summary, common_name, scientific_name, created_at
		 FROM analyses WHERE id = ?`, id,
	).Scan(
		&rec.ID, &rec.PlantID, &rec.ScanID, &rec.RawResponse, &status,
		&rec.HealthScore, &rec.Summary, &rec.CommonName, &rec.ScientificName, &rec.CreatedAt,
	)
	rec.ReliabilityStatus = domain.ReliabilityStatus(status)
	return rec, err
}

// ListDefaultStatusAnalyses returns up to limit records still carrying the
// pre-classification default status, with ids greater than afterID. The
// cursor lets a rescan run walk the table without revisiting records that
// genuinely re-parse as OK.
func ListDefaultStatusAnalyses(db *sql.DB, afterID int64, limit int) ([]domain.AnalysisRecord, error) {
	rows, err := db.Query(
		`SELECT id, plant_id, scan_id, raw_response, reliability_status, health_score, summary, common_name, scientific_name, created_at
		 FROM analyses WHERE reliability_status = ? AND id > ? ORDER BY id LIMIT ?`,
		string(domain.StatusOK), afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.AnalysisRecord
	for rows.Next() {
		var rec domain.AnalysisRecord
		var status string
		if err := rows.Scan(
			&rec.ID, &rec.PlantID, &rec.ScanID, &rec.RawResponse, &status,
			&rec.HealthScore, &rec.Summary, &rec.CommonName, &rec.ScientificName, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.ReliabilityStatus = domain.ReliabilityStatus(status)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func UpdateAnalysisStatus(db *sql.DB, id int64, status domain.ReliabilityStatus) error {
	_, err := db.Exec(`UPDATE analyses SET reliability_status = ? WHERE id = ?`, string(status), id)
	return err
}
