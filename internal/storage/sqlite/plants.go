package sqlite

import (
	"database/sql"

	"plantbot/internal/domain"
)

func InsertPlant(db *sql.DB, p domain.Plant) (int64, error) {
	res, err := db.Exec(`INSERT INTO plants (name, species) VALUES (?, ?)`, p.Name, p.Species)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func GetPlant(db *sql.DB, id int64) (domain.Plant, error) {
	var p domain.Plant
	err := db.QueryRow(
		`SELECT id, name, species, created_at FROM plants WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Species, &p.CreatedAt)
	return p, err
}
