package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"policeapp/internal/domain/entities"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, user_id, crime_type, latitude, longitude, location_name,
    description, audio_url, geohash, nearest_station, created_at`

func (r *ReportRepository) Create(ctx context.Context, rep *entities.Report) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rep.ID, rep.UserID, string(rep.CrimeType), rep.Location.Latitude, rep.Location.Longitude,
		rep.LocationName, rep.Description, rep.AudioURL, rep.Geohash, rep.NearestStation, rep.CreatedAt)
	return mapError(err)
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID int64) ([]*entities.Report, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID)
	if err != nil {
		return nil, err
	}
	return scanReports(rows)
}

// ListInCells matches reports on the leading len(cells[0]) characters of
// their stored geohash.
func (r *ReportRepository) ListInCells(ctx context.Context, cells []string) ([]*entities.Report, error) {
	if len(cells) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE substr(geohash, 1, $1) = ANY($2)`,
		len(cells[0]), pq.Array(cells))
	if err != nil {
		return nil, err
	}
	return scanReports(rows)
}

func scanReports(rows *sql.Rows) ([]*entities.Report, error) {
	defer rows.Close()

	var out []*entities.Report
	for rows.Next() {
		var (
			rep       entities.Report
			crimeType string
		)
		if err := rows.Scan(&rep.ID, &rep.UserID, &crimeType, &rep.Location.Latitude, &rep.Location.Longitude,
			&rep.LocationName, &rep.Description, &rep.AudioURL, &rep.Geohash, &rep.NearestStation, &rep.CreatedAt); err != nil {
			return nil, err
		}
		rep.CrimeType = entities.CrimeType(crimeType)
		out = append(out, &rep)
	}
	return out, rows.Err()
}
