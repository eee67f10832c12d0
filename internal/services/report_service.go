package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"policeapp/internal/config"
	"policeapp/internal/domain/entities"
	"policeapp/internal/export"
	"policeapp/internal/geo"
	"policeapp/internal/metrics"
	"policeapp/internal/repository"
	"policeapp/pkg/utils"
)

// MaxNearbyRadiusKm bounds the nearby lookup.
const MaxNearbyRadiusKm = 50.0

// StationLocator finds the nearest police station. *LocationService
// implements it.
type StationLocator interface {
	Nearest(ctx context.Context, lat, lon float64) (entities.ResolvedCandidate, error)
}

type ReportService struct {
	reports  repository.ReportRepository
	users    repository.UserRepository
	locks    repository.LockManager
	stations StationLocator
	notifier *NotificationService
	cfg      config.ReportsConfig
	log      *zap.Logger
}

func NewReportService(
	reports repository.ReportRepository,
	users repository.UserRepository,
	locks repository.LockManager,
	stations StationLocator,
	notifier *NotificationService,
	cfg config.ReportsConfig,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		reports:  reports,
		users:    users,
		locks:    locks,
		stations: stations,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
	}
}

type CreateReportInput struct {
	CrimeType    string
	Latitude     float64
	Longitude    float64
	Description  string
	LocationName string
	AudioURL     string
}

// Create validates and stores a report.
//
// A user may file one report per crime type per cooldown window; the lock
// taken here is never released and simply expires. The nearest station is
// looked up best-effort: a provider failure is logged and the report is
// stored without it. The author gets an SMS confirmation when SMS is enabled.
func (s *ReportService) Create(ctx context.Context, userID int64, in CreateReportInput) (*entities.Report, error) {
	crimeType, ok := entities.ParseCrimeType(in.CrimeType)
	if !ok {
		return nil, ErrInvalidCrimeType
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	lockKey := fmt.Sprintf("report:%d:%s", userID, crimeType)
	if s.cfg.Cooldown > 0 {
		acquired, err := s.locks.AcquireLock(ctx, lockKey, s.cfg.Cooldown)
		if err != nil {
			return nil, fmt.Errorf("acquire cooldown lock: %w", err)
		}
		if !acquired {
			retry, _ := s.locks.TTL(ctx, lockKey)
			return nil, &CooldownError{RetryAfter: retry}
		}
	}

	loc := entities.NewLocation(in.Latitude, in.Longitude)
	report := entities.NewReport(utils.GenerateID(), userID, crimeType, loc,
		geo.Encode(loc.Latitude, loc.Longitude, s.cfg.GeohashPrecision))
	report.Description = strings.TrimSpace(in.Description)
	report.LocationName = strings.TrimSpace(in.LocationName)
	report.AudioURL = strings.TrimSpace(in.AudioURL)

	if s.stations != nil {
		if station, err := s.stations.Nearest(ctx, loc.Latitude, loc.Longitude); err != nil {
			s.log.Warn("report_station_lookup_failed", zap.String("report_id", report.ID), zap.Error(err))
		} else {
			report.NearestStation = station.Name
		}
	}

	if err := s.reports.Create(ctx, report); err != nil {
		if s.cfg.Cooldown > 0 {
			_ = s.locks.ReleaseLock(ctx, lockKey)
		}
		return nil, err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(string(crimeType)).Inc()
	s.log.Info("report_created",
		zap.String("report_id", report.ID),
		zap.Int64("user_id", userID),
		zap.String("crime_type", string(crimeType)),
		zap.String("geohash", report.Geohash),
	)

	if s.notifier != nil {
		s.notifier.NotifyReportReceived(ctx, user, report)
	}
	return report, nil
}

// History returns the user's reports, newest first.
func (s *ReportService) History(ctx context.Context, userID int64) ([]*entities.Report, error) {
	return s.reports.ListByUser(ctx, userID)
}

// ExportHistory writes the user's history as an xlsx workbook to w.
func (s *ReportService) ExportHistory(ctx context.Context, userID int64, w io.Writer) error {
	reports, err := s.History(ctx, userID)
	if err != nil {
		return err
	}
	return export.WriteHistory(w, reports)
}

// Nearby returns reports within radiusKm of (lat, lon), nearest first.
//
// The geohash 3x3 block around the query point narrows the candidates; the
// haversine distance then filters exactly. radiusKm <= 0 selects the
// configured default and values above MaxNearbyRadiusKm are clamped.
func (s *ReportService) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]entities.NearbyReport, error) {
	if radiusKm <= 0 {
		radiusKm = s.cfg.NearbyRadiusKm
	}
	if radiusKm > MaxNearbyRadiusKm {
		radiusKm = MaxNearbyRadiusKm
	}

	precision := geo.PrecisionForRadius(radiusKm, lat)
	if precision > s.cfg.GeohashPrecision {
		precision = s.cfg.GeohashPrecision
	}
	cells := geo.AllNeighbors(geo.Encode(lat, lon, precision))

	candidates, err := s.reports.ListInCells(ctx, cells)
	if err != nil {
		return nil, err
	}

	out := make([]entities.NearbyReport, 0, len(candidates))
	for _, r := range candidates {
		d := geo.Haversine(lat, lon, r.Location.Latitude, r.Location.Longitude)
		if d <= radiusKm {
			out = append(out, entities.NearbyReport{Report: r, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Report.CreatedAt.After(out[j].Report.CreatedAt)
	})
	return out, nil
}
