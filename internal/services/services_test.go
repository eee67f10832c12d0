package services

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"policeapp/internal/config"
	"policeapp/internal/distancematrix"
	"policeapp/internal/domain/entities"
	"policeapp/internal/geo"
	"policeapp/internal/nearest"
	"policeapp/internal/repository/memory"
)

// fakeMatrix answers every query with one OK element per destination whose
// travel time is taken from minutes, by destination index. A missing entry
// yields ZERO_RESULTS for that element.
type fakeMatrix struct {
	minutes []float64
	err     error
	status  string

	mu    sync.Mutex
	calls int
}

func (f *fakeMatrix) Matrix(ctx context.Context, origin entities.Location, destinations []entities.Location) (*distancematrix.Response, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.status != "" {
		return &distancematrix.Response{Status: f.status}, nil
	}
	elements := make([]distancematrix.Element, len(destinations))
	for i := range destinations {
		if i >= len(f.minutes) {
			elements[i] = distancematrix.Element{Status: "ZERO_RESULTS"}
			continue
		}
		elements[i] = distancematrix.Element{
			Status:   distancematrix.StatusOK,
			Distance: &distancematrix.TextValue{Value: f.minutes[i] * 1000},
			Duration: &distancematrix.TextValue{Value: f.minutes[i] * 60},
		}
	}
	return &distancematrix.Response{
		Status: distancematrix.StatusOK,
		Rows:   []distancematrix.Row{{Elements: elements}},
	}, nil
}

// recordingSender captures outgoing SMS.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

type sentSMS struct{ to, body string }

func (r *recordingSender) Send(ctx context.Context, to, body string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, sentSMS{to, body})
	return "SM-test", nil
}

func stations() []entities.LocationPoint {
	return []entities.LocationPoint{
		{Name: "A", Latitude: 1.0, Longitude: 1.0},
		{Name: "B", Latitude: 2.0, Longitude: 2.0},
	}
}

func setupLocationService(points []entities.LocationPoint, provider nearest.MatrixProvider) *LocationService {
	cfg := config.NewDefaultConfig()
	store := geo.NewDatasetStore("", geo.NewDataset("test", points))
	return NewLocationService(store, nearest.NewResolver(provider, nil), cfg.Location, zap.NewNop())
}

type testEnv struct {
	auth     *AuthService
	reports  *ReportService
	feedback *FeedbackService
	notifier *NotificationService
	sender   *recordingSender
	users    *memory.UserRepository
	locks    *memory.LockManager
	matrix   *fakeMatrix
}

func setupServices() *testEnv {
	cfg := config.NewDefaultConfig()
	log := zap.NewNop()

	users := memory.NewUserRepository()
	reportRepo := memory.NewReportRepository()
	feedbackRepo := memory.NewFeedbackRepository()
	locks := memory.NewLockManager(0)

	matrix := &fakeMatrix{minutes: []float64{10, 5}}
	locations := setupLocationService(stations(), matrix)

	sender := &recordingSender{}
	notifier := NewNotificationService(sender, log)

	auth := NewAuthService(users, NewTokenIssuer("test-secret", cfg.Auth.TokenTTL), log)
	auth.hashCost = bcrypt.MinCost

	return &testEnv{
		auth:     auth,
		reports:  NewReportService(reportRepo, users, locks, locations, notifier, cfg.Reports, log),
		feedback: NewFeedbackService(feedbackRepo, users, log),
		notifier: notifier,
		sender:   sender,
		users:    users,
		locks:    locks,
		matrix:   matrix,
	}
}

func (e *testEnv) signup(name, email, phone string) *entities.User {
	u, _, err := e.auth.Signup(context.Background(), SignupInput{Name: name, Email: email, Phone: phone, Password: "secret123"})
	if err != nil {
		panic(err)
	}
	return u
}
