package nearest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"policeapp/internal/distancematrix"
	"policeapp/internal/domain/entities"
	"policeapp/internal/metrics"
)

// ErrNoCandidates is returned by Resolve when there is nothing to route to.
var ErrNoCandidates = errors.New("nearest: no candidates")

// MatrixProvider is the travel-time source. *distancematrix.Client satisfies
// it; tests substitute a fake.
type MatrixProvider interface {
	Matrix(ctx context.Context, origin entities.Location, destinations []entities.Location) (*distancematrix.Response, error)
}

// Resolver attaches provider travel metrics to straight-line candidates.
type Resolver struct {
	provider MatrixProvider
	log      *zap.Logger
}

func NewResolver(provider MatrixProvider, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{provider: provider, log: log}
}

// Resolve issues a single provider call with origin as the only origin and
// every candidate as a destination, in order. Candidates whose element status
// is not "OK" get the +Inf sentinel. Provider failures fail the whole call:
// no partial result is returned.
func (r *Resolver) Resolve(ctx context.Context, origin entities.Location, candidates []entities.RankedCandidate) ([]entities.ResolvedCandidate, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	destinations := make([]entities.Location, len(candidates))
	for i, c := range candidates {
		destinations[i] = c.Coordinates()
	}

	resp, err := r.provider.Matrix(ctx, origin, destinations)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &distancematrix.ParseError{Err: errors.New("empty response")}
	}
	if resp.Status != distancematrix.StatusOK {
		return nil, &distancematrix.ProviderError{Status: resp.Status, Message: resp.ErrorMessage}
	}
	if len(resp.Rows) == 0 {
		return nil, &distancematrix.ParseError{Err: errors.New("response has no rows")}
	}
	elements := resp.Rows[0].Elements
	if len(elements) != len(candidates) {
		return nil, &distancematrix.ParseError{
			Err: fmt.Errorf("got %d elements for %d destinations", len(elements), len(candidates)),
		}
	}

	resolved := make([]entities.ResolvedCandidate, len(candidates))
	unreachable := 0
	for i, el := range elements {
		if el.Status != distancematrix.StatusOK {
			resolved[i] = entities.Unreachable(candidates[i])
			unreachable++
			r.log.Debug("candidate_unreachable",
				zap.String("name", candidates[i].Name),
				zap.String("status", el.Status),
			)
			continue
		}
		if el.Distance == nil || el.Duration == nil {
			return nil, &distancematrix.ParseError{
				Err: fmt.Errorf("element %d has status OK but no distance or duration", i),
			}
		}
		resolved[i] = entities.ResolvedCandidate{
			RankedCandidate:  candidates[i],
			TravelDistanceKm: el.Distance.Value / 1000,
			TravelTimeMin:    el.Duration.Value / 60,
		}
	}
	metrics.UnreachableTotal.Add(float64(unreachable))

	return resolved, nil
}
