package application

import (
	"fmt"

	"github.com/felixgeelhaar/teambalance/internal/domain/workload"
)

// TargetService manages the per-person monthly point targets.
type TargetService struct {
	targets workload.TargetStore
}

// NewTargetService creates a target service.
func NewTargetService(targets workload.TargetStore) *TargetService {
	return &TargetService{targets: targets}
}

// Get returns the target for an email, or an error if none is configured.
func (s *TargetService) Get(email string) (int, error) {
	points, ok, err := s.targets.Target(email)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("no target configured for %s", email)
	}
	return points, nil
}

// Set writes the target for an email.
func (s *TargetService) Set(email string, points int) error {
	return s.targets.SetTarget(email, points)
}

// List returns all configured targets keyed by email.
func (s *TargetService) List() (map[string]int, error) {
	return s.targets.All()
}
