package services

import (
	"fmt"
)

// DeleteOutcome tells the caller what a delete request did
type DeleteOutcome string

const (
	// DeleteOutcomeRemoved means the row no longer exists
	DeleteOutcomeRemoved DeleteOutcome = "deleted"
	// DeleteOutcomeDeactivated means the row was kept with is_active=false
	DeleteOutcomeDeactivated DeleteOutcome = "deactivated"
)

// dependentDelete removes a row only when nothing references it; otherwise it deactivates the row.
type dependentDelete struct {
	entity     string
	dependents func(id uint64) (int64, error)
	deactivate func(id uint64) error
	remove     func(id uint64) error
}

func (p dependentDelete) apply(id uint64) (DeleteOutcome, error) {
	count, err := p.dependents(id)
	if err != nil {
		return "", fmt.Errorf("failed to count %s dependents: %w", p.entity, err)
	}

	if count > 0 {
		if err := p.deactivate(id); err != nil {
			return "", fmt.Errorf("failed to deactivate %s: %w", p.entity, err)
		}
		return DeleteOutcomeDeactivated, nil
	}

	if err := p.remove(id); err != nil {
		return "", fmt.Errorf("failed to delete %s: %w", p.entity, err)
	}
	return DeleteOutcomeRemoved, nil
}
