package dto

import (
	"github.com/xinwork/repair-order-api/internal/services"
	"github.com/xinwork/repair-order-api/internal/utils"
)

// ListResponse represents a paginated list
type ListResponse[T any] struct {
	Items      []T                      `json:"items"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// NewListResponse builds a ListResponse; a nil slice is sent as []
func NewListResponse[T any](items []T, params utils.PaginationParams, total int64) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}

// DeleteResponse tells whether a row was removed or only deactivated
type DeleteResponse struct {
	ID      uint64                 `json:"id"`
	Outcome services.DeleteOutcome `json:"outcome"`
	Message string                 `json:"message"`
}

// NewDeleteResponse describes the outcome of deleting entity id
func NewDeleteResponse(entity string, id uint64, outcome services.DeleteOutcome) DeleteResponse {
	message := entity + " deleted"
	if outcome == services.DeleteOutcomeDeactivated {
		message = entity + " is still referenced and was deactivated"
	}
	return DeleteResponse{ID: id, Outcome: outcome, Message: message}
}

// MessageResponse carries a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
