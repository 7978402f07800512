package repository

import (
	"context"
	"errors"

	"realty-calc/domain"
)

var ErrComparableNotFound = errors.New("comparable not found")

// ComparableRepository keeps comparable sales for reuse across CMA
// requests. List with an empty location returns every comparable.
type ComparableRepository interface {
	Save(ctx context.Context, c domain.SavedComparable) error
	List(ctx context.Context, location string) ([]domain.SavedComparable, error)
	Delete(ctx context.Context, id string) error
}
