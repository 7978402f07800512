package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"realty-calc/calculator"
	"realty-calc/domain"
	"realty-calc/repository"
)

var ErrComparableNotFound = repository.ErrComparableNotFound

// ComparableService manages comparable sales saved for later CMAs.
// Locations are matched case-insensitively.
type ComparableService struct {
	repo   repository.ComparableRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewComparableService(repo repository.ComparableRepository, logger *zap.Logger) *ComparableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparableService{repo: repo, logger: logger, now: time.Now}
}

func (s *ComparableService) Save(ctx context.Context, location string, c domain.Comparable) (domain.SavedComparable, error) {
	loc := normalizeLocation(location)
	if loc == "" {
		return domain.SavedComparable{}, &calculator.InputError{Field: "location", Message: "must not be empty"}
	}
	if !c.SalePrice.IsPositive() {
		return domain.SavedComparable{}, &calculator.InputError{Field: "comparable.sale_price", Message: "must be greater than zero"}
	}
	if !c.SquareFootage.IsPositive() {
		return domain.SavedComparable{}, &calculator.InputError{Field: "comparable.square_footage", Message: "must be greater than zero"}
	}
	if c.Bedrooms < 0 || c.Bathrooms.IsNegative() {
		return domain.SavedComparable{}, &calculator.InputError{Field: "comparable", Message: "room counts must not be negative"}
	}
	if c.DistanceMiles.Valid && c.DistanceMiles.Decimal.IsNegative() {
		return domain.SavedComparable{}, &calculator.InputError{Field: "comparable.distance_miles", Message: "must not be negative"}
	}

	saved := domain.SavedComparable{
		ID:         uuid.NewString(),
		Location:   loc,
		Comparable: c,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Save(ctx, saved); err != nil {
		return domain.SavedComparable{}, fmt.Errorf("save comparable: %w", err)
	}
	s.logger.Info("saved comparable", zap.String("id", saved.ID), zap.String("location", loc))
	return saved, nil
}

func (s *ComparableService) List(ctx context.Context, location string) ([]domain.SavedComparable, error) {
	out, err := s.repo.List(ctx, normalizeLocation(location))
	if err != nil {
		return nil, fmt.Errorf("list comparables: %w", err)
	}
	return out, nil
}

func (s *ComparableService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrComparableNotFound) {
			return err
		}
		return fmt.Errorf("delete comparable: %w", err)
	}
	s.logger.Info("deleted comparable", zap.String("id", id))
	return nil
}

// forLocation returns the comparables saved under location.
func (s *ComparableService) forLocation(ctx context.Context, location string) ([]domain.Comparable, error) {
	loc := normalizeLocation(location)
	if loc == "" {
		return nil, nil
	}
	saved, err := s.repo.List(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("list comparables: %w", err)
	}
	out := make([]domain.Comparable, 0, len(saved))
	for _, sc := range saved {
		out = append(out, sc.Comparable)
	}
	return out, nil
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
