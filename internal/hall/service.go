package hall

import (
	"context"
	"net/http"

	"github.com/bookmyhall/banquet-booking-backend/internal/pkg/apperror"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*Hall, error)

	// GetActiveByIDs resolves every requested hall and fails hard when any
	// hall is missing or inactive. Callers must re-invoke this at write time,
	// not only at initial query time, since a hall may be deactivated in between.
	GetActiveByIDs(ctx context.Context, ids []string) ([]*Hall, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Hall, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetActiveByIDs(ctx context.Context, ids []string) ([]*Hall, error) {
	halls, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(halls) != len(ids) {
		return nil, ErrNotFound
	}
	for _, h := range halls {
		if !h.IsActive {
			return nil, apperror.Newf(http.StatusBadRequest, "%s is not available for booking", h.Name)
		}
	}
	return halls, nil
}
