package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/types"
)

const maxTitleLength = 200

// CreateListingInput carries the caller-supplied listing fields. UserFields
// is free-form; the schema only interprets the keys the AI pipeline knows.
type CreateListingInput struct {
	Type         types.ListingType `json:"type"`
	PropertyType string            `json:"propertyType"`
	Title        string            `json:"title"`
	Price        *float64          `json:"price"`
	UserFields   map[string]any    `json:"userFields"`
}

// UpdateListingInput uses pointers so absent fields stay untouched.
type UpdateListingInput struct {
	Type         *types.ListingType   `json:"type"`
	PropertyType *string              `json:"propertyType"`
	Status       *types.ListingStatus `json:"status"`
	Title        *string              `json:"title"`
	Price        *float64             `json:"price"`
	UserFields   map[string]any       `json:"userFields"`
}

type ListingService interface {
	Create(ctx context.Context, input CreateListingInput) (*types.Listing, error)
	GetByID(ctx context.Context, listingID uuid.UUID) (*types.Listing, error)
	List(ctx context.Context, filter repos.ListingFilter) ([]*types.Listing, int64, error)
	Update(ctx context.Context, listingID uuid.UUID, input UpdateListingInput) (*types.Listing, error)
	Delete(ctx context.Context, listingID uuid.UUID) error
}

type listingService struct {
	log  *logger.Logger
	repo repos.ListingRepo
}

func NewListingService(repo repos.ListingRepo, baseLog *logger.Logger) ListingService {
	return &listingService{
		log:  baseLog.With("service", "ListingService"),
		repo: repo,
	}
}

func (ls *listingService) Create(ctx context.Context, input CreateListingInput) (*types.Listing, error) {
	if err := validateType(input.Type); err != nil {
		return nil, err
	}
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}

	propertyType := input.PropertyType
	if propertyType == "" {
		propertyType = "default"
	}

	listing := &types.Listing{
		ID:           uuid.New(),
		Type:         input.Type,
		PropertyType: propertyType,
		Status:       types.ListingStatusDraft,
		Title:        input.Title,
		Price:        input.Price,
		UserFields:   datatypes.JSONMap(input.UserFields),
	}
	created, err := ls.repo.Create(ctx, nil, listing)
	if err != nil {
		return nil, err
	}
	ls.log.Info("Listing created", "listing_id", created.ID, "type", created.Type)
	return created, nil
}

func (ls *listingService) GetByID(ctx context.Context, listingID uuid.UUID) (*types.Listing, error) {
	listing, err := ls.repo.GetByID(ctx, nil, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrNotFound
	}
	return listing, nil
}

func (ls *listingService) List(ctx context.Context, filter repos.ListingFilter) ([]*types.Listing, int64, error) {
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return ls.repo.List(ctx, nil, filter)
}

func (ls *listingService) Update(ctx context.Context, listingID uuid.UUID, input UpdateListingInput) (*types.Listing, error) {
	listing, err := ls.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if err := validateType(*input.Type); err != nil {
			return nil, err
		}
		listing.Type = *input.Type
	}
	if input.PropertyType != nil && *input.PropertyType != "" {
		listing.PropertyType = *input.PropertyType
	}
	if input.Status != nil {
		switch *input.Status {
		case types.ListingStatusDraft, types.ListingStatusReady, types.ListingStatusArchived:
			listing.Status = *input.Status
		default:
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *input.Status)
		}
	}
	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		listing.Title = *input.Title
	}
	if input.Price != nil {
		if err := validatePrice(input.Price); err != nil {
			return nil, err
		}
		listing.Price = input.Price
	}
	if input.UserFields != nil {
		listing.UserFields = datatypes.JSONMap(input.UserFields)
	}

	updated, err := ls.repo.Update(ctx, nil, listing)
	if err != nil {
		return nil, err
	}
	ls.log.Info("Listing updated", "listing_id", updated.ID)
	return updated, nil
}

func (ls *listingService) Delete(ctx context.Context, listingID uuid.UUID) error {
	if _, err := ls.GetByID(ctx, listingID); err != nil {
		return err
	}
	if err := ls.repo.SoftDelete(ctx, nil, listingID); err != nil {
		return err
	}
	ls.log.Info("Listing archived", "listing_id", listingID)
	return nil
}

func validateType(t types.ListingType) error {
	switch t {
	case types.ListingTypeSale, types.ListingTypeRent:
		return nil
	default:
		return fmt.Errorf("%w: type must be SALE or RENT", ErrValidation)
	}
}

func validateTitle(title string) error {
	if len([]rune(title)) > maxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLength)
	}
	return nil
}

func validatePrice(price *float64) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return nil
}
