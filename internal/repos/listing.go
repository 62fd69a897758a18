package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/types"
)

type ListingSort string

const (
	ListingSortCreatedAtDesc ListingSort = "createdAt_desc"
	ListingSortCreatedAtAsc  ListingSort = "createdAt_asc"
	ListingSortPriceDesc     ListingSort = "price_desc"
	ListingSortPriceAsc      ListingSort = "price_asc"
)

type ListingFilter struct {
	Status       types.ListingStatus
	Type         types.ListingType
	PropertyType string
	Query        string
	Sort         ListingSort
	Page         int
	Limit        int
}

type ListingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, listing *types.Listing) (*types.Listing, error)
	GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error)
	List(ctx context.Context, tx *gorm.DB, filter ListingFilter) ([]*types.Listing, int64, error)
	Update(ctx context.Context, tx *gorm.DB, listing *types.Listing) (*types.Listing, error)
	SoftDelete(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) error
}

type listingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewListingRepo(db *gorm.DB, baseLog *logger.Logger) ListingRepo {
	return &listingRepo{db: db, log: baseLog.With("repo", "ListingRepo")}
}

func (lr *listingRepo) Create(ctx context.Context, tx *gorm.DB, listing *types.Listing) (*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if err := transaction.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (lr *listingRepo) GetByID(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var listing types.Listing
	if err := transaction.WithContext(ctx).
		Where("id = ?", listingID).
		First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (lr *listingRepo) List(ctx context.Context, tx *gorm.DB, filter ListingFilter) ([]*types.Listing, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	q := transaction.WithContext(ctx).Model(&types.Listing{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.PropertyType != "" {
		q = q.Where("property_type = ?", filter.PropertyType)
	}
	if filter.Query != "" {
		q = q.Where("title LIKE ?", "%"+filter.Query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var results []*types.Listing
	if err := q.Order(orderClause(filter.Sort)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (lr *listingRepo) Update(ctx context.Context, tx *gorm.DB, listing *types.Listing) (*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if err := transaction.WithContext(ctx).Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// SoftDelete archives the listing and sets deleted_at in one update; gorm's
// soft-delete scope then hides it from every other query.
func (lr *listingRepo) SoftDelete(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Listing{}).
		Where("id = ?", listingID).
		Update("status", types.ListingStatusArchived).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Model(&types.Listing{}).
		Where("id = ?", listingID).
		Update("deleted_at", time.Now()).Error
}

func orderClause(sort ListingSort) string {
	switch sort {
	case ListingSortCreatedAtAsc:
		return "created_at asc"
	case ListingSortPriceAsc:
		return "price asc"
	case ListingSortPriceDesc:
		return "price desc"
	default:
		return "created_at desc"
	}
}
