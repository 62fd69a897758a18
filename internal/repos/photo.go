package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/types"
)

type PhotoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, photos []*types.Photo) ([]*types.Photo, error)
	GetByID(ctx context.Context, tx *gorm.DB, photoID uuid.UUID) (*types.Photo, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, photoIDs []uuid.UUID) ([]*types.Photo, error)
	ListByListing(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) ([]*types.Photo, error)
	CountByListing(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, photo *types.Photo) (*types.Photo, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, photoID uuid.UUID, status types.PhotoStatus) error
	SetSortOrder(ctx context.Context, tx *gorm.DB, photoID uuid.UUID, sortOrder int) error
	ClearCover(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) error
	SetCover(ctx context.Context, tx *gorm.DB, photoID uuid.UUID, isCover bool) error
	FirstBySortOrder(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Photo, error)
	Delete(ctx context.Context, tx *gorm.DB, photoID uuid.UUID) error
	DeleteByListing(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) error
}

type photoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhotoRepo(db *gorm.DB, baseLog *logger.Logger) PhotoRepo {
	return &photoRepo{db: db, log: baseLog.With("repo", "PhotoRepo")}
}

func (pr *photoRepo) Create(ctx context.Context, tx *gorm.DB, photos []*types.Photo) ([]*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(photos) == 0 {
		return []*types.Photo{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

func (pr *photoRepo) GetByID(ctx context.Context, tx *gorm.DB, photoID uuid.UUID) (*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var photo types.Photo
	if err := transaction.WithContext(ctx).
		Where("id = ?", photoID).
		First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

func (pr *photoRepo) GetByIDs(ctx context.Context, tx *gorm.DB, photoIDs []uuid.UUID) ([]*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Photo
	if len(photoIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", photoIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *photoRepo) ListByListing(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) ([]*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Photo
	if err := transaction.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("sort_order asc, created_at asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *photoRepo) CountByListing(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *photoRepo) Update(ctx context.Context, tx *gorm.DB, photo *types.Photo) (*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Save(photo).Error; err != nil {
		return nil, err
	}
	return photo, nil
}

func (pr *photoRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, photoID uuid.UUID, status types.PhotoStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("id = ?", photoID).
		Update("status", status).Error
}

func (pr *photoRepo) SetSortOrder(ctx context.Context, tx *gorm.DB, photoID uuid.UUID, sortOrder int) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("id = ?", photoID).
		Update("sort_order", sortOrder).Error
}

func (pr *photoRepo) ClearCover(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("listing_id = ? AND is_cover = ?", listingID, true).
		Update("is_cover", false).Error
}

func (pr *photoRepo) SetCover(ctx context.Context, tx *gorm.DB, photoID uuid.UUID, isCover bool) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Photo{}).
		Where("id = ?", photoID).
		Update("is_cover", isCover).Error
}

func (pr *photoRepo) FirstBySortOrder(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) (*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var photo types.Photo
	if err := transaction.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("sort_order asc").
		First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

func (pr *photoRepo) Delete(ctx context.Context, tx *gorm.DB, photoID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", photoID).
		Delete(&types.Photo{}).Error
}

func (pr *photoRepo) DeleteByListing(ctx context.Context, tx *gorm.DB, listingID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Delete(&types.Photo{}).Error
}
