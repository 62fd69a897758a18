package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/types"
)

// UploadSlotInput is one requested upload, described by the client before
// any bytes move.
type UploadSlotInput struct {
	FileName  string `json:"fileName"`
	Mime      string `json:"mime"`
	SizeBytes int64  `json:"sizeBytes"`
}

// UploadSlot pairs the created photo row with the signed PUT URL the client
// uploads the original to.
type UploadSlot struct {
	Photo     *types.Photo `json:"photo"`
	UploadURL string       `json:"uploadUrl"`
}

// PhotoView is a photo with resolved CDN URLs for every ready variant.
type PhotoView struct {
	*types.Photo
	URLs map[string]string `json:"urls,omitempty"`
}

type PhotoService interface {
	CreateUploadSlots(ctx context.Context, listingID, userID uuid.UUID, inputs []UploadSlotInput) ([]UploadSlot, error)
	CompleteUploads(ctx context.Context, listingID uuid.UUID, photoIDs []uuid.UUID) ([]*types.Photo, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]PhotoView, error)
	SetOrder(ctx context.Context, listingID uuid.UUID, orderedIDs []uuid.UUID) error
	SetCover(ctx context.Context, listingID, photoID uuid.UUID) error
	Delete(ctx context.Context, listingID, photoID uuid.UUID) error
	DeleteAll(ctx context.Context, listingID uuid.UUID) (int, error)
	Wait()
}

type photoService struct {
	log      *logger.Logger
	photos   repos.PhotoRepo
	listings repos.ListingRepo
	bucket   BucketService
	images   ImageService
	cfg      config.MediaConfig
	workers  *errgroup.Group
}

func NewPhotoService(photos repos.PhotoRepo, listings repos.ListingRepo, bucket BucketService, images ImageService, cfg config.MediaConfig, baseLog *logger.Logger) PhotoService {
	workers := &errgroup.Group{}
	workers.SetLimit(4)
	return &photoService{
		log:      baseLog.With("service", "PhotoService"),
		photos:   photos,
		listings: listings,
		bucket:   bucket,
		images:   images,
		cfg:      cfg,
		workers:  workers,
	}
}

func (ps *photoService) CreateUploadSlots(ctx context.Context, listingID, userID uuid.UUID, inputs []UploadSlotInput) ([]UploadSlot, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no files requested", ErrValidation)
	}
	if err := ps.requireListing(ctx, listingID); err != nil {
		return nil, err
	}

	count, err := ps.photos.CountByListing(ctx, nil, listingID)
	if err != nil {
		return nil, err
	}
	if int(count)+len(inputs) > ps.cfg.MaxFilesPerListing {
		return nil, fmt.Errorf("%w: listing already has %d of %d photos", ErrLimitExceeded, count, ps.cfg.MaxFilesPerListing)
	}
	for _, in := range inputs {
		if err := ps.images.ValidateUploadRequest(in.Mime, in.SizeBytes); err != nil {
			return nil, err
		}
	}

	photos := make([]*types.Photo, 0, len(inputs))
	for i, in := range inputs {
		photoID := uuid.New()
		photos = append(photos, &types.Photo{
			ID:           photoID,
			ListingID:    listingID,
			KeyOriginal:  originalKey(listingID, photoID, in.FileName),
			Status:       types.PhotoStatusUploading,
			SortOrder:    int(count) + i,
			Mime:         in.Mime,
			SizeBytes:    in.SizeBytes,
			OriginalName: in.FileName,
			UploadedBy:   userID,
		})
	}
	created, err := ps.photos.Create(ctx, nil, photos)
	if err != nil {
		return nil, err
	}

	slots := make([]UploadSlot, 0, len(created))
	for _, photo := range created {
		url, err := ps.bucket.SignedUploadURL(ctx, photo.KeyOriginal, photo.Mime)
		if err != nil {
			return nil, err
		}
		slots = append(slots, UploadSlot{Photo: photo, UploadURL: url})
	}
	ps.log.Info("Upload slots created", "listing_id", listingID, "count", len(slots))
	return slots, nil
}

// CompleteUploads marks the photos as PROCESSING and resizes them in the
// background. The response returns immediately; clients poll photo status.
func (ps *photoService) CompleteUploads(ctx context.Context, listingID uuid.UUID, photoIDs []uuid.UUID) ([]*types.Photo, error) {
	if len(photoIDs) == 0 {
		return nil, fmt.Errorf("%w: no photo ids", ErrValidation)
	}
	photos, err := ps.photos.GetByIDs(ctx, nil, photoIDs)
	if err != nil {
		return nil, err
	}
	if len(photos) != len(photoIDs) {
		return nil, fmt.Errorf("%w: unknown photo id", ErrNotFound)
	}
	for _, photo := range photos {
		if photo.ListingID != listingID {
			return nil, fmt.Errorf("%w: photo does not belong to listing", ErrNotFound)
		}
		if photo.Status != types.PhotoStatusUploading && photo.Status != types.PhotoStatusFailed {
			return nil, fmt.Errorf("%w: photo %s is %s", ErrValidation, photo.ID, photo.Status)
		}
	}

	for _, photo := range photos {
		if err := ps.photos.UpdateStatus(ctx, nil, photo.ID, types.PhotoStatusProcessing); err != nil {
			return nil, err
		}
		photo.Status = types.PhotoStatusProcessing

		p := photo
		ps.workers.Go(func() error {
			ps.process(context.Background(), p)
			return nil
		})
	}
	ps.log.Info("Photo processing scheduled", "listing_id", listingID, "count", len(photos))
	return photos, nil
}

// process runs in a worker slot. Failures are terminal for the photo, never
// for the batch; each photo lands in READY or FAILED independently.
func (ps *photoService) process(ctx context.Context, photo *types.Photo) {
	start := time.Now()
	if err := ps.buildVariants(ctx, photo); err != nil {
		ps.log.Error("Photo processing failed", "photo_id", photo.ID, "error", err)
		if uerr := ps.photos.UpdateStatus(ctx, nil, photo.ID, types.PhotoStatusFailed); uerr != nil {
			ps.log.Error("Failed to mark photo FAILED", "photo_id", photo.ID, "error", uerr)
		}
		return
	}
	ps.log.Info("Photo processed", "photo_id", photo.ID, "elapsed", time.Since(start))
	ps.ensureCover(ctx, photo.ListingID)
}

func (ps *photoService) buildVariants(ctx context.Context, photo *types.Photo) error {
	data, err := ps.bucket.DownloadFile(ctx, photo.KeyOriginal)
	if err != nil {
		return fmt.Errorf("fetch original: %w", err)
	}
	img, format, err := ps.images.Decode(data)
	if err != nil {
		return err
	}
	if err := ps.images.ValidateDimensions(img); err != nil {
		return err
	}

	sizes := map[string]string{}
	for _, width := range ps.cfg.VariantWidths {
		encoded, err := ps.images.EncodeJPEG(ps.images.Resize(img, width))
		if err != nil {
			return err
		}
		key := variantKey(photo.ListingID, photo.ID, width)
		if err := ps.bucket.UploadFile(ctx, key, encoded, "image/jpeg"); err != nil {
			return fmt.Errorf("store variant w%d: %w", width, err)
		}
		sizes[fmt.Sprintf("w%d", width)] = key
	}

	variants, err := json.Marshal(map[string]map[string]string{"jpg": sizes})
	if err != nil {
		return err
	}

	bounds := img.Bounds()
	photo.Variants = datatypes.JSON(variants)
	photo.Status = types.PhotoStatusReady
	photo.Mime = "image/" + format
	photo.Width = bounds.Dx()
	photo.Height = bounds.Dy()
	photo.SizeBytes = int64(len(data))
	_, err = ps.photos.Update(ctx, nil, photo)
	return err
}

// ensureCover promotes the first photo by sort order when the listing has
// no cover yet.
func (ps *photoService) ensureCover(ctx context.Context, listingID uuid.UUID) {
	photos, err := ps.photos.ListByListing(ctx, nil, listingID)
	if err != nil {
		ps.log.Error("Failed to check cover", "listing_id", listingID, "error", err)
		return
	}
	for _, p := range photos {
		if p.IsCover {
			return
		}
	}
	for _, p := range photos {
		if p.Status == types.PhotoStatusReady {
			if err := ps.photos.SetCover(ctx, nil, p.ID, true); err != nil {
				ps.log.Error("Failed to set cover", "photo_id", p.ID, "error", err)
			}
			return
		}
	}
}

func (ps *photoService) ListByListing(ctx context.Context, listingID uuid.UUID) ([]PhotoView, error) {
	if err := ps.requireListing(ctx, listingID); err != nil {
		return nil, err
	}
	photos, err := ps.photos.ListByListing(ctx, nil, listingID)
	if err != nil {
		return nil, err
	}
	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		views = append(views, PhotoView{Photo: photo, URLs: ps.variantURLs(photo)})
	}
	return views, nil
}

func (ps *photoService) SetOrder(ctx context.Context, listingID uuid.UUID, orderedIDs []uuid.UUID) error {
	photos, err := ps.photos.ListByListing(ctx, nil, listingID)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(photos) {
		return fmt.Errorf("%w: order must list all %d photos", ErrValidation, len(photos))
	}
	known := map[uuid.UUID]bool{}
	for _, p := range photos {
		known[p.ID] = true
	}
	for _, id := range orderedIDs {
		if !known[id] {
			return fmt.Errorf("%w: photo %s does not belong to listing", ErrNotFound, id)
		}
		delete(known, id)
	}
	for i, id := range orderedIDs {
		if err := ps.photos.SetSortOrder(ctx, nil, id, i); err != nil {
			return err
		}
	}
	ps.log.Info("Photo order updated", "listing_id", listingID, "count", len(orderedIDs))
	return nil
}

func (ps *photoService) SetCover(ctx context.Context, listingID, photoID uuid.UUID) error {
	photo, err := ps.requirePhoto(ctx, listingID, photoID)
	if err != nil {
		return err
	}
	if photo.Status != types.PhotoStatusReady {
		return fmt.Errorf("%w: only READY photos can be cover", ErrValidation)
	}
	if err := ps.photos.ClearCover(ctx, nil, listingID); err != nil {
		return err
	}
	return ps.photos.SetCover(ctx, nil, photoID, true)
}

func (ps *photoService) Delete(ctx context.Context, listingID, photoID uuid.UUID) error {
	photo, err := ps.requirePhoto(ctx, listingID, photoID)
	if err != nil {
		return err
	}

	keys := []string{photo.KeyOriginal}
	for _, sizeKeys := range parseVariants(photo.Variants) {
		for _, key := range sizeKeys {
			keys = append(keys, key)
		}
	}
	if err := ps.bucket.DeleteFiles(ctx, keys); err != nil {
		ps.log.Warn("Some storage objects not deleted", "photo_id", photoID, "error", err)
	}
	if err := ps.photos.Delete(ctx, nil, photoID); err != nil {
		return err
	}
	if photo.IsCover {
		ps.ensureCover(ctx, listingID)
	}
	ps.log.Info("Photo deleted", "photo_id", photoID, "listing_id", listingID)
	return nil
}

// DeleteAll removes every photo of a listing, storage objects included,
// and reports how many rows went away.
func (ps *photoService) DeleteAll(ctx context.Context, listingID uuid.UUID) (int, error) {
	if err := ps.requireListing(ctx, listingID); err != nil {
		return 0, err
	}
	photos, err := ps.photos.ListByListing(ctx, nil, listingID)
	if err != nil {
		return 0, err
	}
	if len(photos) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(photos))
	for _, photo := range photos {
		keys = append(keys, photo.KeyOriginal)
		for _, sizeKeys := range parseVariants(photo.Variants) {
			for _, key := range sizeKeys {
				keys = append(keys, key)
			}
		}
	}
	if err := ps.photos.DeleteByListing(ctx, nil, listingID); err != nil {
		return 0, err
	}
	if err := ps.bucket.DeleteFiles(ctx, keys); err != nil {
		ps.log.Warn("Some storage objects not deleted", "listing_id", listingID, "error", err)
	}
	ps.log.Info("All photos deleted", "listing_id", listingID, "count", len(photos))
	return len(photos), nil
}

// Wait blocks until in-flight processing drains; used on shutdown.
func (ps *photoService) Wait() {
	_ = ps.workers.Wait()
}

func (ps *photoService) requireListing(ctx context.Context, listingID uuid.UUID) error {
	listing, err := ps.listings.GetByID(ctx, nil, listingID)
	if err != nil {
		return err
	}
	if listing == nil {
		return fmt.Errorf("%w: listing %s", ErrNotFound, listingID)
	}
	return nil
}

func (ps *photoService) requirePhoto(ctx context.Context, listingID, photoID uuid.UUID) (*types.Photo, error) {
	photo, err := ps.photos.GetByID(ctx, nil, photoID)
	if err != nil {
		return nil, err
	}
	if photo == nil || photo.ListingID != listingID {
		return nil, fmt.Errorf("%w: photo %s", ErrNotFound, photoID)
	}
	return photo, nil
}

func (ps *photoService) variantURLs(photo *types.Photo) map[string]string {
	variants := parseVariants(photo.Variants)
	if len(variants) == 0 {
		return nil
	}
	urls := map[string]string{}
	for _, sizeKeys := range variants {
		for size, key := range sizeKeys {
			urls[size] = ps.bucket.GetPublicURL(key)
		}
	}
	return urls
}

func parseVariants(raw datatypes.JSON) map[string]map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var variants map[string]map[string]string
	if err := json.Unmarshal(raw, &variants); err != nil {
		return nil
	}
	return variants
}

func originalKey(listingID, photoID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("original/%s/%s%s", listingID, photoID, ext)
}

func variantKey(listingID, photoID uuid.UUID, width int) string {
	return fmt.Sprintf("processed/%s/%s/w%d.jpg", listingID, photoID, width)
}
