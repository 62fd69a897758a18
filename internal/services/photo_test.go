package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casalabia/realtor-backend/internal/logger"
	"github.com/casalabia/realtor-backend/internal/repos"
	"github.com/casalabia/realtor-backend/internal/types"
)

// fakeBucket keeps objects in memory and never signs anything for real.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (fb *fakeBucket) SignedUploadURL(ctx context.Context, key, contentType string) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func (fb *fakeBucket) UploadFile(ctx context.Context, key string, data []byte, contentType string) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.objects[key] = data
	return nil
}

func (fb *fakeBucket) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	data, ok := fb.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return data, nil
}

func (fb *fakeBucket) DeleteFile(ctx context.Context, key string) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	delete(fb.objects, key)
	return nil
}

func (fb *fakeBucket) DeleteFiles(ctx context.Context, keys []string) error {
	for _, key := range keys {
		_ = fb.DeleteFile(ctx, key)
	}
	return nil
}

func (fb *fakeBucket) GetPublicURL(key string) string {
	return "https://media.example.com/" + key
}

func (fb *fakeBucket) has(key string) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	_, ok := fb.objects[key]
	return ok
}

type photoFixture struct {
	svc     PhotoService
	bucket  *fakeBucket
	photos  repos.PhotoRepo
	db      *gorm.DB
	listing *types.Listing
}

func newPhotoFixture(t *testing.T) *photoFixture {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	listings := repos.NewListingRepo(db, log)
	photos := repos.NewPhotoRepo(db, log)
	bucket := newFakeBucket()
	images := NewImageService(testMediaConfig(), log)
	svc := NewPhotoService(photos, listings, bucket, images, testMediaConfig(), log)

	listing, err := listings.Create(context.Background(), nil, &types.Listing{
		ID:           uuid.New(),
		Type:         types.ListingTypeSale,
		PropertyType: "trilocale",
		Status:       types.ListingStatusDraft,
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return &photoFixture{svc: svc, bucket: bucket, photos: photos, db: db, listing: listing}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	return encodeTestImage(t, w, h, func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, nil)
	})
}

func (f *photoFixture) requestSlots(t *testing.T, n int) []UploadSlot {
	t.Helper()
	inputs := make([]UploadSlotInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, UploadSlotInput{
			FileName:  fmt.Sprintf("photo-%d.jpg", i),
			Mime:      "image/jpeg",
			SizeBytes: 1024,
		})
	}
	slots, err := f.svc.CreateUploadSlots(context.Background(), f.listing.ID, uuid.New(), inputs)
	if err != nil {
		t.Fatalf("CreateUploadSlots: %v", err)
	}
	return slots
}

func TestPhotoUploadSlots(t *testing.T) {
	f := newPhotoFixture(t)
	slots := f.requestSlots(t, 2)

	if len(slots) != 2 {
		t.Fatalf("slots = %d, want 2", len(slots))
	}
	for i, slot := range slots {
		if slot.Photo.Status != types.PhotoStatusUploading {
			t.Errorf("status = %q, want UPLOADING", slot.Photo.Status)
		}
		if slot.Photo.SortOrder != i {
			t.Errorf("sortOrder = %d, want %d", slot.Photo.SortOrder, i)
		}
		if !strings.HasPrefix(slot.Photo.KeyOriginal, "original/"+f.listing.ID.String()+"/") {
			t.Errorf("key = %q", slot.Photo.KeyOriginal)
		}
		if !strings.Contains(slot.UploadURL, slot.Photo.KeyOriginal) {
			t.Errorf("upload URL %q does not reference the key", slot.UploadURL)
		}
	}
}

func TestPhotoUploadSlotsLimit(t *testing.T) {
	db := newTestDB(t)
	log := logger.NewNop()
	listings := repos.NewListingRepo(db, log)
	cfg := testMediaConfig()
	cfg.MaxFilesPerListing = 1
	svc := NewPhotoService(repos.NewPhotoRepo(db, log), listings, newFakeBucket(), NewImageService(cfg, log), cfg, log)

	listing, err := listings.Create(context.Background(), nil, &types.Listing{
		ID: uuid.New(), Type: types.ListingTypeSale, PropertyType: "default", Status: types.ListingStatusDraft,
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	_, err = svc.CreateUploadSlots(context.Background(), listing.ID, uuid.New(), []UploadSlotInput{
		{FileName: "a.jpg", Mime: "image/jpeg", SizeBytes: 1},
		{FileName: "b.jpg", Mime: "image/jpeg", SizeBytes: 1},
	})
	if !errors.Is(err, ErrLimitExceeded) {
		t.Errorf("err = %v, want ErrLimitExceeded", err)
	}
}

func TestPhotoUploadSlotsUnknownListing(t *testing.T) {
	f := newPhotoFixture(t)
	_, err := f.svc.CreateUploadSlots(context.Background(), uuid.New(), uuid.New(), []UploadSlotInput{
		{FileName: "a.jpg", Mime: "image/jpeg", SizeBytes: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestPhotoProcessingPipeline(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()
	slots := f.requestSlots(t, 1)
	photo := slots[0].Photo

	data := jpegBytes(t, 2000, 1500)
	if err := f.bucket.UploadFile(ctx, photo.KeyOriginal, data, "image/jpeg"); err != nil {
		t.Fatalf("upload original: %v", err)
	}

	processing, err := f.svc.CompleteUploads(ctx, f.listing.ID, []uuid.UUID{photo.ID})
	if err != nil {
		t.Fatalf("CompleteUploads: %v", err)
	}
	if processing[0].Status != types.PhotoStatusProcessing {
		t.Errorf("status = %q, want PROCESSING", processing[0].Status)
	}
	f.svc.Wait()

	stored, err := f.photos.GetByID(ctx, nil, photo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != types.PhotoStatusReady {
		t.Fatalf("status = %q, want READY", stored.Status)
	}
	if stored.Width != 2000 || stored.Height != 1500 {
		t.Errorf("dimensions = %dx%d, want 2000x1500", stored.Width, stored.Height)
	}
	for _, width := range []int{1600, 1024, 512} {
		key := fmt.Sprintf("processed/%s/%s/w%d.jpg", f.listing.ID, photo.ID, width)
		if !f.bucket.has(key) {
			t.Errorf("variant %q not stored", key)
		}
	}
	if !stored.IsCover {
		t.Error("first ready photo not promoted to cover")
	}

	views, err := f.svc.ListByListing(ctx, f.listing.ID)
	if err != nil {
		t.Fatalf("ListByListing: %v", err)
	}
	if len(views) != 1 || views[0].URLs["w1024"] == "" {
		t.Errorf("views = %+v", views)
	}
	if !strings.HasPrefix(views[0].URLs["w512"], "https://media.example.com/processed/") {
		t.Errorf("variant URL = %q", views[0].URLs["w512"])
	}
}

func TestPhotoProcessingFailure(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()
	slots := f.requestSlots(t, 1)
	photo := slots[0].Photo

	// Nothing uploaded for the key: processing must end in FAILED.
	if _, err := f.svc.CompleteUploads(ctx, f.listing.ID, []uuid.UUID{photo.ID}); err != nil {
		t.Fatalf("CompleteUploads: %v", err)
	}
	f.svc.Wait()

	stored, err := f.photos.GetByID(ctx, nil, photo.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != types.PhotoStatusFailed {
		t.Errorf("status = %q, want FAILED", stored.Status)
	}
}

func TestPhotoCompleteUploadsValidation(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CompleteUploads(ctx, f.listing.ID, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("empty ids err = %v, want ErrValidation", err)
	}
	if _, err := f.svc.CompleteUploads(ctx, f.listing.ID, []uuid.UUID{uuid.New()}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestPhotoSetOrder(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()
	slots := f.requestSlots(t, 3)

	reversed := []uuid.UUID{slots[2].Photo.ID, slots[1].Photo.ID, slots[0].Photo.ID}
	if err := f.svc.SetOrder(ctx, f.listing.ID, reversed); err != nil {
		t.Fatalf("SetOrder: %v", err)
	}
	photos, err := f.photos.ListByListing(ctx, nil, f.listing.ID)
	if err != nil {
		t.Fatalf("ListByListing: %v", err)
	}
	if photos[0].ID != slots[2].Photo.ID {
		t.Errorf("first photo = %s, want %s", photos[0].ID, slots[2].Photo.ID)
	}

	if err := f.svc.SetOrder(ctx, f.listing.ID, reversed[:2]); !errors.Is(err, ErrValidation) {
		t.Errorf("partial order err = %v, want ErrValidation", err)
	}
	wrong := []uuid.UUID{reversed[0], reversed[1], uuid.New()}
	if err := f.svc.SetOrder(ctx, f.listing.ID, wrong); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign id err = %v, want ErrNotFound", err)
	}
}

func TestPhotoSetCoverRequiresReady(t *testing.T) {
	f := newPhotoFixture(t)
	slots := f.requestSlots(t, 1)
	if err := f.svc.SetCover(context.Background(), f.listing.ID, slots[0].Photo.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want ErrValidation for non-READY photo", err)
	}
}

func TestPhotoDelete(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()
	slots := f.requestSlots(t, 1)
	photo := slots[0].Photo

	if err := f.bucket.UploadFile(ctx, photo.KeyOriginal, jpegBytes(t, 800, 600), "image/jpeg"); err != nil {
		t.Fatalf("upload original: %v", err)
	}
	if _, err := f.svc.CompleteUploads(ctx, f.listing.ID, []uuid.UUID{photo.ID}); err != nil {
		t.Fatalf("CompleteUploads: %v", err)
	}
	f.svc.Wait()

	if err := f.svc.Delete(ctx, f.listing.ID, photo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.bucket.has(photo.KeyOriginal) {
		t.Error("original not removed from storage")
	}
	for _, width := range []int{1600, 1024, 512} {
		key := fmt.Sprintf("processed/%s/%s/w%d.jpg", f.listing.ID, photo.ID, width)
		if f.bucket.has(key) {
			t.Errorf("variant %q not removed", key)
		}
	}
	if stored, _ := f.photos.GetByID(ctx, nil, photo.ID); stored != nil {
		t.Error("photo row not deleted")
	}
}

func TestPhotoDeleteAll(t *testing.T) {
	f := newPhotoFixture(t)
	ctx := context.Background()
	slots := f.requestSlots(t, 2)

	for _, slot := range slots {
		if err := f.bucket.UploadFile(ctx, slot.Photo.KeyOriginal, jpegBytes(t, 800, 600), "image/jpeg"); err != nil {
			t.Fatalf("upload original: %v", err)
		}
	}
	if _, err := f.svc.CompleteUploads(ctx, f.listing.ID, []uuid.UUID{slots[0].Photo.ID, slots[1].Photo.ID}); err != nil {
		t.Fatalf("CompleteUploads: %v", err)
	}
	f.svc.Wait()

	deleted, err := f.svc.DeleteAll(ctx, f.listing.ID)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	for _, slot := range slots {
		if f.bucket.has(slot.Photo.KeyOriginal) {
			t.Errorf("original %q not removed from storage", slot.Photo.KeyOriginal)
		}
		for _, width := range []int{1600, 1024, 512} {
			key := fmt.Sprintf("processed/%s/%s/w%d.jpg", f.listing.ID, slot.Photo.ID, width)
			if f.bucket.has(key) {
				t.Errorf("variant %q not removed", key)
			}
		}
	}
	photos, err := f.photos.ListByListing(ctx, nil, f.listing.ID)
	if err != nil {
		t.Fatalf("ListByListing: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("photos left = %d, want 0", len(photos))
	}

	// A second pass finds nothing and is not an error.
	deleted, err = f.svc.DeleteAll(ctx, f.listing.ID)
	if err != nil || deleted != 0 {
		t.Errorf("second DeleteAll = (%d, %v), want (0, nil)", deleted, err)
	}

	if _, err := f.svc.DeleteAll(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown listing err = %v, want ErrNotFound", err)
	}
}
