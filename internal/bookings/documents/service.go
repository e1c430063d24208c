// Package documents handles files attached to a booking: the object is stored
// in the booking documents bucket and a document sub-section records it.
package documents

import (
	"context"
	"io"
	"time"

	"brokerage_portal_backend/internal/adapters/storage"
	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/platform/apperr"
	"brokerage_portal_backend/platform/logger"
	"brokerage_portal_backend/platform/validator"
)

// Store is the part of the booking store the uploader needs.
type Store interface {
	GetBookingByID(ctx context.Context, id string) (domain.Booking, error)
	AppendSubSection(ctx context.Context, id string, data domain.SubSectionData) (domain.Booking, error)
}

// UploadInput is one file to attach.
type UploadInput struct {
	FileName     string
	ContentType  string
	Size         int64
	Body         io.Reader
	DocumentType string
	Expiry       *time.Time
}

// UploadResult is the updated booking and where the file went.
type UploadResult struct {
	Booking     domain.Booking
	FileKey     string
	DownloadURL string
}

// Service uploads booking documents. A nil storage disables uploads.
type Service struct {
	store   Store
	storage storage.StorageService
	bucket  string
	val     *validator.Validator
	log     *logger.Logger
}

func New(store Store, storageSvc storage.StorageService, bucket string, val *validator.Validator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if val == nil {
		val = validator.New()
	}
	return &Service{store: store, storage: storageSvc, bucket: bucket, val: val, log: log}
}

// Enabled reports whether object storage is configured.
func (s *Service) Enabled() bool {
	return s.storage != nil
}

// Upload stores the file and appends an uploaded document entry. The object
// is removed again if the booking could not be updated.
func (s *Service) Upload(ctx context.Context, bookingID string, in UploadInput) (UploadResult, error) {
	if s.storage == nil {
		return UploadResult{}, apperr.Unavailable("document storage is not configured")
	}
	if err := s.storage.ValidateContentType(in.ContentType); err != nil {
		return UploadResult{}, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	if err := s.storage.ValidateFileSize(in.Size); err != nil {
		return UploadResult{}, apperr.Wrap(apperr.KindValidation, err.Error(), err)
	}
	doc := domain.DocumentData{
		Status:       "uploaded",
		DocumentType: in.DocumentType,
		Expiry:       in.Expiry,
	}
	if err := s.val.Struct(doc); err != nil {
		return UploadResult{}, apperr.Validation("invalid document").WithDetails(validator.FieldErrors(err))
	}
	if _, err := s.store.GetBookingByID(ctx, bookingID); err != nil {
		return UploadResult{}, err
	}

	fileKey, err := s.storage.UploadFile(ctx, s.bucket, "bookings/"+bookingID, in.FileName, in.ContentType, in.Body, in.Size)
	if err != nil {
		return UploadResult{}, apperr.Wrap(apperr.KindUnavailable, "document upload failed", err)
	}

	doc.FileURL = fileKey
	booking, err := s.store.AppendSubSection(ctx, bookingID, doc)
	if err != nil {
		if delErr := s.storage.DeleteObject(context.WithoutCancel(ctx), s.bucket, fileKey); delErr != nil {
			s.log.WithContext(ctx).Error("orphaned booking document", "file_key", fileKey, "error", delErr)
		}
		return UploadResult{}, err
	}

	result := UploadResult{Booking: booking, FileKey: fileKey}
	if url, err := s.storage.GenerateDownloadURL(ctx, s.bucket, fileKey); err == nil {
		result.DownloadURL = url.URL
	} else {
		s.log.WithContext(ctx).Warn("presign booking document failed", "file_key", fileKey, "error", err)
	}
	return result, nil
}
