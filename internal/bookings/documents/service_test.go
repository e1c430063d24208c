package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"brokerage_portal_backend/internal/adapters/storage"
	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/platform/apperr"
)

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) EnsureBucketExists(context.Context, string) error { return nil }

func (f *fakeStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, r io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	key := storage.BuildFileKey(folder, fileName, "k1")
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://files.example.com/" + bucket + "/" + key, FileKey: key}, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, _, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) ValidateContentType(ct string) error {
	if ct != "application/pdf" {
		return errors.New("content type not allowed")
	}
	return nil
}

func (f *fakeStorage) ValidateFileSize(n int64) error {
	if n <= 0 || n > 100 {
		return errors.New("bad size")
	}
	return nil
}

type fakeStore struct {
	booking   domain.Booking
	appendErr error
}

func (f *fakeStore) GetBookingByID(_ context.Context, id string) (domain.Booking, error) {
	if id != f.booking.ID {
		return domain.Booking{}, apperr.NotFound("booking not found")
	}
	return f.booking, nil
}

func (f *fakeStore) AppendSubSection(_ context.Context, _ string, data domain.SubSectionData) (domain.Booking, error) {
	if f.appendErr != nil {
		return domain.Booking{}, f.appendErr
	}
	f.booking.SubSections = append(f.booking.SubSections, domain.SubSection{ID: "s-1", Type: data.SubSectionType(), Data: data})
	return f.booking, nil
}

func pdf() UploadInput {
	return UploadInput{FileName: "passport.pdf", ContentType: "application/pdf", Size: 10, Body: strings.NewReader("0123456789"), DocumentType: "passport"}
}

func TestUploadAppendsDocument(t *testing.T) {
	store := &fakeStore{booking: domain.Booking{ID: "b-1"}}
	files := &fakeStorage{}
	svc := New(store, files, "booking-documents", nil, nil)

	res, err := svc.Upload(context.Background(), "b-1", pdf())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.FileKey != "bookings/b-1/passport_k1.pdf" || res.DownloadURL == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	doc, ok := res.Booking.SubSections[0].Data.(domain.DocumentData)
	if !ok || doc.FileURL != res.FileKey || doc.Status != "uploaded" {
		t.Fatalf("document entry not recorded: %+v", res.Booking.SubSections)
	}
}

func TestUploadRejections(t *testing.T) {
	ctx := context.Background()

	if _, err := New(&fakeStore{}, nil, "b", nil, nil).Upload(ctx, "b-1", pdf()); !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected Unavailable without storage, got %v", err)
	}

	svc := New(&fakeStore{booking: domain.Booking{ID: "b-1"}}, &fakeStorage{}, "b", nil, nil)
	bad := pdf()
	bad.ContentType = "video/mp4"
	if _, err := svc.Upload(ctx, "b-1", bad); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected Validation for content type, got %v", err)
	}
	if _, err := svc.Upload(ctx, "missing", pdf()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUploadRejectsDocumentTypeBeforeStoring(t *testing.T) {
	ctx := context.Background()
	for _, docType := range []string{"", "selfie"} {
		files := &fakeStorage{}
		svc := New(&fakeStore{booking: domain.Booking{ID: "b-1"}}, files, "b", nil, nil)
		in := pdf()
		in.DocumentType = docType

		_, err := svc.Upload(ctx, "b-1", in)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%q: expected Validation, got %v", docType, err)
		}
		if len(files.uploaded) != 0 || len(files.deleted) != 0 {
			t.Fatalf("%q: storage touched: uploaded=%v deleted=%v", docType, files.uploaded, files.deleted)
		}
	}
}

func TestUploadRemovesObjectWhenBookingUpdateFails(t *testing.T) {
	files := &fakeStorage{}
	store := &fakeStore{booking: domain.Booking{ID: "b-1"}, appendErr: apperr.Validation("invalid sub-section")}
	svc := New(store, files, "b", nil, nil)

	if _, err := svc.Upload(context.Background(), "b-1", pdf()); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected the append error, got %v", err)
	}
	if len(files.deleted) != 1 || files.deleted[0] != files.uploaded[0] {
		t.Fatalf("uploaded object not cleaned up: uploaded=%v deleted=%v", files.uploaded, files.deleted)
	}
}
