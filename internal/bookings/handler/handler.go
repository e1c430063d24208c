package handler

import (
	"net/http"
	"strings"
	"time"

	"brokerage_portal_backend/internal/bookings/documents"
	"brokerage_portal_backend/internal/bookings/domain"
	"brokerage_portal_backend/internal/bookings/management"
	"brokerage_portal_backend/internal/bookings/transport"
	"brokerage_portal_backend/platform/apperr"
	"brokerage_portal_backend/platform/httpkit"
	"brokerage_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid booking id"
	msgMissingFile      = "file is required"
	msgInvalidExpiry    = "expiry must be an RFC 3339 timestamp"

	qrCodeSize = 256
)

// Config holds presentation settings for booking responses.
type Config struct {
	ColdAfter  time.Duration
	AppBaseURL string
	Now        func() time.Time
}

// Handler handles HTTP requests for bookings.
type Handler struct {
	svc  *management.Service
	docs *documents.Service
	val  *validator.Validator
	cfg  Config
}

// New creates a new bookings handler.
func New(svc *management.Service, docs *documents.Service, val *validator.Validator, cfg Config) *Handler {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ColdAfter <= 0 {
		cfg.ColdAfter = domain.ColdThreshold
	}
	return &Handler{svc: svc, docs: docs, val: val, cfg: cfg}
}

func (h *Handler) respond(c *gin.Context, status int, b domain.Booking) {
	httpkit.JSON(c, status, management.ToBookingResponse(b, h.cfg.Now(), h.cfg.ColdAfter))
}

func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func bookingID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return "", false
	}
	return id, true
}

// Create opens a booking.
// POST /api/v1/bookings
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.svc.CreateBooking(c.Request.Context(), management.ToCreateInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusCreated, b)
}

// List returns bookings, highest priority first.
// GET /api/v1/bookings
func (h *Handler) List(c *gin.Context) {
	var q transport.ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	list, err := h.svc.ListBookings(c.Request.Context(), management.ListBookingsInput{
		Status:         domain.MasterStatus(q.Status),
		AssignedBroker: q.Broker,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, management.ToBookingListResponse(list, h.cfg.Now(), h.cfg.ColdAfter))
}

// Get returns one booking. Buyers only see their own.
// GET /api/v1/bookings/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.svc.GetBookingForActor(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusOK, b)
}

// QRCode renders a PNG linking to the booking page.
// GET /api/v1/bookings/:id/qr
func (h *Handler) QRCode(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.svc.GetBookingForActor(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	link := strings.TrimRight(h.cfg.AppBaseURL, "/") + "/bookings/" + b.ID
	png, err := qrcode.Encode(link, qrcode.Medium, qrCodeSize)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindInternal, "qr code generation failed", err))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Update patches client and assignment fields.
// PATCH /api/v1/bookings/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req transport.UpdateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.svc.UpdateBooking(c.Request.Context(), id, management.ToUpdateInput(req))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusOK, b)
}

// Transition moves the booking along the pipeline.
// POST /api/v1/bookings/:id/transition
func (h *Handler) Transition(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req transport.TransitionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.svc.TransitionBookingStatus(c.Request.Context(), id, domain.MasterStatus(strings.TrimSpace(req.Status)))
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusOK, b)
}

// MarkLost closes the booking as lost.
// POST /api/v1/bookings/:id/lost
func (h *Handler) MarkLost(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.svc.MarkBookingAsLost(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusOK, b)
}

// AddNote appends a broker note.
// POST /api/v1/bookings/:id/notes
func (h *Handler) AddNote(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req transport.AddNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.svc.AddBrokerNote(c.Request.Context(), id, req.Content)
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusCreated, b)
}

// AppendSubSection adds a typed entry to the booking timeline.
// POST /api/v1/bookings/:id/sub-sections
func (h *Handler) AppendSubSection(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req transport.AppendSubSectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	data, err := domain.DecodeSubSectionData(domain.SubSectionType(req.Type), req.Data)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	b, err := h.svc.AppendSubSection(c.Request.Context(), id, data)
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusCreated, b)
}

// AssignBroker hands the booking to a broker.
// PUT /api/v1/bookings/:id/assign
func (h *Handler) AssignBroker(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req transport.AssignBrokerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	b, err := h.svc.AssignBroker(c.Request.Context(), id, req.Broker)
	if httpkit.HandleError(c, err) {
		return
	}
	h.respond(c, http.StatusOK, b)
}

// UploadDocument stores a multipart file and records it on the booking.
// POST /api/v1/bookings/:id/documents
func (h *Handler) UploadDocument(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	if _, err := h.svc.GetBookingForActor(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgMissingFile, nil)
		return
	}

	var expiry *time.Time
	if raw := strings.TrimSpace(c.PostForm("expiry")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidExpiry, nil)
			return
		}
		expiry = &parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer func() { _ = file.Close() }()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	res, err := h.docs.Upload(c.Request.Context(), id, documents.UploadInput{
		FileName:     fileHeader.Filename,
		ContentType:  contentType,
		Size:         fileHeader.Size,
		Body:         file,
		DocumentType: strings.TrimSpace(c.PostForm("documentType")),
		Expiry:       expiry,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	booking := management.ToBookingResponse(res.Booking, h.cfg.Now(), h.cfg.ColdAfter)
	httpkit.JSON(c, http.StatusCreated, transport.DocumentUploadResponse{
		FileKey:     res.FileKey,
		DownloadURL: res.DownloadURL,
		Booking:     &booking,
	})
}
