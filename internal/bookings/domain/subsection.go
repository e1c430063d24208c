package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// SubSectionType discriminates the payload of a SubSection.
type SubSectionType string

const (
	SubSectionVisit       SubSectionType = "visit"
	SubSectionOffer       SubSectionType = "offer"
	SubSectionReservation SubSectionType = "reservation"
	SubSectionInteraction SubSectionType = "interaction"
	SubSectionDocument    SubSectionType = "document"
)

// ErrUnknownSubSection is returned when decoding a payload with an unknown type.
var ErrUnknownSubSection = errors.New("unknown sub-section type")

// SubSectionData is implemented by VisitData, OfferData, ReservationData,
// InteractionData and DocumentData only.
type SubSectionData interface {
	SubSectionType() SubSectionType
	isSubSectionData()
}

type VisitStatus string

const (
	VisitScheduled VisitStatus = "scheduled"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
	VisitNoShow    VisitStatus = "no_show"
)

type VisitData struct {
	Status    VisitStatus `json:"status" validate:"required,oneof=scheduled completed cancelled no_show"`
	VisitType string      `json:"visitType" validate:"required,oneof=in_person virtual"`
	DateTime  time.Time   `json:"dateTime" validate:"required"`
	Location  string      `json:"location,omitempty" validate:"max=300"`
	Agent     string      `json:"agent,omitempty" validate:"max=200"`
	Notes     string      `json:"notes,omitempty" validate:"max=2000"`
}

type OfferData struct {
	Status      string   `json:"status" validate:"required,oneof=draft submitted accepted rejected countered"`
	UnitPrice   float64  `json:"unitPrice" validate:"gt=0"`
	PaymentPlan string   `json:"paymentPlan,omitempty" validate:"max=200"`
	Conditions  []string `json:"conditions,omitempty" validate:"max=20,dive,max=500"`
}

type ReservationData struct {
	Status        string  `json:"status" validate:"required,oneof=pending paid refunded expired"`
	PaymentType   string  `json:"paymentType" validate:"required,oneof=card bank_transfer cheque cash"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	TransactionID string  `json:"transactionId,omitempty" validate:"max=100"`
}

type InteractionData struct {
	Type      string    `json:"type" validate:"required,oneof=inquiry call email whatsapp meeting"`
	Summary   string    `json:"summary" validate:"required,max=2000"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

type DocumentData struct {
	Status       string     `json:"status" validate:"required,oneof=requested uploaded verified rejected"`
	DocumentType string     `json:"documentType" validate:"required,oneof=passport national_id proof_of_funds reservation_form sales_agreement other"`
	FileURL      string     `json:"fileUrl,omitempty" validate:"max=1000"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}

func (VisitData) SubSectionType() SubSectionType       { return SubSectionVisit }
func (OfferData) SubSectionType() SubSectionType       { return SubSectionOffer }
func (ReservationData) SubSectionType() SubSectionType { return SubSectionReservation }
func (InteractionData) SubSectionType() SubSectionType { return SubSectionInteraction }
func (DocumentData) SubSectionType() SubSectionType    { return SubSectionDocument }

func (VisitData) isSubSectionData()       {}
func (OfferData) isSubSectionData()       {}
func (ReservationData) isSubSectionData() {}
func (InteractionData) isSubSectionData() {}
func (DocumentData) isSubSectionData()    {}

// SubSection is one entry of a booking's event log.
type SubSection struct {
	ID        string
	Type      SubSectionType
	CreatedAt time.Time
	Data      SubSectionData
}

// NewSubSection builds an entry whose Type follows the payload.
func NewSubSection(id string, data SubSectionData, now time.Time) SubSection {
	return SubSection{ID: id, Type: data.SubSectionType(), CreatedAt: now, Data: data}
}

type subSectionWire struct {
	ID        string          `json:"id"`
	Type      SubSectionType  `json:"type"`
	CreatedAt time.Time       `json:"createdAt"`
	Data      json.RawMessage `json:"data"`
}

func (s SubSection) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(subSectionWire{ID: s.ID, Type: s.Type, CreatedAt: s.CreatedAt, Data: data})
}

func (s *SubSection) UnmarshalJSON(raw []byte) error {
	var wire subSectionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	data, err := DecodeSubSectionData(wire.Type, wire.Data)
	if err != nil {
		return err
	}
	*s = SubSection{ID: wire.ID, Type: wire.Type, CreatedAt: wire.CreatedAt, Data: data}
	return nil
}

// DecodeSubSectionData decodes raw into the payload variant named by typ.
func DecodeSubSectionData(typ SubSectionType, raw json.RawMessage) (SubSectionData, error) {
	switch typ {
	case SubSectionVisit:
		return decodeInto[VisitData](raw)
	case SubSectionOffer:
		return decodeInto[OfferData](raw)
	case SubSectionReservation:
		return decodeInto[ReservationData](raw)
	case SubSectionInteraction:
		return decodeInto[InteractionData](raw)
	case SubSectionDocument:
		return decodeInto[DocumentData](raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSubSection, string(typ))
	}
}

func decodeInto[T SubSectionData](raw json.RawMessage) (SubSectionData, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Summary renders a one-line description used in timelines and notifications.
func Summary(data SubSectionData) string {
	switch d := data.(type) {
	case VisitData:
		return fmt.Sprintf("Visit %s for %s", d.Status, d.DateTime.Format("2006-01-02 15:04"))
	case OfferData:
		return fmt.Sprintf("Offer %s at %.2f", d.Status, d.UnitPrice)
	case ReservationData:
		return fmt.Sprintf("Reservation %s (%s, %.2f)", d.Status, d.PaymentType, d.Amount)
	case InteractionData:
		return fmt.Sprintf("Interaction %s: %s", d.Type, d.Summary)
	case DocumentData:
		return fmt.Sprintf("Document %s %s", d.DocumentType, d.Status)
	default:
		return ""
	}
}

func cloneSubSectionData(data SubSectionData) SubSectionData {
	switch d := data.(type) {
	case VisitData, ReservationData, InteractionData:
		return d
	case OfferData:
		d.Conditions = slices.Clone(d.Conditions)
		return d
	case DocumentData:
		d.Expiry = clonePtr(d.Expiry)
		return d
	default:
		return data
	}
}
