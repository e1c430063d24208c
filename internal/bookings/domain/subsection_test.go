package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSubSectionJSONDispatchesOnType(t *testing.T) {
	expiry := testNow.AddDate(1, 0, 0)
	entries := []SubSection{
		NewSubSection("s-1", VisitData{Status: VisitScheduled, VisitType: "in_person", DateTime: testNow, Location: "Tower B"}, testNow),
		NewSubSection("s-2", OfferData{Status: "submitted", UnitPrice: 980000, Conditions: []string{"mortgage approval"}}, testNow),
		NewSubSection("s-3", ReservationData{Status: "paid", PaymentType: "card", Amount: 50000, TransactionID: "tx-9"}, testNow),
		NewSubSection("s-4", InteractionData{Type: "inquiry", Summary: "Asked about unit U1", Timestamp: testNow}, testNow),
		NewSubSection("s-5", DocumentData{Status: "uploaded", DocumentType: "passport", FileURL: "bookings/b-1/passport.pdf", Expiry: &expiry}, testNow),
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"type":"reservation"`) {
		t.Fatalf("discriminator missing from %s", raw)
	}

	var decoded []SubSection
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(decoded))
	}
	for i, s := range decoded {
		if s.Type != entries[i].Type || s.Data.SubSectionType() != s.Type {
			t.Fatalf("entry %d decoded as %T with type %s", i, s.Data, s.Type)
		}
	}
	if offer := decoded[1].Data.(OfferData); offer.Conditions[0] != "mortgage approval" {
		t.Fatalf("offer payload lost: %+v", offer)
	}
}

func TestSubSectionUnknownType(t *testing.T) {
	var s SubSection
	err := json.Unmarshal([]byte(`{"id":"x","type":"appraisal","data":{}}`), &s)
	if !errors.Is(err, ErrUnknownSubSection) {
		t.Fatalf("expected ErrUnknownSubSection, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := bookingAt(StatusOfferReservation, testNow)
	b.AppendSubSection(NewSubSection("s-1", OfferData{Status: "draft", UnitPrice: 1, Conditions: []string{"a"}}, testNow), testNow)
	b.AddNote("n-1", "Sara", "first", testNow)

	c := b.Clone()
	c.SubSections[0].Data.(OfferData).Conditions[0] = "mutated"
	c.BrokerNotes[0].Content = "mutated"
	c.SubSections = append(c.SubSections, NewSubSection("s-2", InteractionData{Type: "call", Summary: "x", Timestamp: testNow}, testNow))

	if b.SubSections[0].Data.(OfferData).Conditions[0] != "a" {
		t.Fatalf("offer conditions shared between clones")
	}
	if b.BrokerNotes[0].Content != "first" || len(b.SubSections) != 1 {
		t.Fatalf("clone leaked into original: %+v", b)
	}
}

func TestSummaryCoversEveryVariant(t *testing.T) {
	variants := []SubSectionData{
		VisitData{Status: VisitCompleted, DateTime: time.Unix(0, 0).UTC()},
		OfferData{Status: "accepted", UnitPrice: 10},
		ReservationData{Status: "pending", PaymentType: "cash", Amount: 5},
		InteractionData{Type: "call", Summary: "left voicemail"},
		DocumentData{Status: "verified", DocumentType: "national_id"},
	}
	for _, v := range variants {
		if Summary(v) == "" {
			t.Errorf("empty summary for %T", v)
		}
	}
}
