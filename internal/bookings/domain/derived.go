package domain

import "time"

// ColorClass is the semantic color bucket of a status.
type ColorClass string

const (
	ColorInfo    ColorClass = "info"
	ColorWarning ColorClass = "warning"
	ColorSuccess ColorClass = "success"
	ColorError   ColorClass = "error"
	ColorNeutral ColorClass = "neutral"
)

const (
	// ColdThreshold is the default inactivity period after which a booking is cold.
	ColdThreshold = 30 * 24 * time.Hour

	recentActivityWindow = 24 * time.Hour
	recentActivityBonus  = 10
	scheduledVisitBonus  = 5
	maxPriorityScore     = 100
)

type statusProfile struct {
	label     string
	color     ColorClass
	baseScore int
	action    *actionTemplate
	closure   string
}

type actionTemplate struct {
	kind   NextActionType
	label  string
	urgent bool
	dueIn  time.Duration
}

var statusProfiles = map[MasterStatus]statusProfile{
	StatusInterestExpressed: {
		label: "Interest Expressed", color: ColorInfo, baseScore: 40,
		action: &actionTemplate{kind: ActionCall, label: "Call the client", urgent: true, dueIn: 24 * time.Hour},
	},
	StatusAgentContact: {
		label: "Agent Contact", color: ColorInfo, baseScore: 55,
		action: &actionTemplate{kind: ActionVisit, label: "Schedule a site visit", dueIn: 3 * 24 * time.Hour},
	},
	StatusSiteVisit: {
		label: "Site Visit", color: ColorWarning, baseScore: 70,
		action: &actionTemplate{kind: ActionFollowUp, label: "Follow up after the visit", dueIn: 2 * 24 * time.Hour},
	},
	StatusOfferReservation: {
		label: "Offer / Reservation", color: ColorWarning, baseScore: 85,
		action: &actionTemplate{kind: ActionReserve, label: "Confirm the reservation payment", urgent: true, dueIn: 2 * 24 * time.Hour},
	},
	StatusAwaitingFinalisation: {
		label: "Awaiting Finalisation", color: ColorWarning, baseScore: 95,
		action: &actionTemplate{kind: ActionDocuments, label: "Collect outstanding documents", dueIn: 7 * 24 * time.Hour},
	},
	StatusHandover: {
		label: "Handover", color: ColorSuccess, baseScore: 100,
		action: &actionTemplate{kind: ActionHandover, label: "Arrange key handover"},
	},
	StatusLost: {
		label: "Lost", color: ColorError, baseScore: 0,
		closure: "This booking was lost. No further follow-up is needed.",
	},
	StatusCancelled: {
		label: "Cancelled", color: ColorError, baseScore: 0,
		closure: "This booking was cancelled by the client.",
	},
	StatusCold: {
		label: "Cold", color: ColorNeutral, baseScore: 20,
		action: &actionTemplate{kind: ActionReengage, label: "Re-engage the client", urgent: true},
	},
}

// Guidance is what a broker should do next. Action is nil for closed
// bookings, which carry a ClosureMessage instead.
type Guidance struct {
	Action         *NextAction
	ClosureMessage string
}

// NextActionFor returns the follow-up for status, with due dates relative to now.
func NextActionFor(status MasterStatus, now time.Time) Guidance {
	profile, ok := statusProfiles[status]
	if !ok {
		return Guidance{}
	}
	if profile.action == nil {
		return Guidance{ClosureMessage: profile.closure}
	}

	action := &NextAction{
		Type:   profile.action.kind,
		Label:  profile.action.label,
		Urgent: profile.action.urgent,
	}
	if profile.action.dueIn > 0 {
		due := now.Add(profile.action.dueIn)
		action.DueDate = &due
	}
	return Guidance{Action: action}
}

// ResolveNextAction prefers an explicitly set NextAction over the computed one.
func ResolveNextAction(b Booking, now time.Time) Guidance {
	if b.NextAction != nil {
		return Guidance{Action: b.NextAction}
	}
	return NextActionFor(b.MasterStatus, now)
}

// DisplayLabel returns the human label of status. Unknown values render as-is.
func DisplayLabel(status MasterStatus) string {
	if profile, ok := statusProfiles[status]; ok {
		return profile.label
	}
	return string(status)
}

// ColorClassFor returns the color bucket of status. Unknown values are neutral.
func ColorClassFor(status MasterStatus) ColorClass {
	if profile, ok := statusProfiles[status]; ok {
		return profile.color
	}
	return ColorNeutral
}

// PriorityScore ranks b for broker attention on a 0..100 scale.
func PriorityScore(b Booking, now time.Time) int {
	score := statusProfiles[b.MasterStatus].baseScore
	if now.Sub(b.LastActivityAt) < recentActivityWindow {
		score += recentActivityBonus
	}
	if hasUpcomingVisit(b, now) {
		score += scheduledVisitBonus
	}
	return min(max(score, 0), maxPriorityScore)
}

func hasUpcomingVisit(b Booking, now time.Time) bool {
	for _, s := range b.SubSections {
		visit, ok := s.Data.(VisitData)
		if ok && visit.Status == VisitScheduled && visit.DateTime.After(now) {
			return true
		}
	}
	return false
}

// IsCold reports whether b has been inactive for ColdThreshold or longer.
func IsCold(b Booking, now time.Time) bool {
	return IsColdAfter(b, now, ColdThreshold)
}

// IsColdAfter reports whether an open booking has been inactive for at least
// threshold. Handover, lost, cancelled and cold bookings are never cold.
func IsColdAfter(b Booking, now time.Time, threshold time.Duration) bool {
	switch b.MasterStatus {
	case StatusHandover, StatusLost, StatusCancelled, StatusCold:
		return false
	}
	if !b.MasterStatus.IsValid() {
		return false
	}
	return now.Sub(b.LastActivityAt) >= threshold
}
