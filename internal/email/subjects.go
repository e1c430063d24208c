package email

const (
	subjectBookingAlertFmt = "[%s] %s"
)
