package services

// Notifier pushes completion events to connected clients so they need not
// poll busy flags. A nil Notifier disables push.
type Notifier interface {
	SectionFeedbackReady(sectionID string)
	ReviewCompleted(reviewID string)
}
