package domain

// Entity identifies a submission kind. The value doubles as the admin URL
// segment and the CSV export filename.
type Entity string

const (
	EntityLeads                  Entity = "leads"
	EntityNewsletterSubscribers  Entity = "newsletter-subscribers"
	EntityQuoteRequests          Entity = "quote-requests"
	EntityConsultationBookings   Entity = "consultation-bookings"
	EntityEmailMarketingWaitlist Entity = "email-marketing-waitlist"
	EntityPrintMaterialsWaitlist Entity = "print-materials-waitlist"
	EntitySoloMailerWaitlist     Entity = "solo-mailer-waitlist"
	EntityLandingPagesWaitlist   Entity = "landing-pages-waitlist"
	EntityBlogPosts              Entity = "blog-posts"
)

// SubmissionEntities lists every publicly submittable kind, in dashboard order.
var SubmissionEntities = []Entity{
	EntityLeads,
	EntityNewsletterSubscribers,
	EntityQuoteRequests,
	EntityConsultationBookings,
	EntityEmailMarketingWaitlist,
	EntityPrintMaterialsWaitlist,
	EntitySoloMailerWaitlist,
	EntityLandingPagesWaitlist,
}

// Label is the human-readable name used in notifications and logs.
func (e Entity) Label() string {
	switch e {
	case EntityLeads:
		return "Lead"
	case EntityNewsletterSubscribers:
		return "Newsletter Subscriber"
	case EntityQuoteRequests:
		return "Quote Request"
	case EntityConsultationBookings:
		return "Consultation Booking"
	case EntityEmailMarketingWaitlist:
		return "Email Marketing Waitlist Signup"
	case EntityPrintMaterialsWaitlist:
		return "Print Materials Waitlist Signup"
	case EntitySoloMailerWaitlist:
		return "Solo Mailer Waitlist Signup"
	case EntityLandingPagesWaitlist:
		return "Landing Pages Waitlist Signup"
	case EntityBlogPosts:
		return "Blog Post"
	}
	return string(e)
}

const (
	SubscriberStatusActive = "active"
)

const (
	FeedEventSubmission = "submission"
)
