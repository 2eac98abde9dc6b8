package schema

import "github.com/PGMA10/rrak-website/internal/domain"

type Format string

const (
	FormatText     Format = "text"
	FormatEmail    Format = "email"
	FormatSlug     Format = "slug"
	FormatBoolean  Format = "boolean"
	FormatDateTime Format = "datetime"
	FormatList     Format = "list"
)

// FieldRule is the declarative acceptance rule for one form field. The
// same table is served to the browser at /api/form-schemas so both sides
// reject identical input.
type FieldRule struct {
	Field     string `json:"field"`
	Label     string `json:"label"`
	Required  bool   `json:"required"`
	Format    Format `json:"format"`
	MaxLength int    `json:"maxLength,omitempty"`
	MinItems  int    `json:"minItems,omitempty"`
	Message   string `json:"message,omitempty"`
}

const (
	MsgInvalidEmail        = "Invalid email address"
	MsgSelectMaterialType  = "Please select at least one material type"
	MsgInvalidSlug         = "Slug may only contain lowercase letters, numbers and hyphens"
	MsgInvalidDateTime     = "Invalid date and time"
	EntityCampaignSettings = domain.Entity("campaign-settings")
)

func email() FieldRule {
	return FieldRule{Field: "email", Label: "Email", Required: true, Format: FormatEmail, MaxLength: 255, Message: MsgInvalidEmail}
}

func textField(field, label string, required bool, max int) FieldRule {
	return FieldRule{Field: field, Label: label, Required: required, Format: FormatText, MaxLength: max}
}

func listField(field, label string, min int, msg string) FieldRule {
	return FieldRule{Field: field, Label: label, Format: FormatList, MinItems: min, Required: min > 0, Message: msg}
}

// Table holds the rule set of every entity that accepts input.
var Table = map[domain.Entity][]FieldRule{
	domain.EntityLeads: {
		textField("name", "Name", true, 255),
		email(),
		textField("phone", "Phone", false, 50),
		textField("businessName", "Business name", false, 255),
		textField("serviceInterest", "Service interest", false, 255),
		textField("message", "Message", false, 0),
	},
	domain.EntityNewsletterSubscribers: {
		email(),
	},
	domain.EntityQuoteRequests: {
		textField("name", "Name", true, 255),
		email(),
		textField("phone", "Phone", false, 50),
		textField("businessName", "Business name", false, 255),
		textField("materialType", "Material type", false, 255),
		textField("quantity", "Quantity", false, 100),
		textField("timeline", "Timeline", false, 255),
		textField("message", "Message", false, 0),
	},
	domain.EntityConsultationBookings: {
		textField("name", "Name", true, 255),
		email(),
		textField("phone", "Phone", false, 50),
		textField("serviceType", "Service type", false, 255),
		textField("preferredTime", "Preferred time", false, 255),
		textField("message", "Message", false, 0),
	},
	domain.EntityEmailMarketingWaitlist: {
		email(),
		textField("name", "Name", false, 255),
		textField("businessName", "Business name", false, 255),
		listField("serviceTypes", "Service types", 0, ""),
	},
	domain.EntityPrintMaterialsWaitlist: {
		email(),
		textField("name", "Name", false, 255),
		textField("businessName", "Business name", false, 255),
		listField("materialTypes", "Material types", 1, MsgSelectMaterialType),
		textField("otherMaterialType", "Other material type", false, 255),
		textField("industry", "Industry", false, 255),
		textField("quantity", "Quantity", false, 100),
		textField("typicalNeed", "Typical need", false, 100),
	},
	domain.EntitySoloMailerWaitlist: {
		email(),
		textField("name", "Name", false, 255),
		textField("businessName", "Business name", false, 255),
		listField("interestAreas", "Interest areas", 0, ""),
	},
	domain.EntityLandingPagesWaitlist: {
		email(),
		textField("name", "Name", false, 255),
		textField("businessName", "Business name", false, 255),
		listField("interestAreas", "Interest areas", 0, ""),
	},
	domain.EntityBlogPosts: {
		textField("title", "Title", true, 255),
		{Field: "slug", Label: "Slug", Required: true, Format: FormatSlug, MaxLength: 255, Message: MsgInvalidSlug},
		textField("excerpt", "Excerpt", true, 0),
		textField("content", "Content", true, 0),
		{Field: "published", Label: "Published", Format: FormatBoolean},
	},
	EntityCampaignSettings: {
		{Field: "deadlineDate", Label: "Deadline", Required: true, Format: FormatDateTime, Message: MsgInvalidDateTime},
	},
}
