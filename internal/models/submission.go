package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/PGMA10/rrak-website/internal/domain"
)

// Lead is a general contact form submission.
type Lead struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null" json:"name"`
	Email           string    `gorm:"size:255;not null;index" json:"email"`
	Phone           *string   `gorm:"size:50" json:"phone"`
	BusinessName    *string   `gorm:"size:255" json:"businessName"`
	ServiceInterest *string   `gorm:"size:255" json:"serviceInterest"`
	Message         *string   `gorm:"type:text" json:"message"`
	CreatedAt       time.Time `gorm:"not null;index" json:"createdAt"`
}

func (Lead) TableName() string { return "leads" }

func (Lead) Kind() domain.Entity { return domain.EntityLeads }

func (l Lead) Fields() []Field {
	return []Field{
		id(l.ID),
		text("name", l.Name),
		text("email", l.Email),
		optional("phone", l.Phone),
		optional("businessName", l.BusinessName),
		optional("serviceInterest", l.ServiceInterest),
		optional("message", l.Message),
		timestamp("createdAt", l.CreatedAt),
	}
}

// NewsletterSubscriber is a newsletter signup; one row per address.
type NewsletterSubscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Status    string    `gorm:"size:50;not null;default:'active'" json:"status"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

func (n *NewsletterSubscriber) BeforeCreate(*gorm.DB) error {
	if n.Status == "" {
		n.Status = domain.SubscriberStatusActive
	}
	return nil
}

func (NewsletterSubscriber) Kind() domain.Entity { return domain.EntityNewsletterSubscribers }

func (n NewsletterSubscriber) Fields() []Field {
	return []Field{
		id(n.ID),
		text("email", n.Email),
		text("status", n.Status),
		timestamp("createdAt", n.CreatedAt),
	}
}

type PrintQuoteRequest struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;index" json:"email"`
	Phone        *string   `gorm:"size:50" json:"phone"`
	BusinessName *string   `gorm:"size:255" json:"businessName"`
	MaterialType *string   `gorm:"size:255" json:"materialType"`
	Quantity     *string   `gorm:"size:100" json:"quantity"`
	Timeline     *string   `gorm:"size:255" json:"timeline"`
	Message      *string   `gorm:"type:text" json:"message"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
}

func (PrintQuoteRequest) TableName() string { return "print_quote_requests" }

func (PrintQuoteRequest) Kind() domain.Entity { return domain.EntityQuoteRequests }

func (q PrintQuoteRequest) Fields() []Field {
	return []Field{
		id(q.ID),
		text("name", q.Name),
		text("email", q.Email),
		optional("phone", q.Phone),
		optional("businessName", q.BusinessName),
		optional("materialType", q.MaterialType),
		optional("quantity", q.Quantity),
		optional("timeline", q.Timeline),
		optional("message", q.Message),
		timestamp("createdAt", q.CreatedAt),
	}
}

type ConsultationBooking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Email         string    `gorm:"size:255;not null;index" json:"email"`
	Phone         *string   `gorm:"size:50" json:"phone"`
	ServiceType   *string   `gorm:"size:255" json:"serviceType"`
	PreferredTime *string   `gorm:"size:255" json:"preferredTime"`
	Message       *string   `gorm:"type:text" json:"message"`
	CreatedAt     time.Time `gorm:"not null;index" json:"createdAt"`
}

func (ConsultationBooking) TableName() string { return "consultation_bookings" }

func (ConsultationBooking) Kind() domain.Entity { return domain.EntityConsultationBookings }

func (b ConsultationBooking) Fields() []Field {
	return []Field{
		id(b.ID),
		text("name", b.Name),
		text("email", b.Email),
		optional("phone", b.Phone),
		optional("serviceType", b.ServiceType),
		optional("preferredTime", b.PreferredTime),
		optional("message", b.Message),
		timestamp("createdAt", b.CreatedAt),
	}
}
