package models

import (
	"time"

	"github.com/PGMA10/rrak-website/internal/domain"
)

// The four waitlists share the unique-email constraint: signing up twice
// with the same address is rejected by the database.

type EmailMarketingWaitlist struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         *string    `gorm:"size:255" json:"name"`
	BusinessName *string    `gorm:"size:255" json:"businessName"`
	ServiceTypes StringList `gorm:"type:text" json:"serviceTypes"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (EmailMarketingWaitlist) TableName() string { return "email_marketing_waitlist" }

func (EmailMarketingWaitlist) Kind() domain.Entity { return domain.EntityEmailMarketingWaitlist }

func (w EmailMarketingWaitlist) Fields() []Field {
	return []Field{
		id(w.ID),
		text("email", w.Email),
		optional("name", w.Name),
		optional("businessName", w.BusinessName),
		list("serviceTypes", w.ServiceTypes),
		timestamp("createdAt", w.CreatedAt),
	}
}

type PrintMaterialsWaitlist struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name              *string    `gorm:"size:255" json:"name"`
	BusinessName      *string    `gorm:"size:255" json:"businessName"`
	MaterialTypes     StringList `gorm:"type:text;not null" json:"materialTypes"`
	OtherMaterialType *string    `gorm:"size:255" json:"otherMaterialType"`
	Industry          *string    `gorm:"size:255" json:"industry"`
	Quantity          *string    `gorm:"size:100" json:"quantity"`
	TypicalNeed       *string    `gorm:"size:100" json:"typicalNeed"`
	CreatedAt         time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (PrintMaterialsWaitlist) TableName() string { return "print_materials_waitlist" }

func (PrintMaterialsWaitlist) Kind() domain.Entity { return domain.EntityPrintMaterialsWaitlist }

func (w PrintMaterialsWaitlist) Fields() []Field {
	return []Field{
		id(w.ID),
		text("email", w.Email),
		optional("name", w.Name),
		optional("businessName", w.BusinessName),
		list("materialTypes", w.MaterialTypes),
		optional("otherMaterialType", w.OtherMaterialType),
		optional("industry", w.Industry),
		optional("quantity", w.Quantity),
		optional("typicalNeed", w.TypicalNeed),
		timestamp("createdAt", w.CreatedAt),
	}
}

type SoloMailerWaitlist struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Email         string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name          *string    `gorm:"size:255" json:"name"`
	BusinessName  *string    `gorm:"size:255" json:"businessName"`
	InterestAreas StringList `gorm:"type:text" json:"interestAreas"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (SoloMailerWaitlist) TableName() string { return "solo_mailer_waitlist" }

func (SoloMailerWaitlist) Kind() domain.Entity { return domain.EntitySoloMailerWaitlist }

func (w SoloMailerWaitlist) Fields() []Field {
	return []Field{
		id(w.ID),
		text("email", w.Email),
		optional("name", w.Name),
		optional("businessName", w.BusinessName),
		list("interestAreas", w.InterestAreas),
		timestamp("createdAt", w.CreatedAt),
	}
}

type LandingPagesWaitlist struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Email         string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name          *string    `gorm:"size:255" json:"name"`
	BusinessName  *string    `gorm:"size:255" json:"businessName"`
	InterestAreas StringList `gorm:"type:text" json:"interestAreas"`
	CreatedAt     time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (LandingPagesWaitlist) TableName() string { return "landing_pages_waitlist" }

func (LandingPagesWaitlist) Kind() domain.Entity { return domain.EntityLandingPagesWaitlist }

func (w LandingPagesWaitlist) Fields() []Field {
	return []Field{
		id(w.ID),
		text("email", w.Email),
		optional("name", w.Name),
		optional("businessName", w.BusinessName),
		list("interestAreas", w.InterestAreas),
		timestamp("createdAt", w.CreatedAt),
	}
}
