package model

import "time"

// ServiceCategory groups vendor services in the catalog.
type ServiceCategory string

const (
	CategoryDecoration     ServiceCategory = "Decoration"
	CategoryCatering       ServiceCategory = "Catering"
	CategoryPhotography    ServiceCategory = "Photography"
	CategoryEntertainment  ServiceCategory = "Entertainment"
	CategoryVenue          ServiceCategory = "Venue"
	CategoryTransportation ServiceCategory = "Transportation"
	CategoryOther          ServiceCategory = "Other"
)

// Valid reports whether category is known.
func (c ServiceCategory) Valid() bool {
	switch c {
	case CategoryDecoration, CategoryCatering, CategoryPhotography, CategoryEntertainment,
		CategoryVenue, CategoryTransportation, CategoryOther:
		return true
	}
	return false
}

// PricingType describes how a service price is quoted.
type PricingType string

const (
	PricingFixed     PricingType = "Fixed"
	PricingPerHour   PricingType = "Per Hour"
	PricingPerPerson PricingType = "Per Person"
	PricingCustom    PricingType = "Custom"
)

// Valid reports whether pricing type is known.
func (p PricingType) Valid() bool {
	switch p {
	case PricingFixed, PricingPerHour, PricingPerPerson, PricingCustom:
		return true
	}
	return false
}

// Service is a vendor offering listed in the catalog.
type Service struct {
	ID          string
	Name        string
	Description string
	Category    ServiceCategory
	PricingType PricingType
	Price       Money
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceDraft describes a catalog entry created by an administrator.
type ServiceDraft struct {
	Name        string
	Description string
	Category    ServiceCategory
	PricingType PricingType
	Price       Money
	Available   bool
}
