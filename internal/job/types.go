// Package job defines the informal-sector job listing model and its storage
// backends (in-memory, PostgreSQL, Redis).
//
// A listing is immutable after creation: postings are added, read, pruned by
// the expiry janitor, or wiped as a whole, never edited in place.
//
// Every implementation must be safe for concurrent use.
package job

import (
	"strings"
	"time"
)

// Translations carries the local-language labels for a listing's trade, used
// by the search pipeline so that a query in Bambara or Baoulé still matches.
type Translations struct {
	Bambara string `json:"bambara"`
	Baoule  string `json:"baoule"`
}

// Offer is a single informal-sector job posting.
type Offer struct {
	// ID is the unique listing identifier. Assigned by the store on Add when
	// empty (32-char random hex); seed records keep their fixed short IDs.
	ID string `json:"id"`

	// Title is the trade or role offered (e.g., "Servante", "Chauffeur").
	Title string `json:"title"`

	// Location is the city and neighbourhood (e.g., "Abidjan, Cocody").
	Location string `json:"location"`

	// StoreName is the optional name of the hiring business or household.
	StoreName string `json:"storeName,omitempty"`

	// Country is the country of the posting (e.g., "Côte d'Ivoire").
	Country string `json:"country"`

	// WorkMode is a free-form schedule label ("Temps plein", "Temps partiel",
	// "2 fois par semaine", ...).
	WorkMode string `json:"workMode"`

	// RequiredProfile describes the person sought, in the poster's own words.
	RequiredProfile string `json:"requiredProfile"`

	// Phone is the contact number in international format.
	Phone string `json:"phone"`

	// WhatsApp is the WhatsApp contact number, usually equal to Phone.
	WhatsApp string `json:"whatsapp"`

	// Certified reports whether the poster's identity document was verified
	// when the listing was submitted.
	Certified bool `json:"isCertified"`

	// PostedAt is when the listing was published.
	PostedAt time.Time `json:"postedDate"`

	// Translations holds optional local-language labels for the trade.
	Translations *Translations `json:"translations,omitempty"`
}

// SearchText returns the flattened text projection of the offer that the
// keyword search pass matches against: title, location, store name, profile,
// work mode, country, and both local-language labels, space-joined.
func (o Offer) SearchText() string {
	parts := []string{
		o.Title,
		o.Location,
		o.StoreName,
		o.RequiredProfile,
		o.WorkMode,
		o.Country,
	}
	if o.Translations != nil {
		parts = append(parts, o.Translations.Bambara, o.Translations.Baoule)
	}
	return strings.Join(parts, " ")
}
