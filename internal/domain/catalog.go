package domain

import (
	"errors"
	"time"
)

var ErrInvalidEntity = errors.New("invalid catalog entity")

// Kind distinguishes the sellable variants the catalog produces.
type Kind string

const (
	KindTop    Kind = "top"
	KindBottom Kind = "bottom"
	KindOutfit Kind = "outfit"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindTop, KindBottom, KindOutfit:
		return Kind(s), true
	}
	return "", false
}

func (k Kind) String() string {
	return string(k)
}

// OutfitComponent is one half of an outfit as the catalog describes it.
type OutfitComponent struct {
	ID       string `json:"id"`
	Color    string `json:"color,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// CatalogEntity is the read-only shape the catalog (and the recommender)
// hand to the cart. Tops and bottoms carry Price/Color/ImageURL directly;
// outfits carry a precomputed TotalPrice and reference their components.
type CatalogEntity struct {
	Kind        Kind             `json:"kind"`
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       float64          `json:"price,omitempty"`
	TotalPrice  float64          `json:"total_price,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	Color       string           `json:"color,omitempty"`
	Top         *OutfitComponent `json:"top,omitempty"`
	Bottom      *OutfitComponent `json:"bottom,omitempty"`
	Occasion    string           `json:"occasion,omitempty"`
	CreatedAt   time.Time        `json:"created_at,omitempty"`
}

// Validate checks the fields the cart needs to identify an entity.
func (e CatalogEntity) Validate() error {
	if e.ID == "" {
		return ErrInvalidEntity
	}
	if _, ok := ParseKind(string(e.Kind)); !ok {
		return ErrInvalidEntity
	}
	return nil
}
