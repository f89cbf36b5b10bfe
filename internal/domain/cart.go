package domain

import "time"

// Size is the fixed garment size enumeration.
type Size string

const (
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	Size2XL Size = "2XL"
	Size3XL Size = "3XL"
)

// DefaultSize is what an unrecognized size coerces to on add.
const DefaultSize = SizeM

func ValidSize(s Size) bool {
	switch s {
	case SizeS, SizeM, SizeL, SizeXL, Size2XL, Size3XL:
		return true
	}
	return false
}

// ParseSize coerces free-form input to a known size, defaulting to M.
func ParseSize(s string) Size {
	if ValidSize(Size(s)) {
		return Size(s)
	}
	return DefaultSize
}

// PlaceholderImage stands in when an entity carries no image reference.
const PlaceholderImage = "/placeholder.svg"

// ItemKey is the uniqueness boundary for line items: no two items in a
// cart may share the same (kind, id, size) triple.
type ItemKey struct {
	Kind Kind
	ID   string
	Size Size
}

// LineItem is one keyed entry in a cart. Price and display fields are
// snapshotted at add time; later catalog changes do not reach back into
// items already in the cart.
type LineItem struct {
	ID          string    `bson:"id" json:"id"`
	Kind        Kind      `bson:"kind" json:"kind"`
	Size        Size      `bson:"size" json:"size"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	UnitPrice   float64   `bson:"unit_price" json:"unit_price"`
	Name        string    `bson:"name" json:"name"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	Color       string    `bson:"color,omitempty" json:"color,omitempty"`
	TopColor    string    `bson:"top_color,omitempty" json:"top_color,omitempty"`
	BottomColor string    `bson:"bottom_color,omitempty" json:"bottom_color,omitempty"`
	Occasion    string    `bson:"occasion,omitempty" json:"occasion,omitempty"`
	AddedAt     time.Time `bson:"added_at" json:"added_at"`
}

func (li LineItem) Key() ItemKey {
	return ItemKey{Kind: li.Kind, ID: li.ID, Size: li.Size}
}

// NewLineItem projects a catalog entity of any kind into the common
// line-item shape. Size and quantity are coerced rather than rejected;
// a broken entity rejects the whole projection with ErrInvalidEntity.
func NewLineItem(e CatalogEntity, size Size, quantity int) (LineItem, error) {
	if err := e.Validate(); err != nil {
		return LineItem{}, err
	}
	if !ValidSize(size) {
		size = DefaultSize
	}
	if quantity < 1 {
		quantity = 1
	}

	name := e.Name
	if name == "" {
		name = e.Description
	}
	if name == "" {
		name = "Unknown Item"
	}

	price := e.Price
	if price == 0 {
		price = e.TotalPrice
	}

	imageURL := PlaceholderImage
	if e.Kind == KindOutfit {
		if e.Top != nil && e.Top.ImageURL != "" {
			imageURL = e.Top.ImageURL
		}
	} else if e.ImageURL != "" {
		imageURL = e.ImageURL
	}

	item := LineItem{
		ID:        e.ID,
		Kind:      e.Kind,
		Size:      size,
		Quantity:  quantity,
		UnitPrice: price,
		Name:      name,
		ImageURL:  imageURL,
		Occasion:  e.Occasion,
		AddedAt:   time.Now(),
	}

	if e.Kind == KindOutfit {
		if e.Top != nil {
			item.TopColor = e.Top.Color
		}
		if e.Bottom != nil {
			item.BottomColor = e.Bottom.Color
		}
	} else {
		item.Color = e.Color
	}

	return item, nil
}

// Cart is the persisted session state: an ordered list of line items.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	SessionID string     `bson:"session_id" json:"session_id"`
	UserID    string     `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Items     []LineItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}
