package core

import "github.com/google/uuid"

// Param is a single name/value product parameter attached to a feed offer.
type Param struct {
	Name  string
	Value string
}

// RawOffer is one product entry as read from the feed, before
// normalization. Numeric fields are kept as the feed's raw text so the
// parser stays a pure tokenizer; the normalizer owns conversion and
// validation.
type RawOffer struct {
	ID          string // offer id attribute
	Name        string
	Description string
	Vendor      string
	GroupID     string
	Picture     string
	CategoryID  string
	Params      []Param // in feed order; duplicates resolved last-wins
	Currency    string
	Barcode     string
	Price       string
	OldPrice    string // empty when the feed carries no oldprice
}

// ProductRecord is the normalized, persisted form of an offer.
// UUID is generated exactly once per offer and is the join key with the
// record's IndexedDocument counterpart.
type ProductRecord struct {
	UUID          uuid.UUID
	MarketplaceID int
	ProductID     int
	Title         string
	Description   string
	Brand         string
	SellerID      int
	SellerName    string
	FirstImageURL string
	CategoryID    int

	CategoryLvl1      string
	CategoryLvl2      string
	CategoryLvl3      string
	CategoryRemaining string

	// Features maps parameter names to values, serialized as JSON on insert.
	Features map[string]string

	RatingCount int
	RatingValue float64

	PriceBeforeDiscounts float64
	Discount             float64
	PriceAfterDiscounts  float64

	Bonuses  int
	Sales    int
	Currency string
	Barcode  string

	// SimilarSKU is populated by the similarity stage, not at ingestion.
	SimilarSKU []uuid.UUID
}

// IndexedDocument is the search-index projection of a product record.
// It shares the record's UUID and is stored in one index per category.
type IndexedDocument struct {
	UUID        uuid.UUID `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Brand       string    `json:"brand"`
	SellerName  string    `json:"seller_name"`
}

// SimilarityLink maps one product to the products found similar to it.
// Persisting a link fully replaces any previous value for the UUID.
type SimilarityLink struct {
	UUID    uuid.UUID
	Similar []uuid.UUID
}

// LinkedRef is one similar product in a report row.
type LinkedRef struct {
	UUID  uuid.UUID
	Title string
}

// LinkedProduct is one row of the post-run report: a product together
// with the resolved titles of its similar products.
type LinkedProduct struct {
	UUID    uuid.UUID
	Title   string
	Similar []LinkedRef
}
