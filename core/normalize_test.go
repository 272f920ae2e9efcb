package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOffer() *RawOffer {
	return &RawOffer{
		ID:          "42",
		Name:        "Wool sweater",
		Description: "Warm wool sweater",
		Vendor:      "Acme",
		GroupID:     "7",
		Picture:     "https://example.com/sweater.jpg",
		CategoryID:  "12",
		Currency:    "RUR",
		Price:       "100",
	}
}

func TestNormalizeOffer_Basic(t *testing.T) {
	record, doc, err := NormalizeOffer(validOffer(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, record.MarketplaceID)
	assert.Equal(t, 42, record.ProductID)
	assert.Equal(t, "Wool sweater", record.Title)
	assert.Equal(t, "Acme", record.Brand)
	assert.Equal(t, "Acme", record.SellerName)
	assert.Equal(t, 7, record.SellerID)
	assert.Equal(t, 12, record.CategoryID)
	assert.Equal(t, "RUR", record.Currency)
	assert.Equal(t, "", record.Barcode)
	assert.Zero(t, record.RatingCount)
	assert.Zero(t, record.RatingValue)
	assert.Zero(t, record.Bonuses)
	assert.Zero(t, record.Sales)
	assert.Empty(t, record.SimilarSKU)

	assert.Equal(t, "Wool sweater", doc.Title)
	assert.Equal(t, "Acme", doc.Brand)
	assert.Equal(t, "Acme", doc.SellerName)
}

func TestNormalizeOffer_SharedUUID(t *testing.T) {
	record, doc, err := NormalizeOffer(validOffer(), 1)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.UUID)
	assert.Equal(t, record.UUID, doc.UUID, "record and document must share the join key")

	// A second normalization of the same offer gets its own uuid.
	record2, _, err := NormalizeOffer(validOffer(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, record.UUID, record2.UUID)
}

func TestNormalizeOffer_PriceInvariants(t *testing.T) {
	t.Run("no old price means no discount", func(t *testing.T) {
		offer := validOffer()
		offer.Price = "100"
		offer.OldPrice = ""

		record, _, err := NormalizeOffer(offer, 1)
		require.NoError(t, err)
		assert.Equal(t, record.PriceAfterDiscounts, record.PriceBeforeDiscounts)
		assert.Zero(t, record.Discount)
	})

	t.Run("old price drives the discount", func(t *testing.T) {
		offer := validOffer()
		offer.Price = "50"
		offer.OldPrice = "150"

		record, _, err := NormalizeOffer(offer, 1)
		require.NoError(t, err)
		assert.Equal(t, 150.0, record.PriceBeforeDiscounts)
		assert.Equal(t, 50.0, record.PriceAfterDiscounts)
		assert.Equal(t, 100.0, record.Discount)
	})

	t.Run("equal prices yield zero discount", func(t *testing.T) {
		offer := validOffer()
		offer.Price = "20"
		offer.OldPrice = "20"

		record, _, err := NormalizeOffer(offer, 1)
		require.NoError(t, err)
		assert.Zero(t, record.Discount)
	})
}

func TestNormalizeOffer_FeaturesLastWins(t *testing.T) {
	offer := validOffer()
	offer.Params = []Param{
		{Name: "color", Value: "red"},
		{Name: "size", Value: "M"},
		{Name: "color", Value: "blue"},
	}

	record, _, err := NormalizeOffer(offer, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "blue", "size": "M"}, record.Features)
}

func TestNormalizeOffer_MissingRequiredFields(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		offer := validOffer()
		offer.ID = ""

		_, _, err := NormalizeOffer(offer, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidOffer)
		assert.ErrorIs(t, err, ErrMissingOfferID)
	})

	t.Run("missing price", func(t *testing.T) {
		offer := validOffer()
		offer.Price = ""

		_, _, err := NormalizeOffer(offer, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidOffer)
		assert.ErrorIs(t, err, ErrMissingPrice)
	})

	t.Run("nil offer", func(t *testing.T) {
		_, _, err := NormalizeOffer(nil, 1)
		assert.ErrorIs(t, err, ErrInvalidOffer)
	})

	t.Run("unparsable price", func(t *testing.T) {
		offer := validOffer()
		offer.Price = "free"

		_, _, err := NormalizeOffer(offer, 1)
		assert.ErrorIs(t, err, ErrInvalidOffer)
	})
}

func TestNormalizeOffer_OptionalFields(t *testing.T) {
	offer := validOffer()
	offer.GroupID = ""
	offer.CategoryID = ""
	offer.Barcode = "4601234567890"

	record, _, err := NormalizeOffer(offer, 1)
	require.NoError(t, err)
	assert.Zero(t, record.SellerID)
	assert.Zero(t, record.CategoryID)
	assert.Equal(t, "4601234567890", record.Barcode)
}
