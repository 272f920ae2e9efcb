// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// NormalizeOffer converts a raw feed offer into its persisted record and
// its search index projection. A single fresh uuid is generated and
// attached to both outputs.
//
// Derivation rules:
//   - price before discounts = old price when present, else price
//   - price after discounts = price
//   - discount = before - after
//   - features built from all params, last value wins on duplicate names
//   - barcode defaults to the empty string
//   - ratings, bonuses and sales start at zero; they are not fed
//
// A missing id or price is a structural error (ErrMissingOfferID /
// ErrMissingPrice wrapped in ErrInvalidOffer); the offer-skipping policy
// on such errors belongs to the caller.
func NormalizeOffer(offer *RawOffer, marketplaceID int) (*ProductRecord, *IndexedDocument, error) {
	if offer == nil {
		return nil, nil, fmt.Errorf("%w: offer is nil", ErrInvalidOffer)
	}

	if offer.ID == "" {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidOffer, ErrMissingOfferID)
	}
	productID, err := strconv.Atoi(offer.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: offer id %q: %w", ErrInvalidOffer, offer.ID, err)
	}

	if offer.Price == "" {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidOffer, ErrMissingPrice)
	}
	price, err := strconv.ParseFloat(offer.Price, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: price %q: %w", ErrInvalidOffer, offer.Price, err)
	}

	oldPrice := price
	if offer.OldPrice != "" {
		oldPrice, err = strconv.ParseFloat(offer.OldPrice, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: old price %q: %w", ErrInvalidOffer, offer.OldPrice, err)
		}
	}

	sellerID, err := optionalInt(offer.GroupID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: group id %q: %w", ErrInvalidOffer, offer.GroupID, err)
	}
	categoryID, err := optionalInt(offer.CategoryID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: category id %q: %w", ErrInvalidOffer, offer.CategoryID, err)
	}

	features := make(map[string]string, len(offer.Params))
	for _, param := range offer.Params {
		features[param.Name] = param.Value
	}

	id := uuid.New()

	record := &ProductRecord{
		UUID:                 id,
		MarketplaceID:        marketplaceID,
		ProductID:            productID,
		Title:                offer.Name,
		Description:          offer.Description,
		Brand:                offer.Vendor,
		SellerID:             sellerID,
		SellerName:           offer.Vendor,
		FirstImageURL:        offer.Picture,
		CategoryID:           categoryID,
		Features:             features,
		PriceBeforeDiscounts: oldPrice,
		Discount:             oldPrice - price,
		PriceAfterDiscounts:  price,
		Currency:             offer.Currency,
		Barcode:              offer.Barcode,
	}

	doc := &IndexedDocument{
		UUID:        id,
		Title:       offer.Name,
		Description: offer.Description,
		Brand:       offer.Vendor,
		SellerName:  offer.Vendor,
	}

	return record, doc, nil
}

// optionalInt parses a feed integer field, treating absence as zero.
func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
