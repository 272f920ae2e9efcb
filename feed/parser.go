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


package feed

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/poiesic/skulink/core"
)

// xmlOffer mirrors one <offer> element of a YML-style product feed.
type xmlOffer struct {
	ID          string     `xml:"id,attr"`
	Name        string     `xml:"name"`
	Description string     `xml:"description"`
	Vendor      string     `xml:"vendor"`
	GroupID     string     `xml:"group_id"`
	Picture     string     `xml:"picture"`
	CategoryID  string     `xml:"categoryId"`
	Currency    string     `xml:"currencyId"`
	Barcode     string     `xml:"barcode"`
	Price       string     `xml:"price"`
	OldPrice    string     `xml:"oldprice"`
	Params      []xmlParam `xml:"param"`
}

type xmlParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

func (o *xmlOffer) toOffer() *core.RawOffer {
	params := make([]core.Param, len(o.Params))
	for i, p := range o.Params {
		params[i] = core.Param{Name: p.Name, Value: p.Value}
	}
	return &core.RawOffer{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Vendor:      o.Vendor,
		GroupID:     o.GroupID,
		Picture:     o.Picture,
		CategoryID:  o.CategoryID,
		Params:      params,
		Currency:    o.Currency,
		Barcode:     o.Barcode,
		Price:       o.Price,
		OldPrice:    o.OldPrice,
	}
}

// Offers walks the feed incrementally and yields one raw offer at a
// time. The sequence is lazy, finite and non-restartable; memory use is
// bounded by the size of a single offer element, not the feed.
//
// A decode failure is yielded as the final element and terminates the
// sequence.
func Offers(r io.Reader) iter.Seq2[*core.RawOffer, error] {
	return func(yield func(*core.RawOffer, error) bool) {
		decoder := xml.NewDecoder(r)
		for {
			token, err := decoder.Token()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err))
				return
			}

			start, ok := token.(xml.StartElement)
			if !ok || start.Name.Local != "offer" {
				continue
			}

			var raw xmlOffer
			if err := decoder.DecodeElement(&raw, &start); err != nil {
				yield(nil, fmt.Errorf("%w: %w", ErrMalformedFeed, err))
				return
			}
			if !yield(raw.toOffer(), nil) {
				return
			}
		}
	}
}
