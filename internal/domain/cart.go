package domain

import (
	"strconv"
	"strings"
)

// CartLine is one purchasable selection. Name, price, image and product URL are
// captured when the line is added and are never refreshed from the catalog.
type CartLine struct {
	Key        string `json:"key"`
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Price      string `json:"price,omitempty"`
	Image      string `json:"image,omitempty"`
	ProductURL string `json:"productUrl,omitempty"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	Qty        int    `json:"qty"`
	Note       string `json:"note,omitempty"`
}

// LineInput is a CartLine without its derived key.
type LineInput struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Price      string `json:"price,omitempty"`
	Image      string `json:"image,omitempty"`
	ProductURL string `json:"productUrl,omitempty"`
	Size       string `json:"size,omitempty"`
	Color      string `json:"color,omitempty"`
	Qty        int    `json:"qty"`
	Note       string `json:"note,omitempty"`
}

// LineKey builds the case-insensitive identity of a line.
func LineKey(productID, size, color string) string {
	return strings.ToLower(productID + "|" + size + "|" + color)
}

// Line converts the input into a keyed CartLine.
func (in LineInput) Line() CartLine {
	return CartLine{
		Key:        LineKey(in.ProductID, in.Size, in.Color),
		ProductID:  in.ProductID,
		Name:       in.Name,
		Price:      in.Price,
		Image:      in.Image,
		ProductURL: in.ProductURL,
		Size:       in.Size,
		Color:      in.Color,
		Qty:        in.Qty,
		Note:       strings.TrimSpace(in.Note),
	}
}

// PriceValue extracts the numeric part of a display price. Anything that does
// not parse counts as zero.
func PriceValue(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
