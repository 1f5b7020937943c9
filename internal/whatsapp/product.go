package whatsapp

import (
	"fmt"
	"regexp"
	"strings"
)

// ProductMessage is a direct "order this product" request.
type ProductMessage struct {
	Name       string
	Price      string
	Size       string
	Color      string
	Qty        int
	Note       string
	ProductURL string
	ImageURL   string
	// WholesaleAt and CartCount decide whether the wholesale notice applies;
	// the count includes the pieces already in the cart.
	WholesaleAt int
	CartCount   int
}

func (m ProductMessage) Text() string {
	lines := []string{"مرحباً 🌿", "أريد طلب المنتج التالي:", "", "• الاسم: " + m.Name}
	if strings.TrimSpace(m.Price) != "" {
		lines = append(lines, "• السعر: "+m.Price)
	}
	if m.Size != "" {
		lines = append(lines, "• المقاس: "+m.Size)
	}
	if m.Color != "" {
		lines = append(lines, "• اللون: "+m.Color)
	}
	lines = append(lines, fmt.Sprintf("• الكمية: %d", m.Qty))
	if m.WholesaleAt > 0 && m.CartCount+m.Qty >= m.WholesaleAt {
		lines = append(lines, fmt.Sprintf("• ملاحظة: تم الوصول لحد الجملة (%d)، سيتم الاتفاق على سعر الجملة عند الطلب.", m.WholesaleAt))
	}
	if note := strings.TrimSpace(m.Note); note != "" {
		lines = append(lines, "• ملاحظة: "+note)
	}
	lines = append(lines, "", "• رابط المنتج: "+m.ProductURL)
	if m.ImageURL != "" {
		lines = append(lines, "• صورة المنتج: "+m.ImageURL)
	}
	lines = append(lines, "", "شكراً 🙏")
	return strings.Join(lines, "\n")
}

// ProductLink returns the direct order link, or "" without a phone number.
func ProductLink(number string, m ProductMessage) string {
	if Digits(number) == "" {
		return ""
	}
	return MakeLink(number, m.Text())
}

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// AbsoluteURL resolves a site-relative path against siteURL. Absolute URLs
// and empty input pass through.
func AbsoluteURL(siteURL, path string) string {
	if path == "" || absoluteURL.MatchString(path) {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(siteURL, "/") + path
}

// ProductURL is the storefront page of a product.
func ProductURL(siteURL, productID string) string {
	return strings.TrimRight(siteURL, "/") + "/products/" + productID
}
