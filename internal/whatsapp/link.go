// Package whatsapp builds wa.me deep links that pre-fill a chat message.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"boutique-storefront/internal/domain"
)

const baseURL = "https://wa.me/"

// Digits strips everything but ASCII digits from a phone number.
func Digits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MakeLink returns a chat link for number with text pre-filled.
func MakeLink(number, text string) string {
	return baseURL + Digits(number) + "?text=" + encode(text)
}

// CartMessage is everything the order confirmation text is built from.
type CartMessage struct {
	Lines         []domain.CartLine
	Count         int
	Subtotal      float64
	CurrencyLabel string
	WholesaleAt   int
}

// Text renders the itemized order summary.
func (m CartMessage) Text() string {
	var lines []string
	lines = append(lines, "مرحباً 🌿", "أريد تأكيد طلب السلة التالية:", "")

	if len(m.Lines) == 0 {
		lines = append(lines, "السلة فارغة.")
	} else {
		for i, it := range m.Lines {
			lines = append(lines, fmt.Sprintf("%d) %s", i+1, it.Name))
			if it.Price != "" {
				lines = append(lines, "   - السعر: "+it.Price)
			}
			if it.Size != "" {
				lines = append(lines, "   - المقاس: "+it.Size)
			}
			if it.Color != "" {
				lines = append(lines, "   - اللون: "+it.Color)
			}
			lines = append(lines, fmt.Sprintf("   - الكمية: %d", it.Qty))
			if it.Note != "" {
				lines = append(lines, "   - ملاحظة: "+it.Note)
			}
			if it.ProductURL != "" {
				lines = append(lines, "   - رابط: "+it.ProductURL)
			}
			lines = append(lines, "")
		}

		lines = append(lines, fmt.Sprintf("عدد القطع: %d", m.Count))
		if m.WholesaleAt > 0 && m.Count >= m.WholesaleAt {
			lines = append(lines, fmt.Sprintf("ملاحظة: تم الوصول لحد الجملة (%d)، سيتم الاتفاق على سعر الجملة عند الطلب.", m.WholesaleAt))
		}
		lines = append(lines, fmt.Sprintf("المجموع: %.2f %s", m.Subtotal, m.CurrencyLabel))
	}

	lines = append(lines, "", "شكراً 🙏")
	return strings.Join(lines, "\n")
}

// CartLink returns the order confirmation link, or "" when number holds no
// digits.
func CartLink(number string, m CartMessage) string {
	phone := Digits(number)
	if phone == "" {
		return ""
	}
	return baseURL + phone + "?text=" + encode(m.Text())
}

// encode percent-encodes like encodeURIComponent, so spaces become %20.
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
