package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"boutique-storefront/internal/domain"
)

func decodeText(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	return u.Query().Get("text")
}

func TestDigits(t *testing.T) {
	if got := Digits("+963 (49) 196-001"); got != "96349196001" {
		t.Fatalf("unexpected digits %q", got)
	}
}

func TestMakeLink(t *testing.T) {
	link := MakeLink("+963 111", "hello world & more")
	if !strings.HasPrefix(link, "https://wa.me/963111?text=") {
		t.Fatalf("unexpected link %s", link)
	}
	if strings.Contains(link, "+") {
		t.Fatalf("spaces must be %%20-encoded: %s", link)
	}
	if got := decodeText(t, link); got != "hello world & more" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestCartLinkWithoutPhone(t *testing.T) {
	if got := CartLink("n/a", CartMessage{}); got != "" {
		t.Fatalf("expected no link, got %s", got)
	}
}

func TestCartMessageItemized(t *testing.T) {
	msg := CartMessage{
		Lines: []domain.CartLine{
			{Name: "Dress A", Price: "$20", Size: "M", Color: "Red", Qty: 2, Note: "short", ProductURL: "https://shop/p/1"},
			{Name: "Ring", Qty: 1},
		},
		Count:         3,
		Subtotal:      40,
		CurrencyLabel: "USD",
		WholesaleAt:   3,
	}
	text := decodeText(t, CartLink("963900000000", msg))

	for _, want := range []string{
		"1) Dress A", "السعر: $20", "المقاس: M", "اللون: Red", "الكمية: 2", "ملاحظة: short", "رابط: https://shop/p/1",
		"2) Ring", "عدد القطع: 3", "(3)", "المجموع: 40.00 USD",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("message missing %q:\n%s", want, text)
		}
	}
	ringPart := text[strings.Index(text, "2) Ring"):]
	if strings.Contains(ringPart, "السعر") {
		t.Fatalf("optional fields must be skipped for Ring:\n%s", ringPart)
	}
}

func TestCartMessageWholesaleNoticeThreshold(t *testing.T) {
	base := CartMessage{Lines: []domain.CartLine{{Name: "A", Qty: 2}}, Count: 2, CurrencyLabel: "USD"}

	below := base
	below.WholesaleAt = 3
	if strings.Contains(below.Text(), "الجملة") {
		t.Fatalf("unexpected wholesale notice below threshold")
	}

	disabled := base
	if strings.Contains(disabled.Text(), "الجملة") {
		t.Fatalf("unexpected wholesale notice with no threshold")
	}
}

func TestCartMessageEmpty(t *testing.T) {
	text := CartMessage{CurrencyLabel: "USD"}.Text()
	if !strings.Contains(text, "السلة فارغة.") || strings.Contains(text, "المجموع") {
		t.Fatalf("unexpected empty message:\n%s", text)
	}
}
