package cart

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"boutique-storefront/internal/domain"
	"boutique-storefront/internal/repository/cartblob"
)

type stubPersister struct {
	loaded   []domain.CartLine
	saves    [][]domain.CartLine
	saveErr  error
	loadHits int
}

func (s *stubPersister) Load(_ context.Context) []domain.CartLine {
	s.loadHits++
	return s.loaded
}

func (s *stubPersister) Save(_ context.Context, lines []domain.CartLine) error {
	cp := make([]domain.CartLine, len(lines))
	copy(cp, lines)
	s.saves = append(s.saves, cp)
	return s.saveErr
}

func hydrated(t *testing.T, p Persister) *Container {
	t.Helper()
	c := New(nil)
	c.Hydrate(context.Background(), p)
	return c
}

func TestAddItemMergesByKey(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})

	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Name: "Dress", Size: "M", Color: "Red", Qty: 1})
	c.AddItem(ctx, domain.LineInput{ProductID: "p1", Name: "Dress", Size: "m", Color: "RED", Qty: 2})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Name: "Dress", Size: "M", Color: "Red", Qty: 4})

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %+v", lines)
	}
	if lines[0].Qty != 7 || lines[0].Key != "p1|m|red" {
		t.Fatalf("unexpected line %+v", lines[0])
	}
	if !c.Snapshot().IsOpen {
		t.Fatalf("expected AddItem to open the cart")
	}
}

func TestDifferentSizesStaySeparate(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Size: "M", Color: "Red", Qty: 1})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Size: "L", Color: "Red", Qty: 1})

	lines := c.Lines()
	if len(lines) != 2 || lines[0].Key == lines[1].Key {
		t.Fatalf("expected two distinct lines, got %+v", lines)
	}
	if lines[0].Size != "M" || lines[1].Size != "L" {
		t.Fatalf("expected insertion order, got %+v", lines)
	}
}

func TestAddItemTrimsNote(t *testing.T) {
	c := hydrated(t, &stubPersister{})
	c.AddItem(context.Background(), domain.LineInput{ProductID: "P1", Qty: 1, Note: "   "})
	if got := c.Lines()[0].Note; got != "" {
		t.Fatalf("expected empty note, got %q", got)
	}
}

func TestSetQtyClampsToOne(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 3})
	key := c.Lines()[0].Key

	for _, q := range []int{0, -1, -100} {
		c.SetQty(ctx, key, q)
		if got := c.Lines()[0].Qty; got != 1 {
			t.Fatalf("SetQty(%d) stored %d", q, got)
		}
	}
	c.SetQty(ctx, key, 5)
	if got := c.Lines()[0].Qty; got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestSetQtyUnknownKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 2})
	before := c.Lines()
	c.SetQty(ctx, "missing", 9)
	if !reflect.DeepEqual(before, c.Lines()) {
		t.Fatalf("cart changed on unknown key")
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 1})
	c.AddItem(ctx, domain.LineInput{ProductID: "P2", Qty: 1})
	before := c.Lines()

	c.RemoveItem(ctx, "nope")
	if !reflect.DeepEqual(before, c.Lines()) {
		t.Fatalf("removing unknown key changed cart")
	}

	c.RemoveItem(ctx, before[0].Key)
	c.RemoveItem(ctx, before[0].Key)
	lines := c.Lines()
	if len(lines) != 1 || lines[0].ProductID != "P2" {
		t.Fatalf("unexpected lines %+v", lines)
	}
}

func TestRemoveByKeys(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	for _, id := range []string{"A", "B", "C"} {
		c.AddItem(ctx, domain.LineInput{ProductID: id, Qty: 1})
	}
	c.RemoveByKeys(ctx, []string{domain.LineKey("A", "", ""), domain.LineKey("C", "", "")})
	lines := c.Lines()
	if len(lines) != 1 || lines[0].ProductID != "B" {
		t.Fatalf("unexpected lines %+v", lines)
	}
}

func TestCountAndSubtotal(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Price: "$12.50", Qty: 2})
	c.AddItem(ctx, domain.LineInput{ProductID: "P2", Price: "7 USD", Qty: 3})
	c.AddItem(ctx, domain.LineInput{ProductID: "P3", Price: "ask us", Qty: 4})

	if got := c.Count(); got != 9 {
		t.Fatalf("expected count 9, got %d", got)
	}
	if got := c.Subtotal(); got != 46 {
		t.Fatalf("expected subtotal 46, got %v", got)
	}
	snap := c.Snapshot()
	if snap.Count != 9 || snap.Subtotal != 46 {
		t.Fatalf("snapshot aggregates mismatch %+v", snap)
	}
}

func TestIsWholesale(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 10})
	if !c.IsWholesale(10) {
		t.Fatalf("expected wholesale at threshold")
	}
	if c.IsWholesale(11) || c.IsWholesale(0) {
		t.Fatalf("unexpected wholesale")
	}
}

func TestHydrateOnceAndPersistEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := &stubPersister{loaded: []domain.CartLine{{Key: "p1||", ProductID: "P1", Name: "Dress", Qty: 2}}}
	c := New(nil)

	if c.Count() != 0 || c.Hydrated() {
		t.Fatalf("container must start empty")
	}

	c.Hydrate(ctx, p)
	c.Hydrate(ctx, &stubPersister{loaded: []domain.CartLine{{Key: "x", Qty: 9}}})
	if p.loadHits != 1 || c.Count() != 2 {
		t.Fatalf("expected single hydrate, loads=%d count=%d", p.loadHits, c.Count())
	}
	if len(p.saves) != 0 {
		t.Fatalf("hydrate must not write")
	}

	c.AddItem(ctx, domain.LineInput{ProductID: "P2", Qty: 1})
	c.SetQty(ctx, "p1||", 4)
	c.RemoveItem(ctx, "p2||")
	c.Clear(ctx)

	if len(p.saves) != 4 {
		t.Fatalf("expected 4 saves, got %d", len(p.saves))
	}
	if len(p.saves[1]) != 2 || p.saves[1][0].Qty != 4 {
		t.Fatalf("save did not carry full list: %+v", p.saves[1])
	}
	if len(p.saves[3]) != 0 {
		t.Fatalf("expected cleared cart persisted, got %+v", p.saves[3])
	}
}

func TestMutationsBeforeHydrateAreNotPersisted(t *testing.T) {
	ctx := context.Background()
	c := New(nil)
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 1})

	p := &stubPersister{}
	c.Hydrate(ctx, p)
	if len(p.saves) != 0 {
		t.Fatalf("unexpected saves %+v", p.saves)
	}
	if c.Count() != 0 {
		t.Fatalf("hydrated state must replace the default state")
	}
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{saveErr: errors.New("disk full")})
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 1})
	if c.Count() != 1 {
		t.Fatalf("expected in-memory line to survive persist failure")
	}
}

func TestHydrateSanitizesStoredLines(t *testing.T) {
	p := &stubPersister{loaded: []domain.CartLine{
		{ProductID: "P1", Size: "M", Qty: 0},
		{Key: "p1|m|", ProductID: "P1", Size: "M", Qty: 2},
	}}
	c := hydrated(t, p)
	lines := c.Lines()
	if len(lines) != 1 || lines[0].Key != "p1|m|" || lines[0].Qty != 3 {
		t.Fatalf("unexpected sanitized lines %+v", lines)
	}
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	ctx := context.Background()
	c := hydrated(t, &stubPersister{})

	var got []Snapshot
	unsubscribe := c.Subscribe(func(s Snapshot) { got = append(got, s) })

	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Qty: 2})
	c.Close()
	c.Close()
	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0].Count != 2 || !got[0].IsOpen {
		t.Fatalf("unexpected first snapshot %+v", got[0])
	}
	if got[1].IsOpen {
		t.Fatalf("expected closed snapshot")
	}

	got[0].Lines[0].Qty = 99
	if c.Lines()[0].Qty != 2 {
		t.Fatalf("snapshot shares memory with container")
	}

	unsubscribe()
	unsubscribe()
	c.Clear(ctx)
	if len(got) != 2 {
		t.Fatalf("expected no notification after unsubscribe, got %d", len(got))
	}
	if c.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", c.Subscribers())
	}
}

func TestSanitizeRecomputesStaleKeys(t *testing.T) {
	ctx := context.Background()
	p := &stubPersister{loaded: []domain.CartLine{
		{Key: "P1|M|Red", ProductID: "P1", Size: "M", Color: "Red", Qty: 1},
	}}
	c := hydrated(t, p)
	c.AddItem(ctx, domain.LineInput{ProductID: "P1", Size: "m", Color: "RED", Qty: 2})

	lines := c.Lines()
	if len(lines) != 1 || lines[0].Key != "p1|m|red" || lines[0].Qty != 3 {
		t.Fatalf("expected stale key merged with new line, got %+v", lines)
	}
}

func TestRoundTripThroughAccessor(t *testing.T) {
	ctx := context.Background()
	store := cartblob.NewMemory()
	acc := cartblob.NewAccessor(store, cartblob.StorageKey("senora_cart_v1", "s1"), nil)

	first := hydrated(t, acc)
	first.AddItem(ctx, domain.LineInput{ProductID: "P1", Name: "Dress", Price: "$10", Size: "M", Qty: 2, Note: " hem "})
	first.AddItem(ctx, domain.LineInput{ProductID: "P2", Name: "Ring", Color: "Gold", Qty: 1})
	first.AddItem(ctx, domain.LineInput{ProductID: "P3", Name: "Scarf", Qty: 1})
	first.SetQty(ctx, domain.LineKey("P2", "", "Gold"), 3)
	first.RemoveItem(ctx, domain.LineKey("P3", "", ""))

	second := hydrated(t, cartblob.NewAccessor(store, acc.Key(), nil))
	if !reflect.DeepEqual(first.Lines(), second.Lines()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", second.Lines(), first.Lines())
	}
}
