package order

import (
	"context"
	"log"
	"sync"

	"boutique-storefront/internal/domain"
	"boutique-storefront/internal/service/cart"
	"boutique-storefront/internal/storeapi"
	"boutique-storefront/internal/whatsapp"
)

type State string

const (
	StateIdle     State = "idle"
	StatePlacing  State = "placing"
	StateSuccess  State = "success"
	StateConflict State = "conflict"
	StateFatal    State = "fatal"
)

const (
	DefaultConflictMessage = "خطأ في الطلب, المنتجات المذكورة غير متاحة حاليا هل تود الطلب بدونها"
	FatalOrderNotice       = "صار خطأ أثناء إرسال الطلب. حاول مرة ثانية."
	FatalReorderNotice     = "صار خطأ أثناء متابعة الطلب. حاول مرة ثانية."
)

// API is the remote order endpoint pair.
type API interface {
	CreateOrder(ctx context.Context, payload domain.OrderPayload) (*domain.OrderAck, error)
	Reorder(ctx context.Context, key string) (*domain.OrderAck, error)
}

type cartState interface {
	Lines() []domain.CartLine
	Len() int
	Clear(ctx context.Context)
	RemoveByKeys(ctx context.Context, keys []string)
}

// Navigator performs the external navigation to the confirmation link.
type Navigator interface {
	Open(link string)
}

// Notifier surfaces a generic failure notice to the user.
type Notifier interface {
	Notify(notice string)
}

type NavigatorFunc func(link string)

func (f NavigatorFunc) Open(link string) { f(link) }

type NotifierFunc func(notice string)

func (f NotifierFunc) Notify(notice string) { f(notice) }

// LinkSettings configures the confirmation link.
type LinkSettings struct {
	WhatsAppNumber string
	CurrencyLabel  string
	WholesaleAt    int
}

// Outcome reports how one order action ended.
type Outcome struct {
	State    State                 `json:"state"`
	DeepLink string                `json:"deepLink,omitempty"`
	Conflict *domain.OrderConflict `json:"conflict,omitempty"`
}

// Prompt is the view model of the unavailable-products recovery prompt.
type Prompt struct {
	Open     bool   `json:"open"`
	Message  string `json:"message"`
	Products string `json:"products,omitempty"`
	Loading  bool   `json:"loading"`
}

type Deps struct {
	API       API
	Cart      cartState
	Navigator Navigator
	Notifier  Notifier
	Settings  func(ctx context.Context) LinkSettings
	Logger    *log.Logger
}

// Flow places the order of one cart. At most one submission and one reorder
// are in flight per Flow.
type Flow struct {
	deps Deps

	mu         sync.Mutex
	placing    bool
	reordering bool
	promptOpen bool
	conflict   *domain.OrderConflict
}

func NewFlow(deps Deps) *Flow {
	return &Flow{deps: deps}
}

// CanOrder reports whether PlaceOrder would start a submission.
func (f *Flow) CanOrder() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.placing && f.deps.Cart.Len() > 0
}

func (f *Flow) Placing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.placing
}

// PlaceOrder submits the cart. An empty cart or a submission already in
// flight makes it a no-op returning StateIdle. Remote failures never escape:
// they are reported through the Outcome.
func (f *Flow) PlaceOrder(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.placing || f.deps.Cart.Len() == 0 {
		f.mu.Unlock()
		return Outcome{State: StateIdle}
	}
	f.placing = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.placing = false
		f.mu.Unlock()
	}()

	// The submission cannot be aborted once started.
	ctx = context.WithoutCancel(ctx)

	snapshot := f.deps.Cart.Lines()
	_, err := f.deps.API.CreateOrder(ctx, BuildPayload(snapshot))
	if err == nil {
		f.deps.Cart.Clear(ctx)
		return Outcome{State: StateSuccess, DeepLink: f.navigate(ctx, snapshot)}
	}

	if conflict, ok := storeapi.AsConflict(err); ok {
		f.mu.Lock()
		f.conflict = conflict
		f.promptOpen = true
		f.mu.Unlock()
		f.logf("order rejected, unavailable: %q", conflict.Products)
		return Outcome{State: StateConflict, Conflict: conflict}
	}

	f.logf("order failed: %v", err)
	f.notify(FatalOrderNotice)
	return Outcome{State: StateFatal}
}

// ContinueWithoutUnavailable reorders the rejected attempt; the API drops the
// unavailable products and the confirmation link leaves them out too.
func (f *Flow) ContinueWithoutUnavailable(ctx context.Context) Outcome {
	f.mu.Lock()
	if f.conflict == nil || f.conflict.Key == "" || f.reordering {
		f.mu.Unlock()
		return Outcome{State: StateIdle}
	}
	f.reordering = true
	conflict := *f.conflict
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.reordering = false
		f.mu.Unlock()
	}()

	ctx = context.WithoutCancel(ctx)

	snapshot := f.deps.Cart.Lines()
	if _, err := f.deps.API.Reorder(ctx, conflict.Key); err != nil {
		f.logf("reorder %s failed: %v", conflict.Key, err)
		f.notify(FatalReorderNotice)
		return Outcome{State: StateFatal, Conflict: &conflict}
	}

	names := ParseUnavailableNames(conflict.Products)
	kept := snapshot
	if len(names) > 0 {
		kept = WithoutUnavailable(snapshot, names)
		if keys := UnavailableKeys(snapshot, names); len(keys) > 0 {
			f.deps.Cart.RemoveByKeys(ctx, keys)
		}
	}
	f.deps.Cart.Clear(ctx)
	link := f.navigate(ctx, kept)

	f.mu.Lock()
	f.promptOpen = false
	f.conflict = nil
	f.mu.Unlock()

	return Outcome{State: StateSuccess, DeepLink: link}
}

// CancelPrompt closes the recovery prompt and leaves the cart as it is. It
// refuses while a reorder is in flight.
func (f *Flow) CancelPrompt() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reordering {
		return false
	}
	f.promptOpen = false
	return true
}

func (f *Flow) Prompt() Prompt {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := Prompt{Open: f.promptOpen, Message: DefaultConflictMessage, Loading: f.reordering}
	if f.conflict != nil {
		if f.conflict.Message != "" {
			p.Message = f.conflict.Message
		}
		p.Products = f.conflict.Products
	}
	return p
}

func (f *Flow) navigate(ctx context.Context, lines []domain.CartLine) string {
	var settings LinkSettings
	if f.deps.Settings != nil {
		settings = f.deps.Settings(ctx)
	}
	link := whatsapp.CartLink(settings.WhatsAppNumber, whatsapp.CartMessage{
		Lines:         lines,
		Count:         cart.Count(lines),
		Subtotal:      cart.Subtotal(lines),
		CurrencyLabel: settings.CurrencyLabel,
		WholesaleAt:   settings.WholesaleAt,
	})
	if link == "" {
		f.logf("no whatsapp number configured, skipping confirmation link")
		return ""
	}
	if f.deps.Navigator != nil {
		f.deps.Navigator.Open(link)
	}
	return link
}

func (f *Flow) notify(notice string) {
	if f.deps.Notifier != nil {
		f.deps.Notifier.Notify(notice)
	}
}

func (f *Flow) logf(format string, args ...interface{}) {
	if f.deps.Logger != nil {
		f.deps.Logger.Printf(format, args...)
	}
}
