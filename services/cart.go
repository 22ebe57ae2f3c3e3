package services

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"tintpro-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// View is the booking flow state.
type View string

const (
	ViewSelection View = "selection"
	ViewBooking   View = "booking"
)

const storeTimeout = 2 * time.Second

// CartDeps are the collaborators shared by every cart.
type CartDeps struct {
	Catalog        Catalog
	Store          Store
	Namespace      string
	BookingBaseURL string
	Match          MatchFunc
	Notifier       Notifier
	Logger         *zap.Logger
	NewUID         func() string
	Now            func() time.Time
}

func (d CartDeps) withDefaults() CartDeps {
	if d.Store == nil {
		d.Store = NewMemoryStore()
	}
	if d.Namespace == "" {
		d.Namespace = "tint"
	}
	if d.Match == nil {
		d.Match = MatchByIDOrName
	}
	if d.Notifier == nil {
		d.Notifier = NopNotifier{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.NewUID == nil {
		d.NewUID = uuid.NewString
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// BookingCart is one visitor's selection workflow. Catalog fetches run
// outside the lock; a fetch result is applied only while its generation is
// still the latest.
type BookingCart struct {
	deps      CartDeps
	sessionID string
	keys      stateKeys

	mu         sync.Mutex
	view       View
	vehicle    models.VehicleCategory
	mode       models.ServiceMode
	cart       []models.CartItem
	available  []models.ServiceItem
	loading    bool
	generation uint64
	lastSeen   time.Time
}

// CartState is a point-in-time copy of a cart for rendering.
type CartState struct {
	View            View                   `json:"view"`
	VehicleCategory models.VehicleCategory `json:"vehicleCategory"`
	ServiceMode     models.ServiceMode     `json:"serviceMode"`
	Cart            []models.CartItem      `json:"cart"`
	Total           float64                `json:"total"`
	Loading         bool                   `json:"loading"`
	CarbonServices  []models.ServiceItem   `json:"carbonServices"`
	CeramicServices []models.ServiceItem   `json:"ceramicServices"`
	BookingURL      string                 `json:"bookingUrl,omitempty"`
}

// NewBookingCart rehydrates a session from the store. Unreadable or invalid
// fields fall back to the defaults.
func NewBookingCart(ctx context.Context, deps CartDeps, sessionID string) *BookingCart {
	deps = deps.withDefaults()
	sel := models.DefaultSelection()
	c := &BookingCart{
		deps:      deps,
		sessionID: sessionID,
		keys:      newStateKeys(deps.Namespace, sessionID),
		view:      ViewSelection,
		vehicle:   sel.VehicleCategory,
		mode:      sel.ServiceMode,
		cart:      sel.Cart,
		available: []models.ServiceItem{},
		lastSeen:  deps.Now(),
	}

	if v, ok := c.load(ctx, c.keys.vehicle); ok && models.VehicleCategory(v).Valid() {
		c.vehicle = models.VehicleCategory(v)
	}
	if v, ok := c.load(ctx, c.keys.mode); ok && models.ServiceMode(v).Valid() {
		c.mode = models.ServiceMode(v)
	}
	if v, ok := c.load(ctx, c.keys.cart); ok {
		c.cart = models.DecodeCart(v)
	}
	return c
}

// Refresh fetches the catalog for the current vehicle without touching the
// cart. Used after rehydration.
func (c *BookingCart) Refresh(ctx context.Context) {
	c.mu.Lock()
	gen, vehicle := c.beginFetchLocked()
	c.mu.Unlock()

	c.fetch(ctx, gen, vehicle)
}

// SetVehicleCategory switches the vehicle, clears the cart and loads the
// matching catalog. It returns once this request's fetch has resolved.
func (c *BookingCart) SetVehicleCategory(ctx context.Context, vehicle models.VehicleCategory) error {
	if !vehicle.Valid() {
		return ErrInvalidVehicle
	}

	c.mu.Lock()
	c.vehicle = vehicle
	c.cart = []models.CartItem{}
	c.persistLocked(c.keys.vehicle, string(vehicle))
	c.persistCartLocked()
	gen, _ := c.beginFetchLocked()
	c.mu.Unlock()

	c.fetch(ctx, gen, vehicle)
	return nil
}

func (c *BookingCart) SetServiceMode(mode models.ServiceMode) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	c.mode = mode
	c.persistLocked(c.keys.mode, string(mode))
	return nil
}

// ToggleItem removes the matching cart entry or adds item with a new uid.
// It reports whether the item is in the cart afterwards.
func (c *BookingCart) ToggleItem(item models.ServiceItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toggleLocked(item)
}

// ToggleAvailable resolves ref against the current catalog and toggles
// the catalog entry. Only id, or name and category, of ref are used.
func (c *BookingCart) ToggleAvailable(ref models.ServiceItem) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.available {
		if matchesRequest(item, ref) {
			return c.toggleLocked(item), nil
		}
	}
	return false, ErrUnknownItem
}

func (c *BookingCart) toggleLocked(item models.ServiceItem) bool {
	c.touchLocked()

	added := true
	next := make([]models.CartItem, 0, len(c.cart)+1)
	for _, existing := range c.cart {
		if c.deps.Match(existing.ServiceItem, item) {
			added = false
			continue
		}
		next = append(next, existing)
	}
	if added {
		next = append(next, models.CartItem{ServiceItem: item, UID: c.deps.NewUID()})
	}

	c.cart = next
	c.persistCartLocked()
	return added
}

func (c *BookingCart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *BookingCart) totalLocked() float64 {
	var total float64
	for _, item := range c.cart {
		total += item.SafePrice()
	}
	return total
}

// ProceedToBooking hands off to the external booking page. With an empty
// cart it does nothing and reports false.
func (c *BookingCart) ProceedToBooking() (string, bool) {
	c.mu.Lock()
	c.touchLocked()
	if len(c.cart) == 0 {
		c.mu.Unlock()
		return "", false
	}
	c.view = ViewBooking
	bookingURL := c.bookingURLLocked()
	handoff := Handoff{
		SessionID:  c.sessionID,
		Vehicle:    c.vehicle,
		Mode:       c.mode,
		Items:      append([]models.CartItem(nil), c.cart...),
		Total:      c.totalLocked(),
		BookingURL: bookingURL,
	}
	c.mu.Unlock()

	go c.deps.Notifier.NotifyHandoff(handoff)
	return bookingURL, true
}

func (c *BookingCart) ReturnToSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
	c.view = ViewSelection
}

func (c *BookingCart) bookingURLLocked() string {
	return BuildBookingURL(c.deps.BookingBaseURL, c.cart)
}

// BuildBookingURL appends serviceId=<ref> for the first cart entry.
func BuildBookingURL(base string, cart []models.CartItem) string {
	if len(cart) == 0 || cart[0].ExternalBookingRef == nil || *cart[0].ExternalBookingRef == "" {
		return base
	}
	ref := *cart[0].ExternalBookingRef

	u, err := url.Parse(base)
	if err != nil {
		return base + "?serviceId=" + url.QueryEscape(ref)
	}
	q := u.Query()
	q.Set("serviceId", ref)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *BookingCart) State() CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()

	state := CartState{
		View:            c.view,
		VehicleCategory: c.vehicle,
		ServiceMode:     c.mode,
		Cart:            append([]models.CartItem{}, c.cart...),
		Total:           c.totalLocked(),
		Loading:         c.loading,
		CarbonServices:  models.FilterByCategory(c.available, models.TintCarbon),
		CeramicServices: models.FilterByCategory(c.available, models.TintCeramic),
	}
	if c.view == ViewBooking {
		state.BookingURL = c.bookingURLLocked()
	}
	return state
}

// AvailableServices is the catalog currently shown to the visitor.
func (c *BookingCart) AvailableServices() []models.ServiceItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ServiceItem{}, c.available...)
}

func (c *BookingCart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *BookingCart) LastSeen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

func (c *BookingCart) beginFetchLocked() (uint64, models.VehicleCategory) {
	c.touchLocked()
	c.generation++
	c.loading = true
	return c.generation, c.vehicle
}

func (c *BookingCart) fetch(ctx context.Context, gen uint64, vehicle models.VehicleCategory) {
	items := c.deps.Catalog.FetchServices(ctx, vehicle)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		c.deps.Logger.Debug("Discarding superseded catalog fetch",
			zap.String("session", c.sessionID), zap.String("vehicle", string(vehicle)))
		return
	}
	c.available = items
	c.loading = false
}

func (c *BookingCart) touchLocked() {
	c.lastSeen = c.deps.Now()
}

func (c *BookingCart) persistCartLocked() {
	raw, err := models.EncodeCart(c.cart)
	if err != nil {
		c.deps.Logger.Debug("Cart not persisted", zap.Error(err))
		return
	}
	c.persistLocked(c.keys.cart, raw)
}

// persistLocked writes one field. Store failures leave the session
// in-memory only.
func (c *BookingCart) persistLocked(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := c.deps.Store.Set(ctx, key, value); err != nil {
		c.deps.Logger.Debug("State not persisted", zap.String("key", key), zap.Error(err))
	}
}

func (c *BookingCart) load(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	v, err := c.deps.Store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			c.deps.Logger.Debug("State not restored", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return v, true
}
