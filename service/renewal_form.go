package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"renewals-authorization/models"
	"renewals-authorization/pricing"
	"renewals-authorization/repository"
	"renewals-authorization/utils"
)

// Line item fields accepted by UpdateItem
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldPrice       = "price"
)

// DefaultSearchLimit is the number of orders returned by a search
const DefaultSearchLimit = 10

// cartBadgeLength is how many trailing characters of a cart id the summary shows
const cartBadgeLength = 6

// RenewalForm holds the state of one operator's renewal in progress and
// performs the search, import and submit actions against the document store.
//
// State is guarded by mu, which is never held across a store call. The loading
// flag marks an outstanding store call; a second store action started while it
// is set fails with ErrBusy. Local edits are allowed while loading.
type RenewalForm struct {
	store       repository.DocumentStoreInterface
	engine      *pricing.Engine
	logger      *zap.Logger
	searchLimit int
	now         func() time.Time

	mu                  sync.Mutex
	loading             bool
	searchQuery         string
	cartURL             string
	effectiveDate       string
	supersededDocNumber string
	discountCode        string
	foundOrders         []models.OrderSummary
	selectedOrder       *models.OrderSummary
	importedCart        *models.CartData
	additionalItems     []models.AdditionalLineItem
	totals              models.RenewalTotals
}

// FormConfig tunes a RenewalForm. Zero values select the defaults.
type FormConfig struct {
	SearchLimit int
	Now         func() time.Time
}

// NewRenewalForm creates an empty renewal form
func NewRenewalForm(store repository.DocumentStoreInterface, engine *pricing.Engine, logger *zap.Logger, cfg FormConfig) *RenewalForm {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &RenewalForm{
		store:       store,
		engine:      engine,
		logger:      logger,
		searchLimit: cfg.SearchLimit,
		now:         cfg.Now,
	}
}

// SetSearchQuery sets the order search text
func (f *RenewalForm) SetSearchQuery(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQuery = q
}

// SetCartURL sets the cart URL to import from
func (f *RenewalForm) SetCartURL(u string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartURL = u
}

// SetEffectiveDate sets the renewal effective date
func (f *RenewalForm) SetEffectiveDate(d string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.effectiveDate = d
}

// SetSupersededDocNumber sets the number of the document this renewal supersedes
func (f *RenewalForm) SetSupersededDocNumber(n string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supersededDocNumber = n
}

// SetDiscountCode records a discount code. The code is stored on the order
// but does not change the computed totals.
func (f *RenewalForm) SetDiscountCode(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discountCode = code
}

// beginRemote marks a store call as outstanding
func (f *RenewalForm) beginRemote() error {
	if f.loading {
		return ErrBusy
	}
	f.loading = true
	return nil
}

func (f *RenewalForm) endRemote() {
	f.mu.Lock()
	f.loading = false
	f.mu.Unlock()
}

// Search replaces the found orders with the newest orders matching the search query.
// An empty query does nothing. Store failures are logged and leave the results
// unchanged; they are not reported to the caller.
func (f *RenewalForm) Search(ctx context.Context) error {
	f.mu.Lock()
	query := strings.TrimSpace(f.searchQuery)
	if query == "" {
		f.mu.Unlock()
		return nil
	}
	if err := f.beginRemote(); err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()
	defer f.endRemote()

	orders, err := f.store.SearchOrders(ctx, query, f.searchLimit)
	if err != nil {
		f.logger.Error("Search: error searching orders", zap.String("query", query), zap.Error(err))
		return nil
	}

	f.mu.Lock()
	f.foundOrders = orders
	f.mu.Unlock()

	f.logger.Info("🔍 Search: found orders", zap.String("query", query), zap.Int("count", len(orders)))
	return nil
}

// SelectOrder selects one of the found orders as the renewal source.
// An empty id clears the selection.
func (f *RenewalForm) SelectOrder(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id == "" {
		f.selectedOrder = nil
		return nil
	}
	for _, o := range f.foundOrders {
		if o.ID == id {
			selected := o
			f.selectedOrder = &selected
			return nil
		}
	}
	return newValidationError(MsgOrderNotInResults)
}

// ImportCart fetches the cart referenced by the cart URL and makes it the imported cart.
// An empty URL does nothing. A URL without a cart parameter is rejected without
// contacting the store. Every call re-fetches.
func (f *RenewalForm) ImportCart(ctx context.Context) (*models.CartData, error) {
	f.mu.Lock()
	rawURL := f.cartURL
	if strings.TrimSpace(rawURL) == "" {
		f.mu.Unlock()
		return nil, nil
	}
	cartID, ok := ExtractCartID(rawURL)
	if !ok {
		f.mu.Unlock()
		return nil, newValidationError(MsgInvalidCartURL)
	}
	if err := f.beginRemote(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.mu.Unlock()
	defer f.endRemote()

	cart, err := f.store.GetCart(ctx, cartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			f.logger.Info("ImportCart: cart not found", zap.String("cartId", cartID))
			return nil, newValidationError(MsgCartNotFound)
		}
		f.logger.Error("ImportCart: error importing cart", zap.String("cartId", cartID), zap.Error(err))
		return nil, &RemoteError{Message: MsgImportFailed, Err: err}
	}

	f.mu.Lock()
	totals := f.engine.CalculateTotals(cart, f.additionalItems)
	if !pricing.Finite(totals) {
		f.mu.Unlock()
		f.logger.Warn("ImportCart: cart totals out of range", zap.String("cartId", cart.ID))
		return nil, newValidationError(MsgCartOutOfRange)
	}
	f.importedCart = cart
	f.totals = totals
	f.mu.Unlock()

	f.logger.Info("📦 ImportCart: imported cart", zap.String("cartId", cart.ID), zap.Int("items", len(cart.Items)))
	return cart, nil
}

// AddItem appends a blank additional line item and returns its position
func (f *RenewalForm) AddItem() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.additionalItems = append(f.additionalItems, models.AdditionalLineItem{Quantity: 1})
	f.recalculate()
	return len(f.additionalItems) - 1
}

// UpdateItem sets one field of the item currently at index.
// Quantity and price input is coerced with NormalizeQuantity and NormalizePrice.
// An edit whose line amount exceeds MaxLineAmount, or that would push the totals
// outside the float64 range, is rejected and the item keeps its previous value.
func (f *RenewalForm) UpdateItem(index int, field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.additionalItems) {
		return newValidationError(fmt.Sprintf("No line item at position %d", index))
	}

	item := f.additionalItems[index]
	switch field {
	case FieldTitle:
		item.Title = value
	case FieldDescription:
		item.Description = value
	case FieldQuantity:
		item.Quantity = NormalizeQuantity(value)
	case FieldPrice:
		item.Price = NormalizePrice(value)
	default:
		return newValidationError(fmt.Sprintf("Unknown line item field %q", field))
	}
	if !LineAmountInRange(item.Price, item.Quantity) {
		return newValidationError(MsgAmountOutOfRange)
	}

	items := append([]models.AdditionalLineItem(nil), f.additionalItems...)
	items[index] = item
	totals := f.engine.CalculateTotals(f.importedCart, items)
	if !pricing.Finite(totals) {
		return newValidationError(MsgAmountOutOfRange)
	}

	f.additionalItems = items
	f.totals = totals
	return nil
}

// RemoveItem removes the item currently at index; later items move up one position
func (f *RenewalForm) RemoveItem(index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if index < 0 || index >= len(f.additionalItems) {
		return newValidationError(fmt.Sprintf("No line item at position %d", index))
	}

	items := make([]models.AdditionalLineItem, 0, len(f.additionalItems)-1)
	items = append(items, f.additionalItems[:index]...)
	items = append(items, f.additionalItems[index+1:]...)
	f.additionalItems = items

	f.recalculate()
	return nil
}

// recalculate recomputes the totals; callers hold mu
func (f *RenewalForm) recalculate() {
	f.totals = f.engine.CalculateTotals(f.importedCart, f.additionalItems)
}

// Submit creates the renewal order in the document store.
// Either a selected order or an imported cart is required. On success the form
// is reset; on failure it is left as is so the operator can retry.
func (f *RenewalForm) Submit(ctx context.Context) (*models.OrderDocument, error) {
	f.mu.Lock()
	if f.selectedOrder == nil && f.importedCart == nil {
		f.mu.Unlock()
		return nil, newValidationError(MsgNothingToRenew)
	}
	if err := f.beginRemote(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	doc := f.buildOrder()
	f.mu.Unlock()
	defer f.endRemote()

	created, err := f.store.CreateOrder(ctx, doc)
	if err != nil {
		f.logger.Error("Submit: error creating renewal order", zap.String("orderNumber", doc.OrderNumber), zap.Error(err))
		return nil, &RemoteError{Message: MsgCreateFailed, Err: err}
	}

	f.mu.Lock()
	f.reset()
	f.mu.Unlock()

	f.logger.Info("✅ Submit: renewal order created",
		zap.String("id", created.ID),
		zap.String("orderNumber", created.OrderNumber),
		zap.String("total", utils.FormatUSD(created.Pricing.Total)))
	return created, nil
}

// buildOrder assembles the renewal order document; callers hold mu.
// Items, customer and pricing come from the imported cart only. A renewal of a
// selected order without a cart carries no items and no customer.
func (f *RenewalForm) buildOrder() *models.OrderDocument {
	doc := &models.OrderDocument{
		Type:              models.DocTypeOrder,
		OrderType:         models.OrderTypeRenewal,
		OrderNumber:       RenewalOrderNumber(f.now()),
		RenewalInfo:       &models.RenewalInfo{EffectiveDate: f.effectiveDate, SupersededDocNumber: f.supersededDocNumber},
		Items:             []map[string]interface{}{},
		Pricing:           f.totals,
		Status:            models.StatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		FulfillmentStatus: models.FulfillmentStatusUnfulfilled,
		DiscountCode:      f.discountCode,
	}

	if f.selectedOrder != nil {
		doc.OriginalOrderRef = &models.DocumentRef{Ref: f.selectedOrder.ID}
	}

	if f.importedCart != nil {
		if f.importedCart.Items != nil {
			doc.Items = append(doc.Items, f.importedCart.Items...)
		}
		if c := f.importedCart.Customer; c != nil {
			doc.Customer = &models.Customer{
				FirstName: c.FirstName,
				LastName:  c.LastName,
				Email:     c.Email,
				Company:   c.Company,
			}
		}
	}

	if len(f.additionalItems) > 0 {
		doc.AdditionalLineItems = append([]models.AdditionalLineItem(nil), f.additionalItems...)
	}

	return doc
}

// Reset clears every field back to its initial empty value
func (f *RenewalForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
}

// reset clears the form; callers hold mu. The loading flag is owned by the
// action in flight and is left alone.
func (f *RenewalForm) reset() {
	f.searchQuery = ""
	f.cartURL = ""
	f.effectiveDate = ""
	f.supersededDocNumber = ""
	f.discountCode = ""
	f.foundOrders = nil
	f.selectedOrder = nil
	f.importedCart = nil
	f.additionalItems = nil
	f.recalculate()
}

// Loading reports whether a store action is in flight
func (f *RenewalForm) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// State returns a snapshot of the form
func (f *RenewalForm) State() models.RenewalFormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state()
}

// Snapshot returns the state and its summary taken under one lock,
// so both describe the same moment.
func (f *RenewalForm) Snapshot() (models.RenewalFormState, models.RenewalSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state(), f.summary()
}

// state builds the state snapshot; callers hold mu
func (f *RenewalForm) state() models.RenewalFormState {
	state := models.RenewalFormState{
		Loading:             f.loading,
		SearchQuery:         f.searchQuery,
		CartURL:             f.cartURL,
		EffectiveDate:       f.effectiveDate,
		SupersededDocNumber: f.supersededDocNumber,
		DiscountCode:        f.discountCode,
		FoundOrders:         append([]models.OrderSummary{}, f.foundOrders...),
		AdditionalItems:     append([]models.AdditionalLineItem{}, f.additionalItems...),
		ImportedCart:        f.importedCart,
		Totals:              f.totals,
	}
	if f.selectedOrder != nil {
		selected := *f.selectedOrder
		state.SelectedOrder = &selected
	}
	return state
}

// Totals returns the current renewal totals
func (f *RenewalForm) Totals() models.RenewalTotals {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totals
}

// Summary renders the display-ready summary of the renewal in progress
func (f *RenewalForm) Summary() models.RenewalSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary()
}

// summary builds the display summary; callers hold mu
func (f *RenewalForm) summary() models.RenewalSummary {
	summary := models.RenewalSummary{
		SupersededDocNumber: f.supersededDocNumber,
		Subtotal:            utils.FormatUSD(f.totals.Subtotal),
		Tax:                 utils.FormatUSD(f.totals.Tax),
		Total:               utils.FormatUSD(f.totals.Total),
		CanSubmit:           !f.loading && (f.selectedOrder != nil || f.importedCart != nil),
	}
	if f.totals.Discount > 0 {
		summary.Discount = "-" + utils.FormatUSD(f.totals.Discount)
	}
	if f.effectiveDate != "" {
		summary.EffectiveDate = utils.FormatDate(f.effectiveDate)
	}
	if f.selectedOrder != nil {
		summary.SelectedOrderNumber = f.selectedOrder.OrderNumber
	}
	if f.importedCart != nil {
		id := f.importedCart.ID
		if len(id) > cartBadgeLength {
			id = id[len(id)-cartBadgeLength:]
		}
		summary.CartBadge = id
		if c := f.importedCart.Customer; c != nil {
			customer := *c
			summary.Customer = &customer
		}
	}
	return summary
}
