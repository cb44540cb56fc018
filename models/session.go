package models

// ToolRegistration describes how a host studio mounts the renewals tool
type ToolRegistration struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// SessionResponse is returned by every renewal session endpoint
type SessionResponse struct {
	ID      string           `json:"id"`
	State   RenewalFormState `json:"state"`
	Summary RenewalSummary   `json:"summary"`
	Message string           `json:"message,omitempty"`
}

// SubmitResponse is returned after a renewal order has been created
type SubmitResponse struct {
	SessionResponse
	Order *OrderDocument `json:"order"`
}

// UpdateFieldsRequest sets the free-text fields of a renewal session.
// Fields left out of the body are not changed.
// Example: {"searchQuery": "ada", "effectiveDate": "2024-02-01"}
type UpdateFieldsRequest struct {
	SearchQuery         *string `json:"searchQuery,omitempty"`
	CartURL             *string `json:"cartUrl,omitempty"`
	EffectiveDate       *string `json:"effectiveDate,omitempty"`
	SupersededDocNumber *string `json:"supersededDocNumber,omitempty"`
	DiscountCode        *string `json:"discountCode,omitempty"`
}

// SearchRequest optionally carries a new search query.
// Example: {"query": "REN-17"}
type SearchRequest struct {
	Query *string `json:"query,omitempty"`
}

// ImportCartRequest optionally carries a new cart URL.
// Example: {"cartUrl": "https://shop.example.com/checkout?cart=abc123&x=1"}
type ImportCartRequest struct {
	CartURL *string `json:"cartUrl,omitempty"`
}

// SelectOrderRequest selects one of the found orders; an empty id clears the selection.
// Example: {"orderId": "order-123"}
type SelectOrderRequest struct {
	OrderID string `json:"orderId"`
}

// UpdateItemRequest updates one field of an additional line item.
// field is one of title, description, quantity, price; value is the raw input.
// Example: {"field": "quantity", "value": "3"}
type UpdateItemRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SeedFile is the fixture format accepted by the seed command
type SeedFile struct {
	Carts  []CartData      `json:"carts"`
	Orders []OrderDocument `json:"orders"`
}
