package models

// Document type markers
const (
	DocTypeOrder = "order"
	DocTypeCart  = "cart"
)

// Order field values used when creating renewal orders
const (
	OrderTypeRenewal = "renewal"

	StatusPending                = "pending"
	PaymentStatusPending         = "pending"
	FulfillmentStatusUnfulfilled = "not_fulfilled"
)

// OrderSummary is the projection of a stored order shown in search results.
// It is never mutated locally.
type OrderSummary struct {
	ID            string  `json:"_id"`
	OrderNumber   string  `json:"orderNumber"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

// Customer is the customer block carried by carts and orders
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
}

// DocumentRef references another stored document by id
type DocumentRef struct {
	Ref string `json:"_ref"`
}

// RenewalInfo carries the optional renewal metadata of an order
type RenewalInfo struct {
	EffectiveDate       string `json:"effectiveDate,omitempty"`
	SupersededDocNumber string `json:"supersededDocNumber,omitempty"`
}

// OrderDocument is an order as persisted in the document store.
// Example renewal order:
//
//	{
//	  "_type": "order",
//	  "orderType": "renewal",
//	  "orderNumber": "REN-1705314600000",
//	  "originalOrderRef": {"_ref": "order-123"},
//	  "renewalInfo": {"effectiveDate": "2024-02-01", "supersededDocNumber": "INV-889"},
//	  "items": [{"sku": "PLAN-PRO", "quantity": 1}],
//	  "additionalLineItems": [{"title": "Setup", "description": "", "quantity": 1, "price": 50}],
//	  "customer": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
//	  "pricing": {"subtotal": 150, "discount": 0, "tax": 12, "total": 162},
//	  "status": "pending",
//	  "paymentStatus": "pending",
//	  "fulfillmentStatus": "not_fulfilled",
//	  "discountCode": "RENEW10"
//	}
type OrderDocument struct {
	ID                  string                   `json:"_id,omitempty"`
	Type                string                   `json:"_type"`
	CreatedAt           string                   `json:"_createdAt,omitempty"`
	OrderType           string                   `json:"orderType,omitempty"`
	OrderNumber         string                   `json:"orderNumber"`
	OriginalOrderRef    *DocumentRef             `json:"originalOrderRef,omitempty"`
	RenewalInfo         *RenewalInfo             `json:"renewalInfo,omitempty"`
	Items               []map[string]interface{} `json:"items"`
	AdditionalLineItems []AdditionalLineItem     `json:"additionalLineItems,omitempty"`
	Customer            *Customer                `json:"customer,omitempty"`
	Pricing             RenewalTotals            `json:"pricing"`
	Status              string                   `json:"status"`
	PaymentStatus       string                   `json:"paymentStatus,omitempty"`
	FulfillmentStatus   string                   `json:"fulfillmentStatus,omitempty"`
	DiscountCode        string                   `json:"discountCode,omitempty"`
}
