package models

// AdditionalLineItem is an ad-hoc charge entered by the operator
type AdditionalLineItem struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// RenewalTotals are derived from the imported cart and the additional items.
// total = subtotal - discount + tax
type RenewalTotals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// RenewalFormState is a snapshot of everything the operator has entered so far
type RenewalFormState struct {
	Loading             bool                 `json:"loading"`
	SearchQuery         string               `json:"searchQuery"`
	CartURL             string               `json:"cartUrl"`
	EffectiveDate       string               `json:"effectiveDate"`
	SupersededDocNumber string               `json:"supersededDocNumber"`
	DiscountCode        string               `json:"discountCode"`
	FoundOrders         []OrderSummary       `json:"foundOrders"`
	SelectedOrder       *OrderSummary        `json:"selectedOrder"`
	ImportedCart        *CartData            `json:"importedCart"`
	AdditionalItems     []AdditionalLineItem `json:"additionalItems"`
	Totals              RenewalTotals        `json:"totals"`
}

// RenewalSummary is the display-ready summary of a renewal in progress.
// Amounts and dates are preformatted; Discount is only set when non-zero.
type RenewalSummary struct {
	SelectedOrderNumber string    `json:"selectedOrderNumber,omitempty"`
	CartBadge           string    `json:"cartBadge,omitempty"`
	Customer            *Customer `json:"customer,omitempty"`
	EffectiveDate       string    `json:"effectiveDate,omitempty"`
	SupersededDocNumber string    `json:"supersededDocNumber,omitempty"`
	Subtotal            string    `json:"subtotal"`
	Discount            string    `json:"discount,omitempty"`
	Tax                 string    `json:"tax"`
	Total               string    `json:"total"`
	CanSubmit           bool      `json:"canSubmit"`
}
