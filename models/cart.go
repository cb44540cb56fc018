package models

// CartData is a checkout snapshot held by the document store.
// Items are owned by the store and are carried through without interpretation.
type CartData struct {
	ID       string                   `json:"_id"`
	Items    []map[string]interface{} `json:"items"`
	Customer *Customer                `json:"customer,omitempty"`
	Totals   CartTotals               `json:"totals"`
}

// CartTotals holds the amounts computed for a cart at checkout time
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}
