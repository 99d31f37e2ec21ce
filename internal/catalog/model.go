package catalog

import "github.com/shopspring/decimal"

// Product is keyed by its short code (what the cashier types); codes are
// stable across price edits, so completed orders can reference them.
type Product struct {
	Code        string          `json:"code"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	// NUMERIC in Postgres; decimal end to end so payment math stays exact.
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
	ImageURL string          `json:"image_url,omitempty"`
}

// SaveProductRequest payload for create-or-replace by code.
type SaveProductRequest struct {
	Code        string `json:"code"        example:"CQ"`
	Category    string `json:"category"    example:"Lanches"`
	Description string `json:"description" example:"X-Burger com queijo"`
	Price       string `json:"price"       example:"19.90"`
	Active      *bool  `json:"active"`
	ImageURL    string `json:"image_url"`
}
