package assist

import (
	"context"
	"fmt"
	"strings"
)

// DraftRequest describes the deal a quotation letter is drafted for
type DraftRequest struct {
	BuyerName   string  `json:"buyer_name"`
	Goods       string  `json:"goods"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency"`
	Incoterm    string  `json:"incoterm"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	ValidDays   int     `json:"valid_days"`
}

// DraftResult is the suggested quotation text
type DraftResult struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Terms   []string `json:"terms"`
}

// Drafter produces quotation letter suggestions. Implementations may
// call an external text-generation service; the portal only depends on
// this interface.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) (*DraftResult, error)
}

type templateDrafter struct{}

// NewTemplateDrafter returns a deterministic drafter built from fixed
// letter templates. It is the default when no external service is
// configured.
func NewTemplateDrafter() Drafter {
	return &templateDrafter{}
}

func (d *templateDrafter) Draft(_ context.Context, req DraftRequest) (*DraftResult, error) {
	if req.Goods == "" {
		return nil, fmt.Errorf("goods description is required")
	}

	validDays := req.ValidDays
	if validDays <= 0 {
		validDays = 30
	}

	var body strings.Builder
	if req.BuyerName != "" {
		fmt.Fprintf(&body, "Dear %s,\n\n", req.BuyerName)
	}
	fmt.Fprintf(&body, "Thank you for your enquiry. We are pleased to quote for the supply of %s", req.Goods)
	if req.Quantity > 0 {
		fmt.Fprintf(&body, " (%.2f %s)", req.Quantity, req.Unit)
	}
	body.WriteString(".\n\n")
	if req.UnitPrice > 0 {
		fmt.Fprintf(&body, "Unit price: %.2f %s per %s, %s", req.UnitPrice, req.Currency, req.Unit, req.Incoterm)
		if req.Destination != "" {
			fmt.Fprintf(&body, " %s", req.Destination)
		}
		body.WriteString(".\n")
	}
	if req.Origin != "" {
		fmt.Fprintf(&body, "Goods are shipped from %s.\n", req.Origin)
	}
	fmt.Fprintf(&body, "\nThis offer is valid for %d days from the date of issue.\n", validDays)
	body.WriteString("\nWe look forward to your confirmation.\n")

	terms := []string{
		fmt.Sprintf("Prices quoted %s and exclusive of destination charges", req.Incoterm),
		fmt.Sprintf("Offer validity: %d days", validDays),
		"Payment terms to be agreed before order confirmation",
	}

	return &DraftResult{
		Subject: fmt.Sprintf("Quotation: %s", req.Goods),
		Body:    body.String(),
		Terms:   terms,
	}, nil
}
