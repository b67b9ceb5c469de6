/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The fee engine works
  with time.Time and decimal.Decimal; the API speaks RFC 3339 strings and
  fixed two-decimal amounts so clients never round.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Configuration:
    config.ConfigurationJSON (request and response), VersionDTO

  Quotes:
    QuoteRequest, QuoteResponse, ChargeDTO

VALIDATION:
  Validation is done in handlers and in config.FromJSON, not in DTOs.

SEE ALSO:
  - handlers.go: Uses these types
  - config/factory.go: ConfigurationJSON type
*/
package api

import (
	"time"

	"github.com/warp/latefee/config"
	"github.com/warp/latefee/fee"
	"github.com/warp/latefee/store"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// VersionDTO is one stored configuration version.
type VersionDTO struct {
	ID        string                   `json:"id"`
	CreatedAt string                   `json:"created_at"`
	Config    config.ConfigurationJSON `json:"config"`
}

func toVersionDTO(v store.Version) VersionDTO {
	return VersionDTO{
		ID:        v.ID,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		Config:    config.ToJSON(v.Config),
	}
}

// =============================================================================
// QUOTES
// =============================================================================

// QuoteRequest asks for the fee on an item. Return and AsOf are optional:
// without Return the quote is an estimate as of AsOf (default now).
type QuoteRequest struct {
	Due    string `json:"due"`
	Return string `json:"return,omitempty"`
	AsOf   string `json:"as_of,omitempty"`
}

// QuoteResponse is a computed fee with its breakdown.
type QuoteResponse struct {
	ID              string      `json:"id"`
	Due             string      `json:"due"`
	Return          string      `json:"return"`
	Estimate        bool        `json:"estimate"`
	Amount          string      `json:"amount"`
	Display         string      `json:"display"`
	Currency        string      `json:"currency"`
	HourlyTicks     int         `json:"hourly_ticks"`
	OvernightNights int         `json:"overnight_nights"`
	Charges         []ChargeDTO `json:"charges"`
}

// ChargeDTO is one charge in a quote breakdown.
type ChargeDTO struct {
	At     string `json:"at"`
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
}

func toQuoteResponse(id string, a fee.Assessment, estimate bool, cfg config.Configuration) QuoteResponse {
	charges := make([]ChargeDTO, len(a.Charges))
	for i, c := range a.Charges {
		charges[i] = ChargeDTO{
			At:     c.At.Format(time.RFC3339),
			Kind:   string(c.Kind),
			Amount: c.Amount.StringFixed(2),
		}
	}
	return QuoteResponse{
		ID:              id,
		Due:             a.Due.Format(time.RFC3339),
		Return:          a.Return.Format(time.RFC3339),
		Estimate:        estimate,
		Amount:          a.Total.StringFixed(2),
		Display:         cfg.FormatAmount(a.Total),
		Currency:        cfg.Currency,
		HourlyTicks:     a.HourlyTicks,
		OvernightNights: a.Nights,
		Charges:         charges,
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
