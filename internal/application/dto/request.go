package dto

import (
	"errors"
	"strings"
)

// DefaultCurrency se usa cuando el usuario no indica moneda
const DefaultCurrency = "USD"

// QueryRequest representa un mensaje de chat entrante
type QueryRequest struct {
	// ChatID identifica la conversación; se usa para el rate limiting
	ChatID string `json:"chat_id"`
	// Text es el texto del usuario ("BTC" o "BTC EUR")
	Text string `json:"text"`
}

// Validate valida la request
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.New("text is required")
	}
	return nil
}

// PriceQuery es el texto del usuario ya separado en símbolo y moneda
type PriceQuery struct {
	Symbol   string
	Currency string
}

// ParsePriceQuery separa el texto en a lo sumo dos partes por el primer espacio.
// Sin moneda explícita se usa DefaultCurrency.
func ParsePriceQuery(text string) PriceQuery {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)

	query := PriceQuery{
		Symbol:   strings.TrimSpace(parts[0]),
		Currency: DefaultCurrency,
	}
	if len(parts) == 2 {
		if currency := strings.TrimSpace(parts[1]); currency != "" {
			query.Currency = currency
		}
	}
	return query
}
