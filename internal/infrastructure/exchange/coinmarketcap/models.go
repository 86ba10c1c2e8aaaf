package coinmarketcap

import (
	"github.com/goccy/go-json"
)

// envelope es la forma común de todas las respuestas
type envelope struct {
	Status struct {
		Timestamp    string `json:"timestamp"`
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
		Elapsed      int    `json:"elapsed"`
		CreditCount  int    `json:"credit_count"`
	} `json:"status"`
	Data json.RawMessage `json:"data"`
}

// mapEntry es un elemento de /v1/cryptocurrency/map y /v1/fiat/map
type mapEntry struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
}

// infoEntry es la metadata de /v1/cryptocurrency/info
type infoEntry struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Slug   string `json:"slug"`
	Logo   string `json:"logo"`
	URLs   struct {
		Website []string `json:"website"`
	} `json:"urls"`
}

// quoteEntry es un activo de /v1/cryptocurrency/quotes/latest
type quoteEntry struct {
	ID     int                      `json:"id"`
	Name   string                   `json:"name"`
	Symbol string                   `json:"symbol"`
	Slug   string                   `json:"slug"`
	Quote  map[string]quoteCurrency `json:"quote"`
}

type quoteCurrency struct {
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	MarketCap        float64 `json:"market_cap"`
	LastUpdated      string  `json:"last_updated"`
}

// keyInfo es la respuesta de /v1/key/info
type keyInfo struct {
	Plan struct {
		CreditLimitDaily   int64 `json:"credit_limit_daily"`
		CreditLimitMonthly int64 `json:"credit_limit_monthly"`
		RateLimitMinute    int64 `json:"rate_limit_minute"`
	} `json:"plan"`
	Usage struct {
		CurrentMinute struct {
			RequestsMade int64 `json:"requests_made"`
			RequestsLeft int64 `json:"requests_left"`
		} `json:"current_minute"`
		CurrentDay struct {
			CreditsUsed int64 `json:"credits_used"`
			CreditsLeft int64 `json:"credits_left"`
		} `json:"current_day"`
		CurrentMonth struct {
			CreditsUsed int64 `json:"credits_used"`
			CreditsLeft int64 `json:"credits_left"`
		} `json:"current_month"`
	} `json:"usage"`
}
