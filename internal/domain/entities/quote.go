package entities

// Quote es la cotización en vivo de un activo en una moneda
type Quote struct {
	Symbol           string  `json:"symbol"`
	Name             string  `json:"name"`
	Slug             string  `json:"slug"`
	Currency         string  `json:"currency"`
	Price            float64 `json:"price"`
	Volume24h        float64 `json:"volume_24h"`
	PercentChange24h float64 `json:"percent_change_24h"`
	MarketCap        float64 `json:"market_cap"`
	LastUpdated      string  `json:"last_updated"`
}
