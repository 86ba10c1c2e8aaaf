package interfaces

import (
	"context"
	"crypto-price-bot/internal/application/dto"
)

// BotService define los casos de uso expuestos al front-end de chat
type BotService interface {
	// FormatQuote resuelve símbolo y moneda y arma el mensaje de precio
	FormatQuote(ctx context.Context, symbol, currency string) (dto.QuoteResult, error)

	// HandlePriceQuery interpreta el texto del usuario ("BTC" o "BTC EUR")
	HandlePriceQuery(ctx context.Context, text string) dto.Reply

	// HandleListCommand lista activos o monedas soportadas
	HandleListCommand(ctx context.Context, kind dto.ListKind) dto.Reply

	// KeyInfo reporta el consumo de créditos de la key activa
	KeyInfo(ctx context.Context) (string, error)

	// Status expone el estado de cuota y de los caches
	Status(ctx context.Context) dto.StatusResponse
}
