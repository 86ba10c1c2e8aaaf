package services

import (
	"context"
	"crypto-price-bot/internal/application/dto"
	"crypto-price-bot/internal/application/presenter"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"errors"
	"strings"
	"time"
)

// Resultados de consulta para métricas
const (
	queryFound     = "found"
	queryNotFound  = "not_found"
	queryFailed    = "error"
	queryExhausted = "exhausted"
)

// BotService implementa los casos de uso del bot sobre el gateway con cuota,
// el cache durable y el catálogo en memoria
type BotService struct {
	market          interfaces.MarketData
	cache           interfaces.SymbolCache
	catalog         *Catalog
	renderer        *presenter.Renderer
	defaultCurrency string

	quota          interfaces.QuotaReporter
	backupBaseline func() int
}

var _ interfaces.BotService = (*BotService)(nil)

// Option configura dependencias opcionales del servicio
type Option func(*BotService)

// WithQuotaReporter expone el índice de key activa en Status
func WithQuotaReporter(q interfaces.QuotaReporter) Option {
	return func(s *BotService) {
		s.quota = q
	}
}

// WithBackupBaseline expone la línea base del respaldo en Status
func WithBackupBaseline(fn func() int) Option {
	return func(s *BotService) {
		s.backupBaseline = fn
	}
}

// NewBotService creates the bot use cases. An empty defaultCurrency falls back to USD.
func NewBotService(market interfaces.MarketData, cache interfaces.SymbolCache, catalog *Catalog, renderer *presenter.Renderer, defaultCurrency string, opts ...Option) *BotService {
	if defaultCurrency == "" {
		defaultCurrency = dto.DefaultCurrency
	}
	s := &BotService{
		market:          market,
		cache:           cache,
		catalog:         catalog,
		renderer:        renderer,
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap carga tablas y metadata desde el cache; las tablas vencidas o faltantes
// se piden al proveedor. Un fallo deja la tabla vacía y se reintenta al listar.
func (s *BotService) Bootstrap(ctx context.Context) {
	if table, err := s.cache.LoadAssets(ctx); err == nil {
		s.catalog.SetAssets(table)
	} else {
		s.refreshAssets(ctx)
	}

	if table, err := s.cache.LoadCurrencies(ctx); err == nil {
		s.catalog.SetCurrencies(table)
	} else {
		s.refreshCurrencies(ctx)
	}

	if md, err := s.cache.LoadMetadata(ctx); err == nil {
		s.catalog.ReplaceMetadata(md)
	}
	metrics.UpdateMetadataEntries(s.catalog.MetadataCount())

	logging.Info(ctx, "Symbol catalog ready", logging.Fields{
		"assets":             s.catalog.Assets().Len(),
		"currencies":         s.catalog.Currencies().Len(),
		logging.FieldEntries: s.catalog.MetadataCount(),
	})
}

// FormatQuote resuelve símbolo, moneda y metadata y arma el mensaje de cotización.
// El único error retornado es entities.ErrQuotaExhausted; el resto viaja en Status.
func (s *BotService) FormatQuote(ctx context.Context, symbol, currency string) (dto.QuoteResult, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	logging.Business().QuoteRequested(ctx, symbol, currency)

	if s.market.Exhausted() {
		metrics.RecordPriceQuery(queryExhausted)
		return dto.QuoteResult{}, entities.ErrQuotaExhausted
	}

	// Símbolo: sin tabla se consulta a ciegas
	assets := s.catalog.Assets()
	var slug string
	if assets != nil {
		var ok bool
		if slug, ok = assets.Slug(symbol); !ok {
			logging.Business().ValidationFailed(ctx, symbol, "unknown symbol")
			metrics.RecordPriceQuery(queryNotFound)
			return dto.QuoteResult{Status: presenter.StatusTokenNotFound}, nil
		}
	}

	// Moneda: desconocida se reemplaza por la moneda por defecto
	var status, substituted string
	if currencies := s.catalog.Currencies(); currencies != nil && currency != s.defaultCurrency && !currencies.Contains(currency) {
		substituted = currency
		status = presenter.CurrencySubstituted(currency, s.defaultCurrency)
		currency = s.defaultCurrency
		metrics.RecordCurrencySubstitution()
		logging.Business().CurrencySubstituted(ctx, substituted, currency)
	}

	info, err := s.assetInfo(ctx, symbol)
	switch {
	case errors.Is(err, entities.ErrQuotaExhausted):
		metrics.RecordPriceQuery(queryExhausted)
		return dto.QuoteResult{}, err
	case errors.Is(err, entities.ErrSymbolNotFound) && assets == nil:
		metrics.RecordPriceQuery(queryNotFound)
		return dto.QuoteResult{Status: presenter.StatusTokenNotFound}, nil
	}

	quote, err := s.market.GetQuote(ctx, symbol, currency)
	if err != nil {
		logging.Business().QuoteFailed(ctx, symbol, err)
		switch {
		case errors.Is(err, entities.ErrQuotaExhausted):
			metrics.RecordPriceQuery(queryExhausted)
			return dto.QuoteResult{}, err
		case errors.Is(err, entities.ErrSymbolNotFound):
			metrics.RecordPriceQuery(queryNotFound)
			return dto.QuoteResult{Status: presenter.StatusTokenNotFound}, nil
		}
		metrics.RecordPriceQuery(queryFailed)
		return dto.QuoteResult{Status: err.Error()}, nil
	}

	if slug == "" {
		slug = info.Slug
	}
	if slug == "" {
		slug = quote.Slug
	}

	message := s.renderer.Quote(presenter.QuoteView{
		Quote:               quote,
		Slug:                slug,
		ProjectURL:          info.ProjectURL(),
		SubstitutedCurrency: substituted,
	})

	if status == "" {
		status = presenter.StatusTokenFound
	}

	metrics.RecordPriceQuery(queryFound)
	logging.Business().QuoteServed(ctx, symbol, currency, quote.Price)

	return dto.QuoteResult{Message: message, Status: status}, nil
}

// assetInfo busca la metadata en el catálogo y si falta la pide al proveedor,
// guardándola en el cache durable. Un fallo que no sea de cuota o símbolo
// desconocido solo deja la consulta sin link al proyecto.
func (s *BotService) assetInfo(ctx context.Context, symbol string) (entities.AssetInfo, error) {
	if info, ok := s.catalog.AssetInfo(symbol); ok {
		return info, nil
	}

	info, err := s.market.GetAssetInfo(ctx, symbol)
	if err != nil {
		if errors.Is(err, entities.ErrQuotaExhausted) || errors.Is(err, entities.ErrSymbolNotFound) {
			return entities.AssetInfo{}, err
		}
		logging.WarnWithError(ctx, "Asset metadata unavailable, project link omitted", err, logging.Fields{
			logging.FieldSymbol: symbol,
		})
		return entities.AssetInfo{}, nil
	}

	s.catalog.PutAssetInfo(symbol, *info)
	if _, err := s.cache.MergeMetadata(ctx, entities.AssetMetadata{symbol: *info}); err != nil {
		logging.WarnWithError(ctx, "Failed to persist asset metadata, kept in memory", err, logging.Fields{
			logging.FieldSymbol: symbol,
		})
	}
	metrics.UpdateMetadataEntries(s.catalog.MetadataCount())

	return *info, nil
}

// HandlePriceQuery interpreta "SYMBOL" o "SYMBOL CURRENCY" y arma la respuesta
func (s *BotService) HandlePriceQuery(ctx context.Context, text string) dto.Reply {
	query := dto.ParsePriceQuery(text)
	if query.Symbol == "" {
		return dto.Reply{Messages: []string{presenter.StatusTokenNotFound}, Status: presenter.StatusTokenNotFound, OK: true}
	}

	result, err := s.FormatQuote(ctx, query.Symbol, query.Currency)
	if err != nil {
		return outOfQuota()
	}

	if result.Message == "" {
		return dto.Reply{Messages: []string{result.Status}, Status: result.Status, OK: true}
	}
	return dto.Reply{Messages: []string{result.Message}, Status: result.Status, OK: true}
}

// HandleListCommand lista activos o monedas; una tabla faltante se vuelve a pedir una vez
func (s *BotService) HandleListCommand(ctx context.Context, kind dto.ListKind) dto.Reply {
	switch kind {
	case dto.ListAssets:
		table := s.catalog.Assets()
		if table == nil {
			if s.market.Exhausted() {
				return outOfQuota()
			}
			table = s.refreshAssets(ctx)
		}
		if table == nil {
			return dto.Reply{Messages: []string{presenter.AssetsUnavailable}, Status: presenter.AssetsUnavailable, OK: true}
		}
		return dto.Reply{Messages: s.renderer.AssetList(table.Symbols()), OK: true}

	case dto.ListCurrencies:
		table := s.catalog.Currencies()
		if table == nil {
			if s.market.Exhausted() {
				return outOfQuota()
			}
			table = s.refreshCurrencies(ctx)
		}
		if table == nil {
			return dto.Reply{Messages: []string{presenter.CurrenciesUnavailable}, Status: presenter.CurrenciesUnavailable, OK: true}
		}
		return dto.Reply{Messages: []string{s.renderer.CurrencyList(table.Symbols())}, OK: true}
	}

	logging.Business().ValidationFailed(ctx, string(kind), "unknown list kind")
	return dto.Reply{Status: "unknown list: " + string(kind), OK: true}
}

// KeyInfo reporta el consumo de créditos de la key activa
func (s *BotService) KeyInfo(ctx context.Context) (string, error) {
	usage, err := s.market.KeyUsage(ctx)
	if err != nil {
		return "", err
	}
	return s.renderer.KeyUsage(usage), nil
}

// Status expone el estado de cuota, caches y respaldo
func (s *BotService) Status(ctx context.Context) dto.StatusResponse {
	status := dto.StatusResponse{
		Exhausted:       s.market.Exhausted(),
		Assets:          s.catalog.Assets().Len(),
		Currencies:      s.catalog.Currencies().Len(),
		MetadataEntries: s.catalog.MetadataCount(),
		Timestamp:       time.Now(),
	}
	if s.quota != nil {
		status.ActiveKey = s.quota.ActiveKeyIndex()
		status.KeyCount = s.quota.KeyCount()
	}
	if s.backupBaseline != nil {
		status.BackupBaseline = s.backupBaseline()
	}
	return status
}

func (s *BotService) refreshAssets(ctx context.Context) *entities.SymbolTable {
	table, err := s.market.ListAssets(ctx)
	if err != nil {
		logging.WarnWithError(ctx, "Failed to fetch supported assets", err, nil)
		return nil
	}
	s.catalog.SetAssets(table)
	if err := s.cache.SaveAssets(ctx, table); err != nil {
		logging.WarnWithError(ctx, "Failed to persist supported assets, kept in memory", err, nil)
	}
	return table
}

func (s *BotService) refreshCurrencies(ctx context.Context) *entities.CurrencyTable {
	table, err := s.market.ListCurrencies(ctx)
	if err != nil {
		logging.WarnWithError(ctx, "Failed to fetch supported currencies", err, nil)
		return nil
	}
	s.catalog.SetCurrencies(table)
	if err := s.cache.SaveCurrencies(ctx, table); err != nil {
		logging.WarnWithError(ctx, "Failed to persist supported currencies, kept in memory", err, nil)
	}
	return table
}

func outOfQuota() dto.Reply {
	return dto.Reply{
		Messages: []string{presenter.OutOfQuotaMessage},
		Status:   entities.ErrQuotaExhausted.Error(),
		OK:       false,
	}
}
