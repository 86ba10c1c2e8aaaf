package exchange

import (
	"context"
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/internal/domain/interfaces"
	"crypto-price-bot/internal/infrastructure/config"
	"crypto-price-bot/internal/infrastructure/exchange/coinmarketcap"
	"crypto-price-bot/internal/infrastructure/logging"
	"crypto-price-bot/internal/infrastructure/metrics"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/singleflight"
)

const (
	// maxAttempts: intento original más un único reintento
	maxAttempts           = 2
	DefaultRetryDelay     = 3 * time.Second
	DefaultRequestTimeout = 10 * time.Second
	DefaultThreshold      = 0.99
)

// HealthResult es el resultado de un chequeo de keys
type HealthResult string

const (
	HealthHealthy   HealthResult = "healthy"
	HealthFailover  HealthResult = "failover"
	HealthExhausted HealthResult = "exhausted"
	HealthUnknown   HealthResult = "unknown"
)

// HealthReport resume un chequeo de keys
type HealthReport struct {
	Result      HealthResult
	PreviousKey int
	ActiveKey   int
	Usage       map[int]*entities.KeyUsage
	Errors      map[int]error
}

// QuotaState es una foto del estado de cuota
type QuotaState struct {
	Exhausted bool
	ActiveKey int
	KeyCount  int
	LastCheck time.Time
}

// QuotaGateway envuelve el proveedor de mercado con cuota, reintento único
// y failover entre API keys. Implementa interfaces.MarketData.
type QuotaGateway struct {
	keys           []string
	providers      []interfaces.MarketDataProvider
	retryDelay     time.Duration
	requestTimeout time.Duration
	dayThreshold   float64
	monthThreshold float64
	group          singleflight.Group

	mu             sync.RWMutex
	active         int
	exhausted      bool
	lastCheck      time.Time
	onQuotaFailure func()
}

var (
	_ interfaces.MarketData    = (*QuotaGateway)(nil)
	_ interfaces.QuotaReporter = (*QuotaGateway)(nil)
)

// NewQuotaGateway crea el gateway con un proveedor por API key
func NewQuotaGateway(cfg config.MarketDataConfig, factory interfaces.MarketDataProviderFactory) (*QuotaGateway, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, errors.New("quota gateway requires at least one API key")
	}

	g := &QuotaGateway{
		keys:           cfg.APIKeys,
		providers:      make([]interfaces.MarketDataProvider, len(cfg.APIKeys)),
		retryDelay:     cfg.RetryDelay,
		requestTimeout: cfg.RequestTimeout,
		dayThreshold:   cfg.DayThreshold,
		monthThreshold: cfg.MonthThreshold,
	}
	for i, key := range cfg.APIKeys {
		g.providers[i] = factory(key)
	}

	if g.requestTimeout <= 0 {
		g.requestTimeout = DefaultRequestTimeout
	}
	if g.dayThreshold <= 0 {
		g.dayThreshold = DefaultThreshold
	}
	if g.monthThreshold <= 0 {
		g.monthThreshold = DefaultThreshold
	}

	metrics.UpdateQuotaState(false, 0)
	return g, nil
}

// SetOnQuotaFailure registra un callback para fallos por créditos agotados.
// El callback no debe bloquear.
func (g *QuotaGateway) SetOnQuotaFailure(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onQuotaFailure = fn
}

// Exhausted reports whether every key is known to be over quota
func (g *QuotaGateway) Exhausted() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.exhausted
}

// ActiveKeyIndex retorna el índice de la key en uso
func (g *QuotaGateway) ActiveKeyIndex() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

// KeyCount retorna la cantidad de API keys configuradas
func (g *QuotaGateway) KeyCount() int {
	return len(g.keys)
}

// State retorna una foto del estado de cuota
func (g *QuotaGateway) State() QuotaState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return QuotaState{
		Exhausted: g.exhausted,
		ActiveKey: g.active,
		KeyCount:  len(g.keys),
		LastCheck: g.lastCheck,
	}
}

func (g *QuotaGateway) ListAssets(ctx context.Context) (*entities.SymbolTable, error) {
	return call(ctx, g, "list_assets", func(ctx context.Context, p interfaces.MarketDataProvider) (*entities.SymbolTable, error) {
		return p.ListAssets(ctx)
	})
}

func (g *QuotaGateway) ListCurrencies(ctx context.Context) (*entities.CurrencyTable, error) {
	return call(ctx, g, "list_currencies", func(ctx context.Context, p interfaces.MarketDataProvider) (*entities.CurrencyTable, error) {
		return p.ListCurrencies(ctx)
	})
}

// GetMetadata pide la metadata de un lote de símbolos
func (g *QuotaGateway) GetMetadata(ctx context.Context, symbols []string) (entities.AssetMetadata, error) {
	return call(ctx, g, "get_metadata", func(ctx context.Context, p interfaces.MarketDataProvider) (entities.AssetMetadata, error) {
		return p.GetMetadata(ctx, symbols)
	})
}

// GetAssetInfo pide la metadata de un símbolo; pedidos concurrentes del mismo símbolo comparten la llamada.
// La llamada compartida no se cancela con el ctx de ningún caller: cada intento ya tiene su timeout
// y cada caller deja de esperar cuando su propio ctx termina.
func (g *QuotaGateway) GetAssetInfo(ctx context.Context, symbol string) (*entities.AssetInfo, error) {
	key := strings.ToUpper(symbol)
	shared := context.WithoutCancel(ctx)

	ch := g.group.DoChan(key, func() (interface{}, error) {
		metadata, err := g.GetMetadata(shared, []string{key})
		if err != nil {
			return nil, err
		}
		info, ok := metadata[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", entities.ErrSymbolNotFound, key)
		}
		return &info, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entities.AssetInfo), nil
	}
}

func (g *QuotaGateway) GetQuote(ctx context.Context, symbol, currency string) (*entities.Quote, error) {
	return call(ctx, g, "get_quote", func(ctx context.Context, p interfaces.MarketDataProvider) (*entities.Quote, error) {
		return p.GetQuote(ctx, symbol, currency)
	})
}

// KeyUsage consulta el consumo de la key activa
func (g *QuotaGateway) KeyUsage(ctx context.Context) (*entities.KeyUsage, error) {
	return call(ctx, g, "key_usage", func(ctx context.Context, p interfaces.MarketDataProvider) (*entities.KeyUsage, error) {
		return p.GetKeyUsage(ctx)
	})
}

// CheckKeys recorre las keys empezando por la activa y adopta la primera con margen
// bajo ambos umbrales. Si todas reportan estar sobre el umbral marca la cuota como agotada.
// Las keys cuya consulta falla se saltean; si ninguna responde, el estado no cambia.
func (g *QuotaGateway) CheckKeys(ctx context.Context) HealthReport {
	g.mu.RLock()
	previous := g.active
	wasExhausted := g.exhausted
	g.mu.RUnlock()

	report := HealthReport{
		PreviousKey: previous,
		ActiveKey:   previous,
		Usage:       make(map[int]*entities.KeyUsage),
		Errors:      make(map[int]error),
	}

	for _, idx := range rotation(previous, len(g.keys)) {
		usage, err := withRetry(ctx, g, "key_usage", g.providers[idx], func(ctx context.Context, p interfaces.MarketDataProvider) (*entities.KeyUsage, error) {
			return p.GetKeyUsage(ctx)
		})
		if err != nil {
			report.Errors[idx] = err
			logging.WarnWithError(ctx, "API key usage query failed", err, logging.Fields{
				logging.FieldKeyIndex: idx,
			})
			continue
		}
		report.Usage[idx] = usage

		if !usage.HasHeadroom(g.dayThreshold, g.monthThreshold) {
			logging.Info(ctx, "API key over quota threshold", logging.Fields{
				logging.FieldKeyIndex: idx,
				"day_used":            usage.DayCreditsUsed,
				"day_limit":           usage.CreditLimitDaily,
				"month_used":          usage.MonthCreditsUsed,
				"month_limit":         usage.CreditLimitMonthly,
			})
			continue
		}

		g.adopt(idx)
		report.ActiveKey = idx
		report.Result = HealthHealthy
		if idx != previous {
			report.Result = HealthFailover
			metrics.RecordKeyFailover()
			logging.Quota().Failover(ctx, previous, idx)
		}
		if wasExhausted {
			logging.Quota().Recovered(ctx, idx)
		}
		metrics.RecordHealthCheck(string(report.Result))
		return report
	}

	if len(report.Usage) == len(g.keys) {
		g.markExhausted()
		report.Result = HealthExhausted
		logging.Quota().Exhausted(ctx, len(g.keys))
	} else {
		report.Result = HealthUnknown
		logging.Warn(ctx, "API key health check inconclusive, quota state unchanged", logging.Fields{
			logging.FieldKeyCount: len(g.keys),
			"failed_keys":         len(report.Errors),
		})
	}

	metrics.RecordHealthCheck(string(report.Result))
	return report
}

func (g *QuotaGateway) adopt(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = idx
	g.exhausted = false
	g.lastCheck = time.Now()
	metrics.UpdateQuotaState(false, idx)
}

func (g *QuotaGateway) markExhausted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.exhausted = true
	g.lastCheck = time.Now()
	metrics.UpdateQuotaState(true, g.active)
}

func (g *QuotaGateway) notifyQuotaFailure() {
	g.mu.RLock()
	fn := g.onQuotaFailure
	g.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// rotation ordena los índices con la key activa primero y el resto en su orden original
func rotation(active, n int) []int {
	order := make([]int, 0, n)
	order = append(order, active)
	for i := 0; i < n; i++ {
		if i != active {
			order = append(order, i)
		}
	}
	return order
}

// call aplica el corte por cuota agotada y luego el reintento único sobre la key activa
func call[T any](ctx context.Context, g *QuotaGateway, operation string, fn func(context.Context, interfaces.MarketDataProvider) (T, error)) (T, error) {
	g.mu.RLock()
	exhausted := g.exhausted
	provider := g.providers[g.active]
	g.mu.RUnlock()

	if exhausted {
		var zero T
		metrics.RecordQuotaShortCircuit(operation)
		return zero, entities.ErrQuotaExhausted
	}

	result, err := withRetry(ctx, g, operation, provider, fn)
	if err != nil && coinmarketcap.IsQuotaError(err) {
		g.notifyQuotaFailure()
	}
	return result, err
}

// withRetry ejecuta fn hasta dos veces con una espera fija entre intentos.
// Cada intento tiene su propio timeout.
func withRetry[T any](ctx context.Context, g *QuotaGateway, operation string, provider interfaces.MarketDataProvider, fn func(context.Context, interfaces.MarketDataProvider) (T, error)) (T, error) {
	var result T

	err := retry.Do(
		func() error {
			attemptCtx, cancel := context.WithTimeout(ctx, g.requestTimeout)
			defer cancel()

			r, err := fn(attemptCtx, provider)
			if err != nil {
				return err
			}
			result = r
			return nil
		},
		retry.Attempts(maxAttempts),
		retry.Delay(g.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordExternalAPIRetry(operation)
			logging.ExternalAPI().RetryScheduled(ctx, operation, n+1, err)
		}),
	)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
