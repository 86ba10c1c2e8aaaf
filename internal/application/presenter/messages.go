package presenter

import (
	"crypto-price-bot/internal/domain/entities"
	"crypto-price-bot/pkg/utils"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CoinMarketCapURL = "https://coinmarketcap.com/currencies/"

	OutOfQuotaMessage      = "Sorry, I am out of mana! Come back soon!\n_(reached API call limit)_"
	StatusTokenFound       = "Token has been found!"
	StatusTokenNotFound    = "Crypto token not found or misspelled."
	AssetsUnavailable      = "Supported crypto tokens list is not available right now. Try again later."
	CurrenciesUnavailable  = "Supported fiat currencies list is not available right now. Try again later."
	DefaultMessageLimit    = 4050
	DefaultQuoteDigits     = 2
	DefaultBotUsername     = "crypto_price_finder_bot"
	currencySubstitutedFmt = "No currency \"%s\" was found. Used \"%s\" by default."
)

// Options configura la presentación de mensajes
type Options struct {
	BotUsername      string
	QuoteDigits      int
	MessageCharLimit int
}

// Renderer arma los mensajes Markdown que ve el usuario del chat
type Renderer struct {
	opts Options
}

// NewRenderer completa las opciones vacías con los valores por defecto
func NewRenderer(opts Options) *Renderer {
	if opts.BotUsername == "" {
		opts.BotUsername = DefaultBotUsername
	}
	if opts.QuoteDigits <= 0 {
		opts.QuoteDigits = DefaultQuoteDigits
	}
	if opts.MessageCharLimit <= 0 {
		opts.MessageCharLimit = DefaultMessageLimit
	}
	return &Renderer{opts: opts}
}

// QuoteView es lo necesario para renderizar una cotización
type QuoteView struct {
	Quote *entities.Quote
	// Slug vacío cuando no hay tabla de símbolos (consulta a ciegas)
	Slug       string
	ProjectURL string
	// SubstitutedCurrency es la moneda pedida que se reemplazó por la moneda por defecto
	SubstitutedCurrency string
}

// Quote renderiza la cotización completa
func (r *Renderer) Quote(v QuoteView) string {
	q := v.Quote
	digits := r.opts.QuoteDigits
	var b strings.Builder

	if v.SubstitutedCurrency != "" {
		fmt.Fprintf(&b, "_Currency %s was not found. Used default %s instead._\n", v.SubstitutedCurrency, q.Currency)
	}

	title := fmt.Sprintf("%s (%s)", q.Name, q.Symbol)
	if v.Slug != "" {
		fmt.Fprintf(&b, "\n[%s](%s%s)", title, CoinMarketCapURL, v.Slug)
	} else {
		fmt.Fprintf(&b, "\n%s", title)
	}
	if v.ProjectURL != "" {
		fmt.Fprintf(&b, "         [Project page](%s)\n\n", v.ProjectURL)
	} else {
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "Price:                  *%s* %s\n", RoundNonzero(q.Price, digits), q.Currency)
	fmt.Fprintf(&b, "Market Cap:     %s %s\n", r.thousands(q.MarketCap), q.Currency)
	fmt.Fprintf(&b, "Volume 24h:    %s %s\n", r.thousands(q.Volume24h), q.Currency)
	fmt.Fprintf(&b, "Pct.Ch. 24h:      %s%% %s\n", RoundNonzero(q.PercentChange24h, digits), Sentiment(q.PercentChange24h))
	fmt.Fprintf(&b, "Last Updated: %s\n\n", utils.FormatLastUpdated(q.LastUpdated))
	b.WriteString(r.PoweredBy())

	return b.String()
}

// CurrencySubstituted es la línea de estado cuando la moneda pedida no existe
func CurrencySubstituted(requested, used string) string {
	return fmt.Sprintf(currencySubstitutedFmt, requested, used)
}

// PoweredBy es el pie de cada cotización
func (r *Renderer) PoweredBy() string {
	return fmt.Sprintf("[Powered by @%s](https://t.me/%s)%s", r.opts.BotUsername, r.opts.BotUsername, emojiTree)
}

// AssetList arma el listado de símbolos: encabezado, bloques de hasta MessageCharLimit y dos líneas de cierre
func (r *Renderer) AssetList(symbols []string) []string {
	messages := []string{fmt.Sprintf("%s The following %d crypto tokens are supported:\n", emojiGlobe, len(symbols))}
	messages = append(messages, ChunkWords(symbols, " ", r.opts.MessageCharLimit)...)
	messages = append(messages,
		fmt.Sprintf("Sorry for spam! Above are %d crypto tokens!\n", len(symbols)),
		"Use Ctrl+F to find the one you need! If you are on the phone, well... Good luck searching!",
	)
	return messages
}

// CurrencyList arma el listado de monedas fiat en un único mensaje
func (r *Renderer) CurrencyList(symbols []string) string {
	return fmt.Sprintf("%s The following %d fiat currencies are supported:\n", emojiGlobe, len(symbols)) +
		strings.Join(symbols, " ")
}

// KeyUsage arma el reporte de consumo de la key activa
func (r *Renderer) KeyUsage(u *entities.KeyUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You found the secret. Congratulations... I guess. %s\n", emojiShrug)
	fmt.Fprintf(&b, "Credits used [minute]: %d / %d\n", u.MinuteRequestsMade, u.MinuteRequestsMade+u.MinuteRequestsLeft)
	fmt.Fprintf(&b, "Credits used [day]: %d / %d\n", u.DayCreditsUsed, u.DayCreditsUsed+u.DayCreditsLeft)
	fmt.Fprintf(&b, "Credits used [month]: %d / %d", u.MonthCreditsUsed, u.MonthCreditsUsed+u.MonthCreditsLeft)
	return b.String()
}

// thousands redondea hacia arriba a entero y agrega separadores de miles
func (r *Renderer) thousands(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", CeilInt(RoundNonzero(v, r.opts.QuoteDigits)))
}

// ChunkWords une words con sep en bloques de a lo sumo limit runas sin cortar palabras.
// Una palabra más larga que limit se corta en pedazos.
func ChunkWords(words []string, sep string, limit int) []string {
	if limit <= 0 {
		return []string{strings.Join(words, sep)}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	sepLen := len([]rune(sep))

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, word := range words {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) == 0 {
			continue
		}

		needed := len(runes)
		if currentLen > 0 {
			needed += sepLen
		}
		if currentLen+needed > limit {
			flush()
			needed = len(runes)
		}
		if currentLen > 0 {
			current.WriteString(sep)
		}
		current.WriteString(string(runes))
		currentLen += needed
	}
	flush()

	return chunks
}
