package presenter

const (
	emojiRocket      = "🚀"
	emojiThumbsUp    = "👍"
	emojiZzz         = "💤"
	emojiRedTriangle = "🔻"
	emojiThumbsDown  = "👎"
	emojiGlobe       = "🌎"
	emojiShrug       = "🤷"
	emojiTree        = "🌳"
)

type sentimentRule struct {
	match  func(pct float64) bool
	marker string
}

// sentimentRules se evalúa en orden y gana la primera coincidencia.
// Los rangos se superponen en los bordes: 2 es positivo y -2 cae en la banda neutral.
var sentimentRules = []sentimentRule{
	{func(p float64) bool { return p >= 50 }, emojiRocket + emojiRocket + emojiRocket},
	{func(p float64) bool { return p >= 25 }, emojiRocket + emojiRocket},
	{func(p float64) bool { return p >= 15 }, emojiRocket},
	{func(p float64) bool { return p >= 2 }, emojiThumbsUp},
	{func(p float64) bool { return p >= -2 && p <= 2 }, emojiZzz},
	{func(p float64) bool { return p <= -50 }, emojiRedTriangle + emojiRedTriangle + emojiRedTriangle},
	{func(p float64) bool { return p <= -25 }, emojiRedTriangle + emojiRedTriangle},
	{func(p float64) bool { return p <= -15 }, emojiRedTriangle},
	{func(p float64) bool { return p <= -2 }, emojiThumbsDown},
}

// Sentiment retorna el marcador para el cambio porcentual de 24h; NaN no tiene marcador
func Sentiment(pct float64) string {
	for _, rule := range sentimentRules {
		if rule.match(pct) {
			return rule.marker
		}
	}
	return ""
}
