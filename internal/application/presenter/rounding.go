package presenter

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDigits es la cantidad de dígitos significativos por defecto de RoundNonzero
const DefaultDigits = 4

var one = decimal.NewFromInt(1)

// RoundNonzero redondea a los primeros dígitos no nulos y retorna un string.
//
// Con |n| < 1 toma la representación decimal, busca el primer dígito 1-9 y corta
// hasta index+digits caracteres: 0.00005412323132 con 2 dígitos da "0.000054".
// Con |n| >= 1 redondea a digits decimales. El signo se conserva y 0 da "0".
func RoundNonzero(n float64, digits int) string {
	if n == 0 {
		return "0"
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	if digits < 1 {
		digits = 1
	}

	d := decimal.NewFromFloat(n)
	abs := d.Abs()

	var result string
	if abs.LessThan(one) {
		s := abs.String()
		end := strings.IndexAny(s, "123456789") + digits
		if end > len(s) {
			if !strings.Contains(s, ".") {
				s += "."
			}
			s += strings.Repeat("0", end-len(s))
		}
		result = s[:end]
	} else {
		result = abs.Round(int32(digits)).String()
	}

	if d.IsNegative() {
		return "-" + result
	}
	return result
}

// CeilInt redondea hacia arriba un valor ya formateado por RoundNonzero
func CeilInt(rounded string) int64 {
	d, err := decimal.NewFromString(rounded)
	if err != nil {
		return 0
	}
	return d.Ceil().IntPart()
}
