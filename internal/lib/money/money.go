// Package money реализует работу с денежными суммами в минорных единицах (копейках/центах).
// Все балансы и цены в системе хранятся как целые числа, чтобы исключить ошибки
// накопления при операциях с плавающей точкой. Парсинг и форматирование выполняются
// только на границе HTTP.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount — денежная сумма в минорных единицах (1/100 основной валюты).
type Amount int64

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse разбирает десятичную строку вида "300", "300.5" или "300.50"
// и возвращает сумму в минорных единицах. Более двух знаков после точки — ошибка.
func Parse(s string) (Amount, error) {
	const op = "money.Parse"

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%s: empty amount", op)
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	// Обе части — только ASCII-цифры: strconv.ParseInt принимает знаки
	// внутри частей ("1.-5", "+1.50"), такие строки не являются суммами.
	if !isDigits(whole) {
		return 0, fmt.Errorf("%s: malformed amount %q", op, s)
	}
	major, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if major > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("%s: amount %q out of range", op, s)
	}

	var minor int64
	switch len(frac) {
	case 0:
	case 1, 2:
		if !isDigits(frac) {
			return 0, fmt.Errorf("%s: malformed amount %q", op, s)
		}
		minor, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		if len(frac) == 1 {
			minor *= 10
		}
	default:
		return 0, fmt.Errorf("%s: more than two fraction digits in %q", op, s)
	}

	result := Amount(major*100 + minor)
	if negative {
		result = -result
	}
	return result, nil
}

// String форматирует сумму обратно в десятичную строку с двумя знаками после точки.
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON сериализует сумму как десятичную строку: 30000 -> "300.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

// UnmarshalJSON принимает как строку "300.00", так и число 300.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
