package ingredient

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// latinQtyRe requires an ASCII unit ("300g", "1.5kg"). Digits may come
	// from any script ("３００g").
	latinQtyRe = regexp.MustCompile(`^([\p{Nd}.]+)([a-zA-Z]+)`)
	// pricedQtyRe also accepts Hangul counters ("2개", "1봉").
	pricedQtyRe = regexp.MustCompile(`^([\p{Nd}.]+)([a-zA-Z가-힣]+)`)
)

// Quantity is a magnitude with its unit. No unit conversion is ever applied.
type Quantity struct {
	Magnitude float64
	Unit      string
}

// ParseQuantity extracts the leading number and ASCII unit from q.
// ok is false when q does not start with a number followed by a unit.
func ParseQuantity(q string) (Quantity, bool) {
	return match(latinQtyRe, q)
}

// Magnitude returns the leading numeric magnitude of q, or 0 when q has no
// "<number><letters>" prefix. Only ASCII units count.
func Magnitude(q string) float64 {
	qty, _ := ParseQuantity(q)
	return qty.Magnitude
}

// PricedMagnitude is like Magnitude but also accepts Hangul units, which
// is what price estimation works with.
func PricedMagnitude(q string) (float64, bool) {
	qty, ok := match(pricedQtyRe, q)
	return qty.Magnitude, ok
}

func match(re *regexp.Regexp, q string) (Quantity, bool) {
	m := re.FindStringSubmatch(q)
	if m == nil {
		return Quantity{}, false
	}
	v, err := strconv.ParseFloat(asciiDigits(m[1]), 64)
	if err != nil {
		// "1.2.3" and "." look numeric to the pattern but are not.
		return Quantity{}, false
	}
	return Quantity{Magnitude: v, Unit: m[2]}, true
}

// asciiDigits rewrites decimal digits of any script to 0-9. Decimal digit
// runs in Unicode are laid out in blocks of ten starting at zero, so a
// digit's value is its offset from the start of its run, mod 10.
func asciiDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x80 || !unicode.IsDigit(r) {
			return r
		}
		zero := r
		for unicode.IsDigit(zero - 1) {
			zero--
		}
		return '0' + (r-zero)%10
	}, s)
}
