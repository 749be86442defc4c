package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// digitRun matches the first number in a population tag. Digit groups may be
// split by whitespace ("12 000") or by thousands punctuation ("12,000").
var digitRun = regexp.MustCompile(`\d{1,3}(?:[,.'’]\d{3})+|\d+(?:[\s\x{00A0}\x{202F}]+\d+)*`)

// ParsePopulation extracts the first run of digits from a free-form
// population tag. Text without digits yields 0.
func ParsePopulation(raw string) int {
	run := digitRun.FindString(raw)
	if run == "" {
		return 0
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, run)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
