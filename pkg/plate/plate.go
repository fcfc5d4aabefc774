// Package plate validates and formats Turkish vehicle registration plates.
//
// A canonical plate looks like "34 ABC 12": a province code (01-81),
// one to three letters and a digit group whose length depends on the
// number of letters.
package plate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinLength       = 7
	MaxLength       = 8
	MinProvinceCode = 1
	MaxProvinceCode = 81
	MinLetters      = 1
	MaxLetters      = 3
)

// Error messages returned in Result.ErrorMessage
const (
	MsgInvalidLength   = "must be 7–8 characters"
	MsgInvalidProvince = "first 2 digits must be a valid province code (01–81)"
	MsgInvalidChar     = "invalid character in plate"
	MsgInvalidLetters  = "letter count must be 1–3"
)

// digitCounts allowed digit-group lengths by letter count
var digitCounts = map[int][]int{
	1: {4},
	2: {3, 4},
	3: {2},
}

// Result outcome of Validate
type Result struct {
	Normalized   string
	Valid        bool
	ErrorMessage string
}

// Validate checks raw user input and returns its canonical form.
// Validate(Validate(x).Normalized) is a fixed point for every valid x.
func Validate(raw string) Result {
	cleaned := clean(raw)
	runes := []rune(cleaned)

	invalid := func(msg string) Result {
		return Result{Normalized: cleaned, ErrorMessage: msg}
	}

	if len(runes) < MinLength || len(runes) > MaxLength {
		return invalid(MsgInvalidLength)
	}

	if !isDigit(runes[0]) || !isDigit(runes[1]) {
		return invalid(MsgInvalidProvince)
	}
	province, err := strconv.Atoi(string(runes[:2]))
	if err != nil || province < MinProvinceCode || province > MaxProvinceCode {
		return invalid(MsgInvalidProvince)
	}

	letters, numbers, ok := splitTail(runes[2:])
	if !ok {
		return invalid(MsgInvalidChar)
	}

	if len(letters) < MinLetters || len(letters) > MaxLetters {
		return invalid(MsgInvalidLetters)
	}

	allowed := digitCounts[len(letters)]
	if !containsInt(allowed, len(numbers)) {
		return invalid(digitCountMessage(len(letters), allowed))
	}

	return Result{
		Normalized: fmt.Sprintf("%s %s %s", string(runes[:2]), letters, numbers),
		Valid:      true,
	}
}

// IsValid reports whether raw is an acceptable plate
func IsValid(raw string) bool {
	return Validate(raw).Valid
}

// Format re-inserts separators into partial input while the user types.
// Every non-space character the user entered is kept; only the spaces
// between province, letters and digits are rebuilt.
func Format(partial string) string {
	runes := []rune(clean(partial))

	var b strings.Builder
	digitsStarted := false
	for i, r := range runes {
		switch {
		case i == 2:
			b.WriteRune(' ')
			if isDigit(r) {
				digitsStarted = true
			}
		case i > 2 && !digitsStarted && isDigit(r) && isLetter(runes[i-1]):
			b.WriteRune(' ')
			digitsStarted = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// clean removes whitespace and upper-cases the input.
// The root locale maps both "i" and "ı" to ASCII "I", which is what plates use.
func clean(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	return cases.Upper(language.Und).String(stripped)
}

// splitTail splits the part after the province code into a leading letter
// run and a trailing digit run
func splitTail(rest []rune) (string, string, bool) {
	var letters, numbers strings.Builder
	for _, r := range rest {
		switch {
		case isLetter(r):
			if numbers.Len() > 0 {
				return "", "", false
			}
			letters.WriteRune(r)
		case isDigit(r):
			numbers.WriteRune(r)
		default:
			return "", "", false
		}
	}
	return letters.String(), numbers.String(), true
}

func digitCountMessage(letters int, allowed []int) string {
	parts := make([]string, len(allowed))
	for i, n := range allowed {
		parts[i] = strconv.Itoa(n)
	}
	noun := "letters"
	if letters == 1 {
		noun = "letter"
	}
	return fmt.Sprintf("digit count must be %s for %d %s", strings.Join(parts, " or "), letters, noun)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
