package lifeweeks

import "strconv"

// GrammaticalCase selects the Russian case used when rendering a week count.
type GrammaticalCase string

const (
	CaseNominative GrammaticalCase = "nominative" // "неделя"
	CaseAccusative GrammaticalCase = "accusative" // "неделю"
)

// numberWord spells out 1..9 in the requested case; larger numbers fall back
// to digits.
func numberWord(n int, c GrammaticalCase) string {
	words := map[int][2]string{
		1: {"одна", "одну"},
		2: {"две", "две"},
		3: {"три", "три"},
		4: {"четыре", "четыре"},
		5: {"пять", "пять"},
		6: {"шесть", "шесть"},
		7: {"семь", "семь"},
		8: {"восемь", "восемь"},
		9: {"девять", "девять"},
	}
	w, ok := words[n]
	if !ok {
		return strconv.Itoa(n)
	}
	if c == CaseAccusative {
		return w[1]
	}
	return w[0]
}

// WeeksText renders a week count with the correctly declined form of
// "неделя". With spellOut, counts 1..9 are written as words.
func WeeksText(weeks int, c GrammaticalCase, spellOut bool) string {
	var count string
	if spellOut && weeks >= 1 && weeks <= 9 {
		count = numberWord(weeks, c)
	} else {
		count = strconv.Itoa(weeks)
	}

	switch {
	case weeks%10 == 1 && weeks%100 != 11:
		if c == CaseAccusative {
			return count + " неделю"
		}
		return count + " неделя"
	case weeks%10 >= 2 && weeks%10 <= 4 && (weeks%100 < 12 || weeks%100 > 14):
		return count + " недели"
	default:
		return count + " недель"
	}
}
