package lifeweeks

import "testing"

func TestWeeksText_Declension(t *testing.T) {
	cases := []struct {
		weeks int
		want  string
	}{
		{1, "1 неделя"},
		{2, "2 недели"},
		{4, "4 недели"},
		{5, "5 недель"},
		{11, "11 недель"},
		{12, "12 недель"},
		{21, "21 неделя"},
		{22, "22 недели"},
		{100, "100 недель"},
		{101, "101 неделя"},
		{111, "111 недель"},
		{1043, "1043 недели"},
	}
	for _, c := range cases {
		if got := WeeksText(c.weeks, CaseNominative, false); got != c.want {
			t.Fatalf("WeeksText(%d): want %q, got %q", c.weeks, c.want, got)
		}
	}
}

func TestWeeksText_Accusative(t *testing.T) {
	if got := WeeksText(21, CaseAccusative, false); got != "21 неделю" {
		t.Fatalf("want %q, got %q", "21 неделю", got)
	}
	if got := WeeksText(2, CaseAccusative, false); got != "2 недели" {
		t.Fatalf("want %q, got %q", "2 недели", got)
	}
}

func TestWeeksText_SpellOut(t *testing.T) {
	if got := WeeksText(1, CaseNominative, true); got != "одна неделя" {
		t.Fatalf("want %q, got %q", "одна неделя", got)
	}
	if got := WeeksText(1, CaseAccusative, true); got != "одну неделю" {
		t.Fatalf("want %q, got %q", "одну неделю", got)
	}
	if got := WeeksText(10, CaseNominative, true); got != "10 недель" {
		t.Fatalf("spell-out only covers 1..9: want %q, got %q", "10 недель", got)
	}
}
