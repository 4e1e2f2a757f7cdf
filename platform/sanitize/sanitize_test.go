package sanitize

import (
	"regexp"
	"testing"
)

func TestPattern_EscapesMetacharacters(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"biology":   "biology",
		"a.b":       `a\.b`,
		"C++":       `C\+\+`,
		"(x|y)":     `\(x\|y\)`,
		"[a-z]{2}":  `\[a-z\]\{2\}`,
		`^\d+$`:     `\^\\d\+\$`,
		"why? *now": `why\? \*now`,
	}
	for input, want := range cases {
		if got := Pattern(input); got != want {
			t.Fatalf("Pattern(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestPattern_AgreesWithQuoteMeta(t *testing.T) {
	inputs := []string{"", "plain", `.*+?^${}()|[]\`, "ünïcødé (test)", "a-b_c/d"}
	for _, input := range inputs {
		if got, want := Pattern(input), regexp.QuoteMeta(input); got != want {
			t.Fatalf("Pattern(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestPattern_MatchesLiterally(t *testing.T) {
	raw := "f(x) = [1..n]"
	re := regexp.MustCompile("(?i)" + Pattern(raw))

	if !re.MatchString("Notes on F(X) = [1..N] recursion") {
		t.Fatal("expected escaped pattern to match the literal text case-insensitively")
	}
	if re.MatchString("f x = 1 n") {
		t.Fatal("expected escaped pattern not to act as a regex")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("  <b>Explain</b> &lt;script&gt;alert(1)&lt;/script&gt; mitosis ")
	if got != "Explain alert(1) mitosis" {
		t.Fatalf("unexpected output %q", got)
	}
}
