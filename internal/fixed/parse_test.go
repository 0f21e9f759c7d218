package fixed

import "testing"

func withMargin(s string) []byte {
	b := make([]byte, len(s)+32)
	copy(b, s)
	return b
}

func TestParse(t *testing.T) {
	cases := map[string]int32{
		"9.9":    99,
		"-9.9":   -99,
		"12.3":   123,
		"-99.9":  -999,
		"0.0":    0,
		"45.4":   454,
		"-45.4":  -454,
		"5.0":    50,
	}
	for in, want := range cases {
		got := Parse(withMargin(in))
		if got != want {
			t.Errorf("Parse(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseNegationLaw(t *testing.T) {
	positives := []string{"1.0", "9.9", "12.3", "0.1", "99.9"}
	for _, p := range positives {
		pos := Parse(withMargin(p))
		neg := Parse(withMargin("-" + p))
		if neg != -pos {
			t.Errorf("parse(-%s) = %d, want %d", p, neg, -pos)
		}
	}
}
