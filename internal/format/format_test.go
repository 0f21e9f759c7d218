package format

import (
	"testing"

	"github.com/coldcutz/brc-core/internal/stationtable"
)

func withMargin(s string) []byte {
	b := make([]byte, len(s)+32)
	copy(b, s)
	return b[:len(s)]
}

// S1 — two stations, simple.
func TestRenderS1TwoStations(t *testing.T) {
	tab := stationtable.New(4)
	for _, r := range []struct {
		name string
		temp int32
	}{
		{"Hamburg", 120}, {"Bulawayo", 89}, {"Palembang", 388},
		{"Hamburg", 342}, {"Bulawayo", 224},
	} {
		tab.Insert(withMargin(r.name), r.temp)
	}

	want := "{Bulawayo=8.9/15.7/22.4, Hamburg=12.0/23.1/34.2, Palembang=38.8/38.8/38.8}"
	if got := Render(tab); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// S2 — negatives and single-digit integer part.
func TestRenderS2Negatives(t *testing.T) {
	tab := stationtable.New(4)
	for _, temp := range []int32{-454, -400, 50} {
		tab.Insert(withMargin("Yakutsk"), temp)
	}

	want := "{Yakutsk=-45.4/-26.8/5.0}"
	if got := Render(tab); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// S3 — sort order is byte-wise, not case-folded.
func TestRenderS3ByteWiseSort(t *testing.T) {
	tab := stationtable.New(4)
	tab.Insert(withMargin("aaa"), 10)
	tab.Insert(withMargin("AAA"), 10)

	want := "{AAA=1.0/1.0/1.0, aaa=1.0/1.0/1.0}"
	if got := Render(tab); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// S4 — rounding to one decimal of the mean.
func TestRenderS4RoundingOfMean(t *testing.T) {
	tab := stationtable.New(4)
	for _, temp := range []int32{10, 10, 20} {
		tab.Insert(withMargin("X"), temp)
	}

	want := "{X=1.0/1.3/2.0}"
	if got := Render(tab); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderEmptyTable(t *testing.T) {
	tab := stationtable.New(4)
	if got, want := Render(tab), "{}"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderSwissAgreesWithRender(t *testing.T) {
	fast := stationtable.New(4)
	oracle := stationtable.NewSwissTable(4)
	for _, r := range []struct {
		name string
		temp int32
	}{
		{"Hamburg", 120}, {"Bulawayo", 89}, {"Hamburg", 342},
	} {
		fast.Insert(withMargin(r.name), r.temp)
		oracle.Insert(withMargin(r.name), r.temp)
	}

	if got, want := RenderSwiss(oracle), Render(fast); got != want {
		t.Errorf("RenderSwiss() = %q, Render() = %q, want equal", got, want)
	}
}
