package locfilter

import "testing"

func TestAccuracyFactor(t *testing.T) {
	fl := New(nil)
	cases := []struct {
		accuracy float64
		want     float64
	}{
		{0.1, 190}, // the acceptable band is open at the bottom
		{0.11, AccuracyAcceptable},
		{10, AccuracyAcceptable},
		{19, AccuracyAcceptable},
		{19.5, 19 / 19.5},
		{25, 0.76},
		{0, 1},
		{-1, 1},
	}
	for _, c := range cases {
		if got := fl.AccuracyFactor(c.accuracy); !near(got, c.want, epsilon) {
			t.Errorf("accuracy %v: got %v, want %v", c.accuracy, got, c.want)
		}
	}
}
