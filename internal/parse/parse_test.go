package parse

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func TestPrecisionFromString(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3.14159", 5e-6},
		{"1.61803398", 5e-9},
		{"1.0", 5e-15},
		{"21.4", 5e-2},
		{"20", 5},
		{"1", 0.5},
		{"7", 0.5},
		{"200", 50},
		{"0.001", 5e-4},
		{"85.47", 5e-3},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := PrecisionFromString(tt.in)
			if err != nil {
				t.Fatalf("PrecisionFromString(%q): %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > tt.want*1e-9 {
				t.Errorf("PrecisionFromString(%q) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	g := NewWithT(t)

	v, err := ParseValue(" 3.14159 ")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(v).To(Equal(3.14159))

	for _, bad := range []string{"", "abc", "1.2.3", "1e5", "0x10", "inf", "NaN", "."} {
		_, err := ParseValue(bad)
		g.Expect(err).To(MatchError(ErrNotANumber), "input %q", bad)
	}

	_, err = ParseValue("-1.5")
	g.Expect(err).To(MatchError(ErrNegative))
}

func TestParseInput(t *testing.T) {
	g := NewWithT(t)

	in, err := ParseInput([]string{"3.14159", "1.0"}, []bool{true, false})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(in.Ratio).To(Equal([]float64{3.14159, 1}))
	g.Expect(in.Mask).To(Equal([]bool{true, false}))
	g.Expect(in.Precision[0]).To(BeNumerically("~", 5e-6, 1e-18))
	g.Expect(in.Precision[1]).To(BeNumerically("~", 5e-15, 1e-27))
	g.Expect(in.Validate()).To(Succeed())
}

func TestParseInput_Errors(t *testing.T) {
	g := NewWithT(t)

	_, err := ParseInput([]string{"1", "2"}, []bool{true})
	g.Expect(err).To(MatchError(ErrLength))

	_, err = ParseInput([]string{"1", "x"}, []bool{true, true})
	g.Expect(err).To(MatchError(ErrNotANumber))
	g.Expect(err.Error()).To(ContainSubstring("value 1"))
}
