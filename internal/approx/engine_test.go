package approx_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/convergent/internal/approx"
)

const maxSteps = 500

func runAll(in approx.Input) []approx.Convergent {
	eng, err := approx.New(in)
	Expect(err).NotTo(HaveOccurred())
	return drain(eng)
}

func drain(eng *approx.Engine) []approx.Convergent {
	var out []approx.Convergent
	for i := 0; i < maxSteps; i++ {
		c, ok := eng.Step()
		if !ok {
			return out
		}
		out = append(out, c)
	}
	Fail("engine did not converge")
	return nil
}

func allTrue(n int) []bool {
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = true
	}
	return mask
}

var _ = Describe("Engine", func() {
	Describe("known convergents", func() {
		It("reproduces the continued fraction of pi", func() {
			out := runAll(approx.Input{
				Ratio:     []float64{3.14159, 1},
				Mask:      allTrue(2),
				Precision: []float64{5e-6, 5e-16},
			})
			Expect(out).To(ContainElement(approx.Convergent{3, 1}))
			Expect(out).To(ContainElement(approx.Convergent{22, 7}))
			Expect(out).To(ContainElement(approx.Convergent{333, 106}))
			Expect(out).To(ContainElement(approx.Convergent{355, 113}))
		})

		It("walks the Fibonacci numbers for the golden ratio", func() {
			out := runAll(approx.Input{
				Ratio:     []float64{1.61803398, 1},
				Mask:      allTrue(2),
				Precision: []float64{5e-8, 5e-8},
			})
			Expect(len(out)).To(BeNumerically(">=", 7))
			Expect(out[:7]).To(Equal([]approx.Convergent{
				{1, 1}, {2, 1}, {3, 2}, {5, 3}, {8, 5}, {13, 8}, {21, 13},
			}))
		})

		It("walks the Pell fractions for the square root of two", func() {
			out := runAll(approx.Input{
				Ratio:     []float64{1.41421356, 1},
				Mask:      allTrue(2),
				Precision: []float64{5e-9, 5e-9},
			})
			Expect(len(out)).To(BeNumerically(">=", 6))
			Expect(out[:6]).To(Equal([]approx.Convergent{
				{1, 1}, {3, 2}, {7, 5}, {17, 12}, {41, 29}, {99, 70},
			}))
		})

		It("approximates three quantities at once", func() {
			out := runAll(approx.Input{
				Ratio:     []float64{85.47, 72.65, 21.37},
				Mask:      allTrue(3),
				Precision: []float64{5e-3, 5e-3, 5e-3},
			})
			Expect(out).To(ContainElement(approx.Convergent{4, 3, 1}))
			Expect(out).To(ContainElement(approx.Convergent{8, 7, 2}))
			Expect(out).To(ContainElement(approx.Convergent{20, 17, 5}))
		})

		It("finds the exact four dimensional ratio", func() {
			out := runAll(approx.Input{
				Ratio:     []float64{20, 7, 17, 21.4},
				Mask:      allTrue(4),
				Precision: []float64{5e-8, 5e-8, 5e-8, 5e-15},
			})
			Expect(out).To(ContainElement(approx.Convergent{100, 35, 85, 107}))
		})
	})

	Describe("mask", func() {
		It("still reduces a disabled dimension against the pivots", func() {
			out := runAll(approx.Input{
				Ratio:     []float64{3.14159, 1, 2.5},
				Mask:      []bool{true, true, false},
				Precision: []float64{5e-6, 5e-16, 5e-2},
			})
			Expect(out).To(Equal([]approx.Convergent{
				{3, 1, 2}, {22, 7, 17}, {333, 106, 265}, {355, 113, 282},
			}))
		})

		It("converges immediately when only one dimension is enabled", func() {
			eng, err := approx.New(approx.Input{
				Ratio:     []float64{3.14159, 1},
				Mask:      []bool{false, true},
				Precision: []float64{5e-6, 5e-16},
			})
			Expect(err).NotTo(HaveOccurred())

			_, ok := eng.Step()
			Expect(ok).To(BeFalse())
			Expect(eng.Converged()).To(BeTrue())
			Expect(eng.PivotSequence()).To(BeEmpty())
		})
	})

	Describe("tie break", func() {
		var eng *approx.Engine

		BeforeEach(func() {
			var err error
			eng, err = approx.New(approx.Input{
				Ratio:     []float64{2, 2, 5},
				Mask:      allTrue(3),
				Precision: []float64{1e-3, 1e-3, 1e-3},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("prefers the first of equally simple candidates", func() {
			c, ok := eng.Step()
			Expect(ok).To(BeTrue())
			Expect(c).To(Equal(approx.Convergent{1, 1, 2}))
			Expect(eng.PivotSequence()).To(Equal([]int{0}))
		})

		It("commits only the winning candidate's error growth", func() {
			_, ok := eng.Step()
			Expect(ok).To(BeTrue())

			prec := eng.Precision()
			Expect(prec[0]).To(BeNumerically("~", 1e-3, 1e-15))
			Expect(prec[1]).To(BeNumerically("~", 2e-3, 1e-15))
			Expect(prec[2]).To(BeNumerically("~", 3e-3, 1e-15))
			Expect(eng.Remainder()).To(Equal([]float64{2, 0, 1}))
		})

		It("finishes with the exact ratio", func() {
			Expect(drain(eng)).To(Equal([]approx.Convergent{{1, 1, 2}, {2, 2, 5}}))
		})
	})

	Describe("invariants", func() {
		inputs := []approx.Input{
			{Ratio: []float64{3.14159, 1}, Mask: allTrue(2), Precision: []float64{5e-6, 5e-16}},
			{Ratio: []float64{1.61803398, 1}, Mask: allTrue(2), Precision: []float64{5e-8, 5e-8}},
			{Ratio: []float64{85.47, 72.65, 21.37}, Mask: allTrue(3), Precision: []float64{5e-3, 5e-3, 5e-3}},
			{Ratio: []float64{20, 7, 17, 21.4}, Mask: allTrue(4), Precision: []float64{5e-8, 5e-8, 5e-8, 5e-15}},
			{Ratio: []float64{2, 2, 5}, Mask: allTrue(3), Precision: []float64{1e-3, 1e-3, 1e-3}},
		}

		for _, in := range inputs {
			in := in
			It(fmt.Sprintf("holds step by step for %v", in.Ratio), func() {
				eng, err := approx.New(in)
				Expect(err).NotTo(HaveOccurred())

				prev := eng.Precision()
				for i := 0; i < maxSteps; i++ {
					c, ok := eng.Step()
					if !ok {
						break
					}

					prec := eng.Precision()
					for d := range prec {
						Expect(prec[d]).To(BeNumerically(">=", prev[d]), "precision must not shrink")
					}
					prev = prec

					for _, x := range eng.Remainder() {
						Expect(x).To(BeNumerically(">=", 0))
					}

					seq := eng.PivotSequence()
					if len(seq) > 1 {
						Expect(seq[len(seq)-1]).NotTo(Equal(seq[len(seq)-2]))
					}

					current, err := eng.CurrentApproximation()
					Expect(err).NotTo(HaveOccurred())
					Expect(current).To(Equal(c))

					factor, err := eng.RatioFactor()
					Expect(err).NotTo(HaveOccurred())
					want := approx.MaskedSum(c.Floats(), in.Mask) / approx.MaskedSum(in.Ratio, in.Mask)
					Expect(factor).To(BeNumerically("~", want, 1e-9*math.Max(1, want)))
				}
				Expect(eng.Converged()).To(BeTrue())
			})
		}
	})

	Describe("lifecycle", func() {
		var (
			in  approx.Input
			eng *approx.Engine
		)

		BeforeEach(func() {
			in = approx.Input{
				Ratio:     []float64{3.14159, 1},
				Mask:      allTrue(2),
				Precision: []float64{5e-6, 5e-16},
			}
			var err error
			eng, err = approx.New(in)
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports no convergent before the first step", func() {
			_, err := eng.CurrentPivot()
			Expect(err).To(MatchError(approx.ErrNoConvergent))
			_, err = eng.CurrentApproximation()
			Expect(err).To(MatchError(approx.ErrNoConvergent))
			_, err = eng.RatioFactor()
			Expect(err).To(MatchError(approx.ErrNoConvergent))
			Expect(eng.PivotSequence()).To(BeEmpty())
		})

		It("stays converged once terminal", func() {
			drain(eng)
			for i := 0; i < 3; i++ {
				_, ok := eng.Step()
				Expect(ok).To(BeFalse())
			}
		})

		It("stops instead of emitting a row beyond int64", func() {
			huge, err := approx.New(approx.Input{
				Ratio:     []float64{1e20, 1},
				Mask:      allTrue(2),
				Precision: []float64{5e19, 5e-15},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(drain(huge)).To(BeEmpty())
			Expect(huge.Converged()).To(BeTrue())
			Expect(huge.PivotSequence()).To(BeEmpty())
			Expect(huge.Remainder()).To(Equal([]float64{1e20, 1}))
			_, err = huge.CurrentApproximation()
			Expect(err).To(MatchError(approx.ErrNoConvergent))
		})

		It("replays the same sequence after reset", func() {
			first := drain(eng)
			eng.Reset()
			Expect(eng.Converged()).To(BeFalse())
			Expect(eng.Precision()).To(Equal(in.Precision))
			Expect(eng.Remainder()).To(Equal(in.Ratio))
			Expect(drain(eng)).To(Equal(first))
		})

		It("does not touch the caller's slices", func() {
			drain(eng)
			Expect(in.Precision).To(Equal([]float64{5e-6, 5e-16}))
			Expect(in.Ratio).To(Equal([]float64{3.14159, 1}))
		})

		It("restarts from scratch on new input", func() {
			drain(eng)
			Expect(eng.SetInput(approx.Input{
				Ratio:     []float64{1.61803398, 1},
				Mask:      allTrue(2),
				Precision: []float64{5e-8, 5e-8},
			})).To(Succeed())

			c, ok := eng.Step()
			Expect(ok).To(BeTrue())
			Expect(c).To(Equal(approx.Convergent{1, 1}))
			Expect(eng.PivotSequence()).To(Equal([]int{1}))
		})

		It("keeps its state when new input is rejected", func() {
			c, ok := eng.Step()
			Expect(ok).To(BeTrue())

			err := eng.SetInput(approx.Input{Ratio: []float64{1}, Mask: []bool{true}, Precision: []float64{0}})
			Expect(err).To(MatchError(approx.ErrInvalidInput))

			current, err := eng.CurrentApproximation()
			Expect(err).NotTo(HaveOccurred())
			Expect(current).To(Equal(c))
		})
	})

	Describe("validation", func() {
		DescribeTable("rejects malformed input",
			func(in approx.Input, want error) {
				_, err := approx.New(in)
				Expect(err).To(MatchError(want))

				var inputErr *approx.InputError
				Expect(err).To(BeAssignableToTypeOf(inputErr))
			},
			Entry("single dimension", approx.Input{Ratio: []float64{1}, Mask: []bool{true}, Precision: []float64{0}}, approx.ErrInvalidInput),
			Entry("short mask", approx.Input{Ratio: []float64{1, 2}, Mask: []bool{true}, Precision: []float64{0, 0}}, approx.ErrInvalidInput),
			Entry("long precision", approx.Input{Ratio: []float64{1, 2}, Mask: allTrue(2), Precision: []float64{0, 0, 0}}, approx.ErrInvalidInput),
			Entry("negative precision", approx.Input{Ratio: []float64{1, 2}, Mask: allTrue(2), Precision: []float64{0, -1}}, approx.ErrInvalidInput),
			Entry("zero ratio", approx.Input{Ratio: []float64{0, 2}, Mask: allTrue(2), Precision: []float64{0, 0}}, approx.ErrUndefinedDomain),
			Entry("negative ratio", approx.Input{Ratio: []float64{1, -2}, Mask: allTrue(2), Precision: []float64{0, 0}}, approx.ErrUndefinedDomain),
			Entry("NaN ratio", approx.Input{Ratio: []float64{math.NaN(), 2}, Mask: allTrue(2), Precision: []float64{0, 0}}, approx.ErrUndefinedDomain),
		)

		It("names the offending entry", func() {
			_, err := approx.New(approx.Input{Ratio: []float64{1, -2}, Mask: allTrue(2), Precision: []float64{0, 0}})
			Expect(err).To(MatchError(ContainSubstring("ratio[1]")))
		})

		It("accepts the default input", func() {
			Expect(approx.DefaultInput().Validate()).To(Succeed())
		})
	})

	It("is inert as a zero value", func() {
		var eng approx.Engine
		_, ok := eng.Step()
		Expect(ok).To(BeFalse())
	})
})
