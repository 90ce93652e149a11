package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/convergent/internal/session"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrorFloor is the lowest log10 error reported; exact rows would otherwise
// be -Inf.
const ErrorFloor = -17.0

// ErrorSeries returns, per convergent, the log10 relative error and the
// log10 of the scale factor.
func ErrorSeries(s *session.Session) (errs, sizes []float64) {
	n := s.NumOutputs()
	errs = make([]float64, n)
	sizes = make([]float64, n)
	for i := 0; i < n; i++ {
		errs[i] = math.Max(math.Log10(s.RelativeError(i)), ErrorFloor)
		sizes[i] = math.Log10(math.Max(s.RatioScalar(i), 1))
	}
	return errs, sizes
}

// SaveErrorChart writes the error series as an image; the format follows
// the file extension (png, svg, pdf, ...).
func SaveErrorChart(s *session.Session, path string) error {
	errs, sizes := ErrorSeries(s)
	if len(errs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("convergents of %v", s.Input().Values)
	p.X.Label.Text = "convergent"
	p.Y.Label.Text = "log10"

	errPts := make(plotter.XYs, len(errs))
	sizePts := make(plotter.XYs, len(sizes))
	for i := range errs {
		errPts[i].X, errPts[i].Y = float64(i+1), errs[i]
		sizePts[i].X, sizePts[i].Y = float64(i+1), sizes[i]
	}

	errLine, err := plotter.NewLine(errPts)
	if err != nil {
		return err
	}
	sizeLine, err := plotter.NewLine(sizePts)
	if err != nil {
		return err
	}
	sizeLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(plotter.NewGrid(), errLine, sizeLine)
	p.Legend.Add("relative error", errLine)
	p.Legend.Add("scale factor", sizeLine)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
