package session

import (
	"fmt"

	"github.com/san-kum/convergent/internal/approx"
	"github.com/san-kum/convergent/internal/config"
	"github.com/san-kum/convergent/internal/metrics"
	"github.com/san-kum/convergent/internal/parse"
)

type Settings struct {
	OutputPrecision int  `json:"outputPrecision"`
	ShowPivot       bool `json:"showPivot"`
}

// ModelInput is the input as typed: decimal strings and a pivot mask.
type ModelInput struct {
	Values []string `json:"values"`
	Mask   []bool   `json:"mask"`
}

func DefaultSettings() Settings {
	return Settings{OutputPrecision: config.DefaultOutputPrecision}
}

func DefaultModelInput() ModelInput {
	return ModelInput{
		Values: []string{"3.14159", "1.0"},
		Mask:   []bool{true, true},
	}
}

func (m ModelInput) Clone() ModelInput {
	return ModelInput{
		Values: append([]string(nil), m.Values...),
		Mask:   append([]bool(nil), m.Mask...),
	}
}

type Session struct {
	engine    *approx.Engine
	compute   config.ComputeConfig
	listeners []Listener

	input     ModelInput
	settings  Settings
	algoInput approx.Input

	finished bool
	outputs  []approx.Convergent
	scalars  []float64
	pivots   []int
}

// New creates a session from cfg, or from the defaults when cfg is nil.
// Nothing is computed until Restart or ComputeLines is called.
func New(cfg *config.Config) (*Session, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	settings := Settings{
		OutputPrecision: cfg.Settings.OutputPrecision,
		ShowPivot:       cfg.Settings.ShowPivot,
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	s := &Session{
		engine:   &approx.Engine{},
		compute:  cfg.Compute,
		settings: settings,
	}
	if err := s.applyInput(ModelInput{Values: cfg.Values, Mask: cfg.InputMask()}); err != nil {
		return nil, err
	}
	return s, nil
}

// applyInput parses and installs mi, leaving the session untouched on error.
func (s *Session) applyInput(mi ModelInput) error {
	if len(mi.Values) < 2 {
		return fmt.Errorf("%w: got %d", ErrLength, len(mi.Values))
	}
	in, err := parse.ParseInput(mi.Values, mi.Mask)
	if err != nil {
		return err
	}
	if err := s.engine.SetInput(in); err != nil {
		return err
	}
	s.input = mi.Clone()
	s.algoInput = in
	return nil
}

func validateSettings(st Settings) error {
	if st.OutputPrecision < 1 {
		return fmt.Errorf("%w: output precision %d, want at least 1", ErrInvalidSetting, st.OutputPrecision)
	}
	return nil
}

// Restart discards all convergents and, for short inputs, computes the
// initial batch right away.
func (s *Session) Restart() {
	s.outputs = nil
	s.scalars = nil
	s.pivots = nil
	s.finished = false
	s.engine.Reset()

	for _, l := range s.listeners {
		l.OnFinished(false)
	}

	if s.Len() < s.compute.AutofillMaxLength {
		s.ComputeLines(s.compute.InitialLines)
	}
}

// ComputeLines advances the engine up to n times and returns how many
// convergents were added.
func (s *Session) ComputeLines(n int) int {
	before := len(s.outputs)
	for i := 0; i < n; i++ {
		s.computeStep()
	}
	s.notifyData()
	return len(s.outputs) - before
}

// ComputeMore computes one configured batch.
func (s *Session) ComputeMore() int {
	return s.ComputeLines(s.compute.BatchSize)
}

func (s *Session) computeStep() {
	if s.finished {
		return
	}
	c, ok := s.engine.Step()
	if !ok {
		s.setFinished(true)
		return
	}
	factor, _ := s.engine.RatioFactor()
	pivot, _ := s.engine.CurrentPivot()
	s.outputs = append(s.outputs, c)
	s.scalars = append(s.scalars, factor)
	s.pivots = append(s.pivots, pivot)
}

func (s *Session) setFinished(finished bool) {
	if s.finished == finished {
		return
	}
	s.finished = finished
	for _, l := range s.listeners {
		l.OnDataChanged()
		l.OnFinished(finished)
	}
}

// Reset restores the default input and settings.
func (s *Session) Reset() {
	// the defaults always parse
	_ = s.applyInput(DefaultModelInput())
	s.settings = DefaultSettings()
	s.notifyInputs()
	s.notifySettings()
	s.Restart()
}

func (s *Session) SetInput(mi ModelInput) error {
	if err := s.applyInput(mi); err != nil {
		return err
	}
	s.notifyInputs()
	s.Restart()
	return nil
}

func (s *Session) SetValueFromString(i int, value string) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	mi := s.input.Clone()
	mi.Values[i] = value
	return s.SetInput(mi)
}

func (s *Session) SetMaskValue(i int, enabled bool) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	mi := s.input.Clone()
	mi.Mask[i] = enabled
	return s.SetInput(mi)
}

// SetLength grows the input with enabled "1.0" entries or truncates it.
func (s *Session) SetLength(n int) error {
	if n < 2 {
		return fmt.Errorf("%w: got %d", ErrLength, n)
	}
	mi := s.input.Clone()
	for len(mi.Values) < n {
		mi.Values = append(mi.Values, "1.0")
		mi.Mask = append(mi.Mask, true)
	}
	mi.Values = mi.Values[:n]
	mi.Mask = mi.Mask[:n]
	return s.SetInput(mi)
}

func (s *Session) SetOutputPrecision(p int) error {
	st := s.settings
	st.OutputPrecision = p
	if err := validateSettings(st); err != nil {
		return err
	}
	s.settings = st
	s.notifySettings()
	return nil
}

func (s *Session) SetShowPivot(show bool) {
	s.settings.ShowPivot = show
	s.notifySettings()
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= s.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.Len())
	}
	return nil
}

func (s *Session) Len() int { return len(s.input.Values) }

func (s *Session) Input() ModelInput { return s.input.Clone() }

func (s *Session) Settings() Settings { return s.settings }

func (s *Session) Compute() config.ComputeConfig { return s.compute }

// AlgorithmInput returns the parsed input driving the engine.
func (s *Session) AlgorithmInput() approx.Input { return s.algoInput.Clone() }

func (s *Session) Values() []float64 { return append([]float64(nil), s.algoInput.Ratio...) }

func (s *Session) Mask() []bool { return append([]bool(nil), s.algoInput.Mask...) }

func (s *Session) Finished() bool { return s.finished }

// Outputs returns every convergent computed since the last restart.
func (s *Session) Outputs() []approx.Convergent {
	out := make([]approx.Convergent, len(s.outputs))
	for i, c := range s.outputs {
		out[i] = c.Clone()
	}
	return out
}

func (s *Session) NumOutputs() int { return len(s.outputs) }

func (s *Session) RatioScalar(i int) float64 { return s.scalars[i] }

func (s *Session) Pivot(i int) int { return s.pivots[i] }

func (s *Session) PivotSequence() []int { return append([]int(nil), s.pivots...) }

// Precision returns the engine's current, grown tolerances.
func (s *Session) Precision() []float64 { return s.engine.Precision() }

// Sample returns convergent i with the data needed to score it.
func (s *Session) Sample(i int) metrics.Sample {
	return metrics.Sample{
		Row:    s.outputs[i].Clone(),
		Factor: s.scalars[i],
		Ratio:  s.Values(),
		Mask:   s.Mask(),
	}
}

// Scaled returns the input values at the scale of convergent i.
func (s *Session) Scaled(i int) []float64 {
	return metrics.Scaled(s.Sample(i))
}

func (s *Session) RelativeError(i int) float64 {
	return metrics.RelativeError(s.Sample(i))
}
