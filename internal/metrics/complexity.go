package metrics

type Complexity struct {
	name string
	sum  int64
}

func NewComplexity() *Complexity {
	return &Complexity{name: "complexity"}
}

func (c *Complexity) Name() string { return c.name }

func (c *Complexity) Observe(s Sample) {
	c.sum = 0
	for _, v := range s.Row {
		c.sum += v
	}
}

func (c *Complexity) Value() float64 { return float64(c.sum) }

func (c *Complexity) Reset() { c.sum = 0 }

type Steps struct {
	name  string
	count int
}

func NewSteps() *Steps {
	return &Steps{name: "steps"}
}

func (s *Steps) Name() string { return s.name }

func (s *Steps) Observe(Sample) { s.count++ }

func (s *Steps) Value() float64 { return float64(s.count) }

func (s *Steps) Reset() { s.count = 0 }
