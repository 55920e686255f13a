package coverage

// Map holds the coverage of one input file: function name to basic block id
// to covered flag.
type Map map[string]map[string]bool

// Counts summarizes one Map.
type Counts struct {
	FuncsTotal    int
	FuncsCovered  int
	BlocksTotal   int
	BlocksCovered int
}

// Count reduces m to its function and basic block counts. A function is
// covered when at least one of its blocks is covered, so a function without
// blocks is never covered.
func Count(m Map) Counts {
	var c Counts
	c.FuncsTotal = len(m)
	for _, blocks := range m {
		c.BlocksTotal += len(blocks)
		covered := 0
		for _, hit := range blocks {
			if hit {
				covered++
			}
		}
		if covered > 0 {
			c.FuncsCovered++
			c.BlocksCovered += covered
		}
	}
	return c
}

// Add returns the field-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		FuncsTotal:    c.FuncsTotal + o.FuncsTotal,
		FuncsCovered:  c.FuncsCovered + o.FuncsCovered,
		BlocksTotal:   c.BlocksTotal + o.BlocksTotal,
		BlocksCovered: c.BlocksCovered + o.BlocksCovered,
	}
}

func (c Counts) FuncPercent() float64 {
	return Percent(c.FuncsCovered, c.FuncsTotal)
}

func (c Counts) BlockPercent() float64 {
	return Percent(c.BlocksCovered, c.BlocksTotal)
}

// Percent returns covered/total*100, or exactly 0 when total is 0.
func Percent(covered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(covered) / float64(total) * 100
}

// Totals accumulates Counts over the processed files.
type Totals struct {
	Counts
	Files int
}

// Add folds one file's counts into t and returns the result. t is not
// modified.
func (t Totals) Add(c Counts) Totals {
	return Totals{Counts: t.Counts.Add(c), Files: t.Files + 1}
}
