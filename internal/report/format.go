package report

import (
	"fmt"
	"strconv"

	"github.com/ja7ad/covsum/internal/coverage"
)

// CSVHeader is the first line of the summary file.
const CSVHeader = "fn,func_cov,num_func,%,bb_cov,num_bb,%"

// TotalLabel labels the aggregate row of the summary file.
const TotalLabel = "Total"

// FormatPercent renders p with two decimals.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// ConsoleLine renders one processed file for the console.
func ConsoleLine(label string, c coverage.Counts) string {
	return fmt.Sprintf("%s : %s", label, consoleCounts(c))
}

// TotalLine renders the final console line. files is the number of
// discovered inputs, which includes skipped ones.
func TotalLine(files int, c coverage.Counts) string {
	return fmt.Sprintf("Total: %d files, %s", files, consoleCounts(c))
}

func consoleCounts(c coverage.Counts) string {
	return fmt.Sprintf("%d/%d (%s%%) func cov, %d/%d (%s%%) bb cov",
		c.FuncsCovered, c.FuncsTotal, FormatPercent(c.FuncPercent()),
		c.BlocksCovered, c.BlocksTotal, FormatPercent(c.BlockPercent()))
}

// CSVLine renders one summary row without a trailing newline.
func CSVLine(label string, c coverage.Counts) string {
	return fmt.Sprintf("%s,%d,%d,%s%%,%d,%d,%s%%", label,
		c.FuncsCovered, c.FuncsTotal, FormatPercent(c.FuncPercent()),
		c.BlocksCovered, c.BlocksTotal, FormatPercent(c.BlockPercent()))
}
