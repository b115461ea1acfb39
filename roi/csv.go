package roi

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

// WriteRecords writes one row per ROI and one column per metric. Columns are
// the ordered union of every record's metrics, so ROIs missing an optional
// metric (for example surface area) leave that cell empty. NaN and +Inf
// sentinels are written literally; downstream consumers depend on them.
func WriteRecords(path string, records map[string]*Record) error {
	roiNames := sortedKeys(records)

	var columns []string
	seen := make(map[string]bool)
	for _, roi := range roiNames {
		for _, name := range records[roi].Names() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := append([]string{"roi"}, columns...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, roi := range roiNames {
		row := make([]string, 0, len(header))
		row = append(row, roi)
		for _, col := range columns {
			if v, ok := records[roi].Get(col); ok {
				row = append(row, formatValue(v))
			} else {
				row = append(row, "")
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// Curves holds the two summary curves of one temporal ROI.
type Curves struct {
	Mean []float64
	Std  []float64
}

// WriteCurves writes the mean/std curves of every ROI to one table: a
// timepoint column plus <roi>_mean and <roi>_std columns per ROI.
func WriteCurves(path string, curves map[string]Curves) error {
	roiNames := sortedKeys(curves)

	length := 0
	for _, c := range curves {
		if len(c.Mean) > length {
			length = len(c.Mean)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"timepoint"}
	for _, roi := range roiNames {
		header = append(header, roi+"_mean", roi+"_std")
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for t := 0; t < length; t++ {
		row := []string{strconv.Itoa(t)}
		for _, roi := range roiNames {
			c := curves[roi]
			row = append(row, curveCell(c.Mean, t), curveCell(c.Std, t))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func curveCell(curve []float64, t int) string {
	if t >= len(curve) {
		return ""
	}
	return formatValue(curve[t])
}

func formatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
