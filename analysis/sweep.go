package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/sarchlab/cachesim/simulation"
)

var sweepHeader = []string{
	"Sets", "BlockSize", "Associativity", "Policy", "Organization",
	"Accesses", "Hits", "Misses", "Compulsory", "Capacity", "Conflict",
	"HitRate", "MissRate",
}

// WriteSweepTable writes one aligned row per configuration of a sweep.
func WriteSweepTable(w io.Writer, results []simulation.Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)

	for i, h := range sweepHeader {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw, "\t")

	for _, r := range results {
		row := sweepRow(r)
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw, "\t")
	}

	return tw.Flush()
}

// WriteSweepCSV writes the results of a sweep as CSV, one row per
// configuration.
func WriteSweepCSV(w io.Writer, results []simulation.Result) error {
	csvWriter := csv.NewWriter(w)

	err := csvWriter.Write(sweepHeader)
	if err != nil {
		return err
	}

	for _, r := range results {
		err = csvWriter.Write(sweepRow(r))
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()

	return csvWriter.Error()
}

func sweepRow(r simulation.Result) []string {
	c := r.Config
	s := r.Stats

	return []string{
		strconv.Itoa(c.NumSets),
		strconv.Itoa(c.BlockSize),
		strconv.Itoa(c.Associativity),
		c.Policy.String(),
		c.Organization().String(),
		strconv.FormatUint(s.TotalAccesses, 10),
		strconv.FormatUint(s.Hits, 10),
		strconv.FormatUint(s.Misses, 10),
		strconv.FormatUint(s.Compulsory, 10),
		strconv.FormatUint(s.Capacity, 10),
		strconv.FormatUint(s.Conflict, 10),
		fmt.Sprintf("%.4f", s.HitRate()),
		fmt.Sprintf("%.4f", s.MissRate()),
	}
}
