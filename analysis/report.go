// Package analysis renders the results of cache simulations.
package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sarchlab/cachesim/mem/cache"
)

// CacheView is the read-only part of a simulator that the report needs.
type CacheView interface {
	Config() cache.Config
	Stats() cache.Statistics
	Line(setID, wayID int) cache.Line
}

var (
	heading = color.New(color.FgCyan, color.Bold)
	rule    = strings.Repeat("-", 46)
	endRule = strings.Repeat("=", 46)
)

// WriteSummary writes the single-line summary: accesses, hit rate, miss rate
// and the compulsory, capacity and conflict shares of the misses.
func WriteSummary(w io.Writer, s cache.Statistics) error {
	_, err := fmt.Fprintf(w, "%d %.4f %.4f %.2f %.2f %.2f\n",
		s.TotalAccesses,
		s.HitRate(),
		s.MissRate(),
		s.CompulsoryFraction(),
		s.CapacityFraction(),
		s.ConflictFraction(),
	)

	return err
}

// WriteReport writes the human-readable report, including the value held by
// every line.
func WriteReport(w io.Writer, v CacheView) error {
	rw := &reportWriter{w: w}
	c := v.Config()
	s := v.Stats()

	rw.heading("CACHE CONTENTS")
	for setID := 0; setID < c.NumSets; setID++ {
		rw.printf("Set %d", setID)

		for wayID := 0; wayID < c.Associativity; wayID++ {
			rw.printf("\tWay %d value: %s", wayID, lineValue(v.Line(setID, wayID)))
		}

		rw.printf("\n")
	}

	rw.printf("\n")
	rw.heading("CONFIGURATION")
	rw.printf("Number of Sets: %d\tBlock Size: %d\tAssociativity: %d\n",
		c.NumSets, c.BlockSize, c.Associativity)
	rw.printf("Organization: %s\n", c.Organization())
	rw.printf("Replacement Policy: %s\n", c.Policy)

	rw.printf("%s\n", rule)
	rw.printf("Accesses\t| %d\n", s.TotalAccesses)
	rw.printf("Hits\t\t| %d (%s)\n", s.Hits, percent(s.HitRate()))
	rw.printf("Misses\t\t| %d (%s)\n", s.Misses, percent(s.MissRate()))
	rw.printf("%s\n", rule)
	rw.printf("Compulsory Misses\t| %d (%s)\n",
		s.Compulsory, percent(s.CompulsoryFraction()))
	rw.printf("Capacity Misses\t\t| %d (%s)\n",
		s.Capacity, percent(s.CapacityFraction()))
	rw.printf("Conflict Misses\t\t| %d (%s)\n",
		s.Conflict, percent(s.ConflictFraction()))
	rw.printf("%s\n", endRule)

	return rw.err
}

func lineValue(l cache.Line) string {
	if !l.Valid {
		return "-1"
	}

	return fmt.Sprintf("%d", int32(l.Value))
}

func percent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}

// reportWriter keeps the first write error so that the report body can be
// written without checking every line.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}

	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

func (rw *reportWriter) heading(title string) {
	if rw.err != nil {
		return
	}

	_, rw.err = heading.Fprintln(rw.w, title)
}
