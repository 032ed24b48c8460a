package harness

import (
	"bufio"
	"fmt"
	"io"
	"time"
)

var statusLabels = map[Status]string{
	StatusPass:        "PASS",
	StatusFail:        "FAIL",
	StatusHeuristic:   "WARN",
	StatusKnownDefect: "XFAIL",
	StatusFixed:       "XPASS",
	StatusError:       "ERROR",
}

// RenderText writes a human-readable report grouped by class.
//
// Violations of failing, heuristic and errored scenarios are always shown,
// each with the request it was found in. Verbose adds durations, every
// call made and the violations of known defects.
func RenderText(w io.Writer, r *Report, verbose bool) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "run %s against %s\n", r.RunID, r.BaseURL)
	if verbose {
		fmt.Fprintf(bw, "started %s, took %s\n", r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.Sub(r.StartedAt))
	}

	for _, class := range reportClasses(r.Outcomes) {
		fmt.Fprintf(bw, "\n%s\n", class)
		for _, o := range r.Outcomes {
			if o.Class == class {
				renderOutcome(bw, o, verbose)
			}
		}
	}

	s := r.Summary
	fmt.Fprintf(bw, "\n%d scenarios: %d pass, %d fail, %d heuristic, %d known-defect, %d fixed, %d error\n",
		s.Total, s.Pass, s.Fail, s.Heuristic, s.KnownDefect, s.Fixed, s.Error)

	return bw.Flush()
}

func renderOutcome(w io.Writer, o Outcome, verbose bool) {
	label, ok := statusLabels[o.Status]
	if !ok {
		label = string(o.Status)
	}
	if verbose {
		fmt.Fprintf(w, "  %-5s %s (%s)\n", label, o.Name, o.Duration.Round(time.Millisecond))
		for _, c := range o.Calls {
			fmt.Fprintf(w, "        %s\n", c)
		}
	} else {
		fmt.Fprintf(w, "  %-5s %s\n", label, o.Name)
	}

	if o.Error != "" {
		fmt.Fprintf(w, "        error: %s\n", o.Error)
	}
	if o.Status == StatusPass || (o.Status == StatusKnownDefect && !verbose) {
		return
	}
	for _, f := range o.Violations {
		fmt.Fprintf(w, "        %s\n", f.Violation)
		if f.Request != "" {
			fmt.Fprintf(w, "          at %s\n", f.Request)
		}
	}
}

// reportClasses returns the classes present in outcomes, known classes
// first in their canonical order.
func reportClasses(outcomes []Outcome) []Class {
	present := make(map[Class]bool)
	var extra []Class
	for _, o := range outcomes {
		if !present[o.Class] {
			present[o.Class] = true
			if !isKnownClass(o.Class) {
				extra = append(extra, o.Class)
			}
		}
	}

	var out []Class
	for _, c := range Classes {
		if present[c] {
			out = append(out, c)
		}
	}
	return append(out, extra...)
}

func isKnownClass(c Class) bool {
	for _, k := range Classes {
		if k == c {
			return true
		}
	}
	return false
}
