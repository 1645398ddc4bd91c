package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	ilp "github.com/LucasGabrielFontes/BranchAndBound"
)

type result struct {
	File       string    `json:"file"`
	Status     string    `json:"status"`
	Objective  *float64  `json:"objective,omitempty"`
	Assignment []int     `json:"assignment,omitempty"`
	Stats      ilp.Stats `json:"stats"`
	Verified   bool      `json:"verified,omitempty"`
}

func newResult(path string, sol ilp.Solution) result {
	r := result{
		File:   path,
		Status: sol.Status.String(),
		Stats:  sol.Stats,
	}
	if sol.Feasible() {
		z := sol.Objective
		r.Objective = &z
		r.Assignment = sol.Assignment
	}
	return r
}

func writeResults(w io.Writer, format string, results []result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "text":
		for _, r := range results {
			if _, err := io.WriteString(w, r.text()); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.Errorf("unknown output format %q", format)
}

func (r result) text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", r.File, r.Status)
	if r.Objective == nil {
		sb.WriteString("  no feasible integer solution\n")
	} else {
		fmt.Fprintf(&sb, "  objective: %s\n", strconv.FormatFloat(*r.Objective, 'g', -1, 64))
		fmt.Fprintf(&sb, "  x: %v\n", r.Assignment)
	}
	fmt.Fprintf(&sb, "  nodes: %d (max depth %d)\n", r.Stats.NodesEvaluated, r.Stats.MaxDepth)
	if r.Verified {
		sb.WriteString("  verified by enumeration\n")
	}
	return sb.String()
}

func writeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
