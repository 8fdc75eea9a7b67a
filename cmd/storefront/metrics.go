package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

func reportMetrics(ctx context.Context, logg *logger.Logger, out io.Writer, reg prometheus.Gatherer) {
	if err := printMetrics(out, reg); err != nil {
		logg.Error(ctx, "could not print metrics", err)
	}
}

// printMetrics writes every counter in reg as name{labels} value.
func printMetrics(out io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range family.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s{%s} %g", family.GetName(), labelString(m.GetLabel()), m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func labelString(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return strings.Join(parts, ",")
}
