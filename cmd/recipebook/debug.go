package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func newDebugCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:    "debug",
		Short:  "Inspect the client",
		Hidden: true,
	}

	var prefix string
	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print the metrics recorded while restoring the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.open(cmd.Context()); err != nil {
				return err
			}
			reg, err := do.Invoke[*prometheus.Registry](c.injector)
			if err != nil {
				return err
			}
			families, err := reg.Gather()
			if err != nil {
				return err
			}

			var rows []string
			for _, mf := range families {
				if !strings.HasPrefix(mf.GetName(), prefix) {
					continue
				}
				for _, m := range mf.GetMetric() {
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s", mf.GetName(), labels(m), value(mf.GetType(), m)))
				}
			}
			sort.Strings(rows)
			return c.table("NAME\tLABELS\tVALUE", rows)
		},
	}
	metricsCmd.Flags().StringVar(&prefix, "prefix", "recipebook_", "Only show metrics with this name prefix")

	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Print a summary of the current snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			s := app.Snapshot()
			user := "-"
			if s.User != nil {
				user = fmt.Sprintf("%s (%s)", s.User.Username, s.User.Role)
			}
			return c.table("FIELD\tVALUE", []string{
				fmt.Sprintf("phase\t%s", s.Phase),
				fmt.Sprintf("user\t%s", user),
				fmt.Sprintf("theme\t%s", s.Theme),
				fmt.Sprintf("recipes\t%d", len(s.Recipes)),
				fmt.Sprintf("newsletters\t%d of %d", len(s.Newsletters), s.NewsletterTotal),
				fmt.Sprintf("shopping items\t%d", len(s.ShoppingList)),
				fmt.Sprintf("version\t%d", s.Version),
			})
		},
	}

	cmd.AddCommand(metricsCmd, stateCmd)
	return cmd
}

func labels(m *dto.Metric) string {
	pairs := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
	}
	if len(pairs) == 0 {
		return "-"
	}
	return strings.Join(pairs, ",")
}

func value(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", m.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", m.GetGauge().GetValue())
	case dto.MetricType_HISTOGRAM:
		h := m.GetHistogram()
		return fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
	case dto.MetricType_SUMMARY:
		s := m.GetSummary()
		return fmt.Sprintf("count=%d sum=%g", s.GetSampleCount(), s.GetSampleSum())
	default:
		return fmt.Sprintf("%g", m.GetUntyped().GetValue())
	}
}
