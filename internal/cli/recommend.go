// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/orchestrator"
)

type recommendOptions struct {
	userID      string
	count       int
	temperature float64
	weather     string
	groupSize   int
	at          string
	timeOfDay   string
	location    string
	device      string
}

func newRecommendCommand(root *rootOptions) *cobra.Command {
	o := &recommendOptions{}
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend menu items for a user",
		Long: `Rank the catalog for a user and print the outcome as JSON.

Examples:
  menurec recommend --catalog items.json --user u1
  menurec recommend --catalog items.json --user u1 --count 3 --temp 30 --weather sunny
  menurec recommend --catalog items.json --user u1 --group 6 --at 2026-07-14T12:30:00Z`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, root, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.userID, "user", "u", "", "user id (required)")
	f.IntVarP(&o.count, "count", "n", 0, "number of items (default: engine.limits.default_count)")
	f.Float64Var(&o.temperature, "temp", 0, "temperature in Celsius")
	f.StringVar(&o.weather, "weather", "", "weather description, e.g. sunny or light rain")
	f.IntVar(&o.groupSize, "group", 0, "party size")
	f.StringVar(&o.at, "at", "", "request time in RFC 3339 (default: now)")
	f.StringVar(&o.timeOfDay, "time-of-day", "", "override the time of day (morning, afternoon, evening, night)")
	f.StringVar(&o.location, "location", "", "opaque location tag")
	f.StringVar(&o.device, "device", "", "opaque device tag")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runRecommend(cmd *cobra.Command, root *rootOptions, o *recommendOptions) error {
	a, err := newApp(root, false)
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := a.seed(cmd.Context()); err != nil {
		return err
	}

	snap, err := o.requestContext(a.engine.Now(), cmd.Flags().Changed("temp"))
	if err != nil {
		return err
	}

	outcome := a.engine.Recommend(cmd.Context(), orchestrator.Request{
		UserID:  o.userID,
		Count:   o.count,
		Context: snap,
	})
	return writeJSON(cmd.OutOrStdout(), outcome)
}

// requestContext builds the request context from the flags.
func (o *recommendOptions) requestContext(now time.Time, hasTemp bool) (*recommend.ContextSnapshot, error) {
	ts := now
	if o.at != "" {
		parsed, err := time.Parse(time.RFC3339, o.at)
		if err != nil {
			return nil, fmt.Errorf("invalid --at: %w", err)
		}
		ts = parsed
	}

	var opts []recommend.ContextOption
	switch {
	case hasTemp:
		opts = append(opts, recommend.WithWeather(o.weather, o.temperature))
	case o.weather != "":
		opts = append(opts, recommend.WithWeatherDescription(o.weather))
	}
	if o.groupSize > 0 {
		opts = append(opts, recommend.WithGroupSize(o.groupSize))
	}
	if o.timeOfDay != "" {
		tod := recommend.TimeOfDay(strings.ToLower(o.timeOfDay))
		switch tod {
		case recommend.Morning, recommend.Afternoon, recommend.Evening, recommend.Night:
		default:
			return nil, fmt.Errorf("invalid --time-of-day %q", o.timeOfDay)
		}
		opts = append(opts, recommend.WithTimeOfDay(tod))
	}
	if o.location != "" {
		opts = append(opts, recommend.WithLocation(o.location))
	}
	if o.device != "" {
		opts = append(opts, recommend.WithDevice(o.device))
	}

	snap := recommend.NewContext(ts, opts...)
	return &snap, nil
}

// closeApp releases the app, logging a close failure.
func closeApp(a *app) {
	if err := a.close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing state store")
	}
}
