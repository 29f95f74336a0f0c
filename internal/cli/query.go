// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/menurec/internal/cache"
	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/profile"
	"github.com/tomtom215/menurec/internal/recommend/trending"
)

// bridgeStatsTimeout bounds the performance query to the ml bridge.
const bridgeStatsTimeout = 5 * time.Second

type trendingResult struct {
	Window  trending.Window  `json:"window"`
	Entries []trending.Entry `json:"entries"`
}

func newTrendingCommand(root *rootOptions) *cobra.Command {
	var (
		window string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "trending",
		Short: "List trending items",
		Long: `List tracked items by trending score. Items ordered within the window
are marked in_window.

Examples:
  menurec trending --catalog items.json
  menurec trending --catalog items.json --state ./state --window 7d --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.seed(cmd.Context()); err != nil {
				return err
			}

			w := trending.ParseWindow(window)
			entries := a.engine.Trending().TrendingEntries(string(w))
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return writeJSON(cmd.OutOrStdout(), trendingResult{Window: w, Entries: entries})
		},
	}
	cmd.Flags().StringVarP(&window, "window", "w", string(trending.DefaultWindow), "window: 1h, 24h, 7d or 30d")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum entries (default: engine.trending.top_n)")
	return cmd
}

type similarUsersResult struct {
	UserID    string             `json:"user_id"`
	Neighbors []profile.Neighbor `json:"neighbors"`
}

func newSimilarUsersCommand(root *rootOptions) *cobra.Command {
	var (
		userID string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "similar-users",
		Short: "List the users most similar to a user",
		Long: `Rank the known users by profile similarity to a user.

Example:
  menurec similar-users --catalog items.json --user u1 --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.seed(cmd.Context()); err != nil {
				return err
			}
			neighbors := a.engine.Profiles().SimilarUsers(userID, limit)
			if neighbors == nil {
				neighbors = []profile.Neighbor{}
			}
			return writeJSON(cmd.OutOrStdout(), similarUsersResult{UserID: userID, Neighbors: neighbors})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id (required)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "maximum users")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

type bridgeStats struct {
	Breaker    string         `json:"breaker"`
	Cache      cache.Stats    `json:"cache"`
	Model      map[string]any `json:"model,omitempty"`
	ModelError string         `json:"model_error,omitempty"`
}

type statsResult struct {
	Scoring     string                       `json:"scoring"`
	Feedback    string                       `json:"feedback"`
	Profiles    int                          `json:"profiles"`
	Performance recommend.PerformanceMetrics `json:"performance"`
	Trending    trending.OverallStats        `json:"trending"`
	Bridge      *bridgeStats                 `json:"ml_bridge,omitempty"`
}

func newStatsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show engine statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.seed(cmd.Context()); err != nil {
				return err
			}

			res := statsResult{
				Scoring:     a.engine.Scoring().Name(),
				Feedback:    a.engine.Feedback().Name(),
				Profiles:    a.engine.Profiles().Count(),
				Performance: a.engine.Metrics(),
				Trending:    a.engine.Trending().OverallStats(),
			}
			if a.bridge != nil {
				res.Bridge = a.bridgeStats(cmd.Context())
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func (a *app) bridgeStats(ctx context.Context) *bridgeStats {
	bs := &bridgeStats{
		Breaker: a.bridge.BreakerState(),
		Cache:   a.bridge.CacheStats(),
	}

	ctx, cancel := context.WithTimeout(ctx, bridgeStatsTimeout)
	defer cancel()
	model, err := a.bridge.Performance(ctx)
	if err != nil {
		bs.ModelError = err.Error()
		return bs
	}
	bs.Model = model
	return bs
}
