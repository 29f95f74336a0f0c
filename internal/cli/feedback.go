// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/menurec/internal/recommend"
)

// eventResult is printed after a feedback or order command.
type eventResult struct {
	Status    string                       `json:"status"`
	Profile   *recommend.UserProfile       `json:"profile"`
	Metrics   recommend.PerformanceMetrics `json:"metrics"`
	Persisted bool                         `json:"persisted"`
}

func newFeedbackCommand(root *rootOptions) *cobra.Command {
	var event recommend.FeedbackEvent
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Record a rating for an item",
		Long: `Record a 0-5 rating with an optional comment. The rating refines the
user's ingredient and category preferences.

Examples:
  menurec feedback --catalog items.json --user u1 --item paneer-tikka --rating 5
  menurec feedback --catalog items.json --state ./state --user u1 --item dal --rating 2 --comment "too salty"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			if err := a.seed(ctx); err != nil {
				return err
			}
			if err := a.engine.Refine(ctx, event); err != nil {
				return err
			}
			return finishEvent(cmd, a, event.UserID)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&event.UserID, "user", "u", "", "user id (required)")
	f.StringVar(&event.ItemID, "item", "", "item id (required)")
	f.Float64Var(&event.Rating, "rating", 0, "rating from 0 to 5 (required)")
	f.StringVar(&event.Comment, "comment", "", "free-text comment")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

func newOrderCommand(root *rootOptions) *cobra.Command {
	var event recommend.OrderEvent
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Record an order",
		Long: `Record that a user ordered an item. The first order ends cold start
for the user; orders above the user's budget widen it.

Example:
  menurec order --catalog items.json --state ./state --user u1 --item dal --quantity 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(root, false)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			if err := a.seed(ctx); err != nil {
				return err
			}
			if err := a.engine.RecordOrder(ctx, event); err != nil {
				return err
			}
			return finishEvent(cmd, a, event.UserID)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&event.UserID, "user", "u", "", "user id (required)")
	f.StringVar(&event.ItemID, "item", "", "item id (required)")
	f.IntVarP(&event.Quantity, "quantity", "q", 1, "quantity ordered")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// finishEvent persists the state and prints the user's updated profile.
func finishEvent(cmd *cobra.Command, a *app, userID string) error {
	if err := a.persist(); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), eventResult{
		Status:    "recorded",
		Profile:   a.engine.Profiles().Get(userID),
		Metrics:   a.engine.Metrics(),
		Persisted: a.store != nil,
	})
}
