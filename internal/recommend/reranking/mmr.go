// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/menurec/internal/recommend"
	"github.com/tomtom215/menurec/internal/recommend/similarity"
)

// maxRerankSize bounds the similarity matrix.
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking over menu items:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// where sim is the Jaccard similarity of the items' features (tags plus
// category). Lambda 1.0 is pure relevance and leaves the order untouched.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct {
	lambda float64
}

// NewMMR creates a reranker; lambda is clamped to [0, 1].
func NewMMR(lambda float64) *MMR {
	return &MMR{lambda: recommend.Clamp01(lambda)}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Lambda returns the relevance weight.
func (m *MMR) Lambda() float64 {
	return m.lambda
}

// Rerank selects up to k items from a list sorted by relevance. Ties in the
// MMR objective go to the earlier item, so lambda 1.0 returns the prefix.
//
//nolint:gocritic // rangeValCopy: ScoredItem is small
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return items
	}
	k = min(k, len(items), maxRerankSize)

	if m.lambda >= 1.0 {
		return items[:k]
	}

	features := make([][]string, len(items))
	for i := range items {
		features[i] = Features(items[i].Item)
	}
	sims := buildSimilarityMatrix(features)

	selected := make([]recommend.ScoredItem, 0, k)
	picked := make([]bool, len(items))
	chosen := make([]int, 0, k)

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}
		bestIdx := -1
		bestMMR := 0.0

		for i, item := range items {
			if picked[i] {
				continue
			}
			maxSim := 0.0
			for _, j := range chosen {
				maxSim = max(maxSim, sims[i][j])
			}
			score := m.lambda*item.Score - (1-m.lambda)*maxSim
			if bestIdx < 0 || score > bestMMR {
				bestMMR = score
				bestIdx = i
			}
		}

		if bestIdx < 0 {
			break
		}
		picked[bestIdx] = true
		chosen = append(chosen, bestIdx)
		selected = append(selected, items[bestIdx])
	}

	return selected
}

// Features returns the diversity features of an item: its tags and its
// category name.
func Features(item *recommend.Item) []string {
	if item == nil {
		return nil
	}
	out := make([]string, 0, len(item.Tags)+1)
	out = append(out, item.Tags...)
	if item.CategoryName != "" {
		out = append(out, "category:"+strings.ToLower(item.CategoryName))
	}
	return out
}

func buildSimilarityMatrix(features [][]string) [][]float64 {
	n := len(features)
	sims := make([][]float64, n)
	for i := range sims {
		sims[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s := similarity.Jaccard(features[i], features[j])
			sims[i][j] = s
			sims[j][i] = s
		}
	}
	return sims
}
