// Menurec - Restaurant Menu Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package reranking diversifies an already ranked recommendation list.
//
// Rerankers run after scoring and before truncation:
//
//	Filter -> Score -> Sort -> Rerank -> Limit
//
// # MMR
//
// Maximal Marginal Relevance iteratively picks the item that maximizes
//
//	lambda * score(i) - (1-lambda) * max_similarity(i, selected)
//
// Similarity is the Jaccard index of item features: tags and the lowercase
// category name. Lambda guidelines:
//   - 1.0: pure relevance, the ranked order is returned unchanged (default)
//   - 0.7-0.9: mild push toward different categories and tags
//   - below 0.5: diversity dominates
//
// Complexity is O(k * n^2) time and O(n^2) space, so the orchestrator only
// reranks the filtered candidate set.
//
// Rerankers are stateless and safe for concurrent use.
package reranking
