package ui

import (
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

// FilterConfig bundles tuning parameters for the snapshot search.
type FilterConfig struct {
	MinCoverage float64 // minimal share of the compact query that must match
	MaxSpread   int     // maximal distance between first and last matched byte of the compact id
	MaxResults  int     // upper limit of returned results
}

// snapshotKey is the searchable form of a snapshot id. Ids are mostly dates
// and labels glued together with separators ("2024-03-01", "weekly_12",
// "host.2024-03-01T02:00"), so the search looks at the separated parts and
// at the id with every separator removed.
type snapshotKey struct {
	parts   []string
	compact string
}

func isIDSeparator(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }

func newSnapshotKey(s string) snapshotKey {
	parts := strings.FieldsFunc(strings.ToLower(s), isIDSeparator)
	return snapshotKey{parts: parts, compact: strings.Join(parts, "")}
}

func snapshotKeys(ids []string) []snapshotKey {
	keys := make([]snapshotKey, len(ids))
	for i, id := range ids {
		keys[i] = newSnapshotKey(id)
	}
	return keys
}

// allIndices returns 0..n-1.
func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// searchSnapshots returns the indices of keys matching q, best stage first:
// every query part opening some id part ("03 2024" finds "2024-03-01"), then
// the compact query inside the compact id ("20240301"), then a fuzzy match
// on the compact forms held to cfg's thresholds.
func searchSnapshots(q snapshotKey, keys []snapshotKey, cfg FilterConfig) []int {
	idx := allIndices(len(keys))
	if len(q.parts) == 0 {
		return idx
	}
	if hit := filterByParts(q, keys, idx, cfg.MaxResults); len(hit) > 0 {
		return hit
	}
	if hit := filterByCompact(q, keys, idx, cfg.MaxResults); len(hit) > 0 {
		return hit
	}
	return filterByFuzzy(q, keys, idx, cfg)
}

// partsMatch reports whether every query part is a prefix of some part of k.
func partsMatch(q, k snapshotKey) bool {
	for _, qp := range q.parts {
		found := false
		for _, kp := range k.parts {
			if strings.HasPrefix(kp, qp) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func filterByParts(q snapshotKey, keys []snapshotKey, idx []int, limit int) []int {
	out := make([]int, 0, min(limit, len(idx)))
	for _, i := range idx {
		if partsMatch(q, keys[i]) {
			out = append(out, i)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

func filterByCompact(q snapshotKey, keys []snapshotKey, idx []int, limit int) []int {
	out := make([]int, 0, min(limit, len(idx)))
	for _, i := range idx {
		if strings.Contains(keys[i].compact, q.compact) {
			out = append(out, i)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

// filterByFuzzy ranks the compact ids with sahilm/fuzzy and keeps the matches
// that cover enough of the query without straying across the whole id. A
// query that only scatters over an id is no match at all.
func filterByFuzzy(q snapshotKey, keys []snapshotKey, idx []int, cfg FilterConfig) []int {
	subset := make([]string, len(idx))
	for j, i := range idx {
		subset[j] = keys[i].compact
	}
	out := make([]int, 0)
	for _, mt := range fuzzy.Find(q.compact, subset) {
		if !tightMatch(len(q.compact), mt.MatchedIndexes, cfg) {
			continue
		}
		out = append(out, idx[mt.Index])
		if len(out) >= cfg.MaxResults {
			break
		}
	}
	return out
}

// tightMatch applies the coverage and spread limits to the matched byte
// offsets of one fuzzy hit.
func tightMatch(queryLen int, matched []int, cfg FilterConfig) bool {
	if queryLen == 0 {
		return true
	}
	if float64(len(matched))/float64(queryLen) < cfg.MinCoverage {
		return false
	}
	if len(matched) == 0 {
		return true
	}
	return matched[len(matched)-1]-matched[0] <= cfg.MaxSpread
}
