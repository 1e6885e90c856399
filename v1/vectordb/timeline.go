package vectordb

import "sort"

// Per-source fetch limits for timeline assembly. Journal entries dominate
// the timeline; sessions and progress snapshots are sparser.
const (
	TimelineJournalLimit  = 100
	TimelineTherapyLimit  = 50
	TimelineProgressLimit = 20
)

// TimelineEntry is one item in a user's merged wellness history.
type TimelineEntry struct {
	// Record is the underlying point
	Record Record `json:"record"`

	// Source is the collection the entry came from
	Source string `json:"source"`
}

// TimelineLimitFor returns the fetch limit for a timeline source collection.
// Collections outside the timeline return 0.
func TimelineLimitFor(collection string) int {
	switch collection {
	case CollectionJournalEntries:
		return TimelineJournalLimit
	case CollectionTherapySessions:
		return TimelineTherapyLimit
	case CollectionProgressTracking:
		return TimelineProgressLimit
	}
	return 0
}

// MergeTimeline combines per-collection record sets into a single history,
// newest first. The sort is stable so same-timestamp entries keep their
// source order.
func MergeTimeline(sources map[string][]Record) []TimelineEntry {
	var entries []TimelineEntry
	for _, source := range []string{
		CollectionJournalEntries,
		CollectionTherapySessions,
		CollectionProgressTracking,
	} {
		for _, record := range sources[source] {
			entries = append(entries, TimelineEntry{Record: record, Source: source})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Record.CreatedAt.After(entries[j].Record.CreatedAt)
	})

	return entries
}
