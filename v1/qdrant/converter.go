package qdrant

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mindloft/wellness/v1/vectordb"
	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// ── Filter Conversion ────────────────────────────────────────────────────────

// scopeFilter builds the effective Qdrant filter for a request: the optional
// user scope and time window become mandatory Must conditions, combined with
// the caller's FilterSet. Returns nil when nothing constrains the query.
func scopeFilter(userID string, window *vectordb.TimeRange, filters *vectordb.FilterSet) *qdrant.Filter {
	var must []*qdrant.Condition

	if userID != "" {
		must = append(must, qdrant.NewMatch(vectordb.PayloadFieldUserID, userID))
	}
	if window != nil {
		dateRange := &qdrant.DatetimeRange{
			Gt:  toTimestamp(window.Gt),
			Gte: toTimestamp(window.Gte),
			Lt:  toTimestamp(window.Lt),
			Lte: toTimestamp(window.Lte),
		}
		if dateRange.Gt != nil || dateRange.Gte != nil || dateRange.Lt != nil || dateRange.Lte != nil {
			must = append(must, qdrant.NewDatetimeRange(vectordb.PayloadFieldCreatedAt, dateRange))
		}
	}

	converted := convertFilterSet(filters)
	if converted == nil {
		if len(must) == 0 {
			return nil
		}
		return &qdrant.Filter{Must: must}
	}
	if len(must) == 0 {
		return converted
	}

	// Nest the user filter so its Should/MustNot semantics survive the AND.
	must = append(must, &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Filter{Filter: converted},
	})
	return &qdrant.Filter{Must: must}
}

// convertFilterSet converts a vectordb.FilterSet to a Qdrant filter.
func convertFilterSet(filters *vectordb.FilterSet) *qdrant.Filter {
	if filters == nil {
		return nil
	}

	filter := &qdrant.Filter{}

	if filters.Must != nil {
		filter.Must = convertConditionSet(filters.Must)
	}
	if filters.Should != nil {
		filter.Should = convertConditionSet(filters.Should)
	}
	if filters.MustNot != nil {
		filter.MustNot = convertConditionSet(filters.MustNot)
	}

	// Return nil if no conditions were added
	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}

	return filter
}

// convertConditionSet converts a vectordb.ConditionSet to Qdrant conditions.
func convertConditionSet(cs *vectordb.ConditionSet) []*qdrant.Condition {
	if cs == nil {
		return nil
	}

	var conditions []*qdrant.Condition
	for _, c := range cs.Conditions {
		conds := convertCondition(c)
		for _, cond := range conds {
			if cond != nil {
				conditions = append(conditions, cond)
			}
		}
	}
	return conditions
}

// convertCondition converts a single vectordb.FilterCondition to Qdrant conditions.
func convertCondition(c vectordb.FilterCondition) []*qdrant.Condition {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return convertMatchCondition(cond)
	case *vectordb.MatchAnyCondition:
		return convertMatchAnyCondition(cond)
	case *vectordb.MatchExceptCondition:
		return convertMatchExceptCondition(cond)
	case *vectordb.NumericRangeCondition:
		return convertNumericRangeCondition(cond)
	case *vectordb.TimeRangeCondition:
		return convertTimeRangeCondition(cond)
	default:
		return nil
	}
}

func convertMatchCondition(c *vectordb.MatchCondition) []*qdrant.Condition {
	key := c.Field
	switch v := c.Value.(type) {
	case string:
		return []*qdrant.Condition{qdrant.NewMatch(key, v)}
	case bool:
		return []*qdrant.Condition{qdrant.NewMatchBool(key, v)}
	case int:
		return []*qdrant.Condition{qdrant.NewMatchInt(key, int64(v))}
	case int64:
		return []*qdrant.Condition{qdrant.NewMatchInt(key, v)}
	case float64:
		// Handle JSON numbers which are float64 by default
		return []*qdrant.Condition{qdrant.NewMatchInt(key, int64(v))}
	default:
		return nil
	}
}

func convertMatchAnyCondition(c *vectordb.MatchAnyCondition) []*qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}
	key := c.Field

	// Detect type from first value
	switch c.Values[0].(type) {
	case string:
		strs := make([]string, len(c.Values))
		for i, v := range c.Values {
			if s, ok := v.(string); ok {
				strs[i] = s
			}
		}
		return []*qdrant.Condition{qdrant.NewMatchKeywords(key, strs...)}
	case int, int64, float64:
		ints := make([]int64, len(c.Values))
		for i, v := range c.Values {
			switch n := v.(type) {
			case int:
				ints[i] = int64(n)
			case int64:
				ints[i] = n
			case float64:
				ints[i] = int64(n)
			}
		}
		return []*qdrant.Condition{qdrant.NewMatchInts(key, ints...)}
	}
	return nil
}

func convertMatchExceptCondition(c *vectordb.MatchExceptCondition) []*qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}
	key := c.Field

	// Detect type from first value
	switch c.Values[0].(type) {
	case string:
		strs := make([]string, len(c.Values))
		for i, v := range c.Values {
			if s, ok := v.(string); ok {
				strs[i] = s
			}
		}
		return []*qdrant.Condition{qdrant.NewMatchExceptKeywords(key, strs...)}
	case int, int64, float64:
		ints := make([]int64, len(c.Values))
		for i, v := range c.Values {
			switch n := v.(type) {
			case int:
				ints[i] = int64(n)
			case int64:
				ints[i] = n
			case float64:
				ints[i] = int64(n)
			}
		}
		return []*qdrant.Condition{qdrant.NewMatchExceptInts(key, ints...)}
	}
	return nil
}

func convertNumericRangeCondition(c *vectordb.NumericRangeCondition) []*qdrant.Condition {
	key := c.Field
	rangeFilter := &qdrant.Range{
		Gt:  c.Range.Gt,
		Gte: c.Range.Gte,
		Lt:  c.Range.Lt,
		Lte: c.Range.Lte,
	}

	if rangeFilter.Gt == nil && rangeFilter.Gte == nil &&
		rangeFilter.Lt == nil && rangeFilter.Lte == nil {
		return nil
	}

	return []*qdrant.Condition{qdrant.NewRange(key, rangeFilter)}
}

func convertTimeRangeCondition(c *vectordb.TimeRangeCondition) []*qdrant.Condition {
	key := c.Field
	dateRange := &qdrant.DatetimeRange{
		Gt:  toTimestamp(c.Range.Gt),
		Gte: toTimestamp(c.Range.Gte),
		Lt:  toTimestamp(c.Range.Lt),
		Lte: toTimestamp(c.Range.Lte),
	}

	if dateRange.Gt == nil && dateRange.Gte == nil &&
		dateRange.Lt == nil && dateRange.Lte == nil {
		return nil
	}

	return []*qdrant.Condition{qdrant.NewDatetimeRange(key, dateRange)}
}

func toTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

// ── Point Conversion ─────────────────────────────────────────────────────────

// buildPoint converts a vectordb.Record into a Qdrant point struct.
// Missing IDs get a fresh UUID; missing timestamps get now().
func buildPoint(record vectordb.Record, now time.Time) *qdrant.PointStruct {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(record.ID),
		Vectors: qdrant.NewVectors(record.Vector...),
		Payload: qdrant.NewValueMap(vectordb.FlattenPayload(record)),
	}
}

// parseSearchResults converts a Qdrant response to vectordb.SearchResult slice.
func parseSearchResults(collectionName string, resp []*qdrant.ScoredPoint) ([]vectordb.SearchResult, error) {
	results := make([]vectordb.SearchResult, 0, len(resp))
	for _, r := range resp {
		id, err := extractPointID(r.Id)
		if err != nil {
			return nil, err
		}

		results = append(results, vectordb.SearchResult{
			ID:             id,
			Score:          r.Score,
			Payload:        convertPayload(r.Payload),
			Vector:         extractOutputVector(r.Vectors),
			CollectionName: collectionName,
		})
	}
	return results, nil
}

// parseScrolledPoints converts retrieved points into vectordb records,
// restoring system fields and metadata from the flattened payload.
func parseScrolledPoints(points []*qdrant.RetrievedPoint) ([]vectordb.Record, error) {
	records := make([]vectordb.Record, 0, len(points))
	for _, p := range points {
		id, err := extractPointID(p.Id)
		if err != nil {
			return nil, err
		}
		records = append(records, vectordb.RecordFromPayload(id, extractOutputVector(p.Vectors), convertPayload(p.Payload)))
	}
	return records, nil
}

// extractPointID extracts a string ID from Qdrant's PointId type.
func extractPointID(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("nil point ID")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return fmt.Sprintf("%d", v.Num), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("unexpected PointId type: %T", v)
	}
}

// convertPayload converts Qdrant's protobuf payload to a generic map.
func convertPayload(payload map[string]*qdrant.Value) map[string]any {
	if payload == nil {
		return nil
	}
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		result[k] = extractValue(v)
	}
	return result
}

// extractValue recursively converts a Qdrant Value to a Go native type.
func extractValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		if val.StructValue == nil {
			return nil
		}
		return convertPayload(val.StructValue.Fields)
	case *qdrant.Value_ListValue:
		if val.ListValue == nil {
			return nil
		}
		items := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			items[i] = extractValue(item)
		}
		return items
	default:
		return nil
	}
}
