package vectordb

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// Clustering defaults. The window and fetch cap bound how much history a
// single clustering run pulls from the database.
const (
	DefaultClusterCount  = 5
	DefaultMaxIterations = 100
	DefaultEpsilon       = 1e-4
	DefaultClusterWindow = 30 // days
	DefaultClusterFetch  = 1000
)

// ClusterOptions configures a k-means run.
type ClusterOptions struct {
	// K is the number of clusters. Capped at the number of input records.
	K int

	// MaxIterations bounds the Lloyd iterations
	MaxIterations int

	// Epsilon is the centroid-shift threshold below which the run converges
	Epsilon float64

	// Seed makes runs reproducible. Zero uses a fixed default seed so
	// repeated runs over the same data yield the same clusters.
	Seed int64
}

func (o ClusterOptions) withDefaults() ClusterOptions {
	if o.K <= 0 {
		o.K = DefaultClusterCount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	return o
}

// Cluster is one k-means cluster over a user's mental-health vectors.
type Cluster struct {
	// Centroid is the mean of the member vectors (unit length)
	Centroid []float32

	// Members are the records assigned to this cluster
	Members []Record
}

// ClusterCharacteristics summarizes the payloads of one cluster.
type ClusterCharacteristics struct {
	// Size is the number of member records
	Size int `json:"size"`

	// AvgMoodScore is the mean of the members' mood_score fields
	AvgMoodScore float64 `json:"avgMoodScore"`

	// MoodRange is the [min, max] of observed mood scores
	MoodRange [2]float64 `json:"moodRange"`

	// CommonTriggers are the three most frequent trigger values
	CommonTriggers []string `json:"commonTriggers"`

	// DominantThemes are the three most frequent theme values
	DominantThemes []string `json:"dominantThemes"`
}

// PatternInsight is the user-facing output of a clustering run.
type PatternInsight struct {
	// ClusterID indexes the cluster within this run
	ClusterID int `json:"clusterId"`

	// Characteristics summarizes the cluster's payload data
	Characteristics ClusterCharacteristics `json:"characteristics"`

	// Insight is a human-readable one-line description
	Insight string `json:"insight"`
}

// KMeans clusters the records' vectors with k-means.
//
// The algorithm:
//   - L2-normalizes all vectors so cosine similarity reduces to dot product
//   - seeds centroids with k-means++ (squared-distance weighted sampling)
//   - iterates assignment and centroid update until the maximum centroid
//     shift drops below Epsilon or MaxIterations is reached
//
// Fewer records than K collapses to one singleton cluster per record.
// No records returns ErrInsufficientData. Records with empty vectors
// return ErrEmptyVector; mixed dimensions return ErrDimensionMismatch.
func KMeans(records []Record, opts ClusterOptions) ([]Cluster, error) {
	opts = opts.withDefaults()

	if len(records) == 0 {
		return nil, ErrInsufficientData
	}

	dim := len(records[0].Vector)
	if dim == 0 {
		return nil, ErrEmptyVector
	}
	for _, r := range records {
		if len(r.Vector) != dim {
			return nil, fmt.Errorf("%w: expected %d dimensions, got %d", ErrDimensionMismatch, dim, len(r.Vector))
		}
	}

	k := opts.K
	if k > len(records) {
		k = len(records)
	}

	vectors := make([][]float64, len(records))
	for i, r := range records {
		vectors[i] = normalize(r.Vector)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := seedCentroids(vectors, k, rng)
	assignments := make([]int, len(vectors))

	for iter := 0; iter < opts.MaxIterations; iter++ {
		for i, v := range vectors {
			assignments[i] = nearestCentroid(v, centroids)
		}

		shift := 0.0
		for c := range centroids {
			updated := meanOfMembers(vectors, assignments, c, dim)
			if updated == nil {
				// Empty cluster: reseed from the point furthest from its centroid.
				updated = vectors[furthestPoint(vectors, assignments, centroids)]
			}
			updated = normalizeFloat64(updated)
			if d := cosineDistance(centroids[c], updated); d > shift {
				shift = d
			}
			centroids[c] = updated
		}

		if shift < opts.Epsilon {
			break
		}
	}

	clusters := make([]Cluster, k)
	for c := range clusters {
		clusters[c].Centroid = toFloat32(centroids[c])
	}
	for i, c := range assignments {
		clusters[c].Members = append(clusters[c].Members, records[i])
	}

	// Drop clusters that ended up empty (possible when duplicate points
	// collapse onto the same centroid).
	out := clusters[:0]
	for _, c := range clusters {
		if len(c.Members) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

// AnalyzeClusters derives a PatternInsight per cluster from member payloads.
func AnalyzeClusters(clusters []Cluster) []PatternInsight {
	insights := make([]PatternInsight, 0, len(clusters))

	for i, cluster := range clusters {
		ch := characterize(cluster)
		insights = append(insights, PatternInsight{
			ClusterID:       i,
			Characteristics: ch,
			Insight:         describeCluster(ch),
		})
	}

	return insights
}

// SummarizeInsights joins the insight lines into the single summary string
// surfaced to the orchestrator.
func SummarizeInsights(insights []PatternInsight) string {
	lines := make([]string, 0, len(insights))
	for _, insight := range insights {
		lines = append(lines, insight.Insight)
	}
	return strings.Join(lines, " | ")
}

func characterize(cluster Cluster) ClusterCharacteristics {
	ch := ClusterCharacteristics{Size: len(cluster.Members)}

	var moodSum float64
	var moodCount int
	minMood := math.Inf(1)
	maxMood := math.Inf(-1)
	triggerFreq := map[string]int{}
	themeFreq := map[string]int{}

	for _, member := range cluster.Members {
		if score, ok := numericField(member.Metadata, "mood_score"); ok {
			moodSum += score
			moodCount++
			if score < minMood {
				minMood = score
			}
			if score > maxMood {
				maxMood = score
			}
		}
		for _, trigger := range stringListField(member.Metadata, "triggers") {
			triggerFreq[trigger]++
		}
		for _, theme := range stringListField(member.Metadata, "themes") {
			themeFreq[theme]++
		}
	}

	if moodCount > 0 {
		ch.AvgMoodScore = moodSum / float64(moodCount)
		ch.MoodRange = [2]float64{minMood, maxMood}
	}
	ch.CommonTriggers = topN(triggerFreq, 3)
	ch.DominantThemes = topN(themeFreq, 3)

	return ch
}

func describeCluster(ch ClusterCharacteristics) string {
	desc := fmt.Sprintf("%d entries with average mood %.1f", ch.Size, ch.AvgMoodScore)
	if len(ch.CommonTriggers) > 0 {
		desc += fmt.Sprintf(", common triggers: %s", strings.Join(ch.CommonTriggers, ", "))
	}
	if len(ch.DominantThemes) > 0 {
		desc += fmt.Sprintf(", themes: %s", strings.Join(ch.DominantThemes, ", "))
	}
	return desc
}

// numericField reads a float64 field, accepting the numeric types that
// survive JSON or payload conversion.
func numericField(metadata map[string]any, key string) (float64, bool) {
	switch v := metadata[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// stringListField reads a list field that may be a []string, []any, or a
// JSON-stringified array (the flattened payload form).
func stringListField(metadata map[string]any, key string) []string {
	switch v := metadata[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var decoded []string
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			return decoded
		}
		if v != "" {
			return []string{v}
		}
	}
	return nil
}

// topN returns the n most frequent keys, ties broken alphabetically for
// deterministic output.
func topN(freq map[string]int, n int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// ── k-means internals ────────────────────────────────────────────────────────

func normalize(v []float32) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for i, x := range v {
		out[i] = float64(x)
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return out
	}
	for i := range out {
		out[i] /= norm
	}
	return out
}

func normalizeFloat64(v []float64) []float64 {
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// cosineDistance on unit vectors: 1 - dot, clamped to [0, 2].
func cosineDistance(a, b []float64) float64 {
	d := 1 - dot(a, b)
	if d < 0 {
		return 0
	}
	return d
}

// seedCentroids implements k-means++ seeding: the first centroid is sampled
// uniformly, each subsequent one proportional to squared distance from the
// nearest already-chosen centroid.
func seedCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, vectors[rng.Intn(len(vectors))])

	distances := make([]float64, len(vectors))
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			d := math.Inf(1)
			for _, c := range centroids {
				if cd := cosineDistance(v, c); cd < d {
					d = cd
				}
			}
			distances[i] = d * d
			total += distances[i]
		}

		if total == 0 {
			// All points coincide with existing centroids.
			centroids = append(centroids, vectors[rng.Intn(len(vectors))])
			continue
		}

		target := rng.Float64() * total
		var cumulative float64
		chosen := len(vectors) - 1
		for i, d := range distances {
			cumulative += d
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, vectors[chosen])
	}

	return centroids
}

func nearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := cosineDistance(v, c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

func meanOfMembers(vectors [][]float64, assignments []int, cluster, dim int) []float64 {
	mean := make([]float64, dim)
	var count int
	for i, a := range assignments {
		if a != cluster {
			continue
		}
		for j, x := range vectors[i] {
			mean[j] += x
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for j := range mean {
		mean[j] /= float64(count)
	}
	return mean
}

func furthestPoint(vectors [][]float64, assignments []int, centroids [][]float64) int {
	worst := 0
	worstDist := -1.0
	for i, v := range vectors {
		if d := cosineDistance(v, centroids[assignments[i]]); d > worstDist {
			worst = i
			worstDist = d
		}
	}
	return worst
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
