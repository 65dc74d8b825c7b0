package docker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// Label keys recorded on images built by the API backend. All keys share
// the "tarkov-build." prefix so they never collide with labels from the
// build-definition file itself.
const (
	// LabelPrefix is the common prefix for all tarkov-build labels.
	LabelPrefix = "tarkov-build."

	// LabelManagedBy marks images built by this tool.
	// Key: "tarkov-build.managed-by", Value: always "tarkov-build".
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelBuildID stores the UUID of the build invocation.
	LabelBuildID = LabelPrefix + "build-id"

	// LabelBuiltAt stores the RFC3339 build start time (UTC).
	LabelBuiltAt = LabelPrefix + "built-at"

	// LabelSourceDir stores the absolute build context path.
	LabelSourceDir = LabelPrefix + "source-dir"

	// LabelRevision stores the Git revision of the build context. It is
	// optional and omitted for contexts outside a repository.
	LabelRevision = LabelPrefix + "revision"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "tarkov-build"

// BuildLabels encodes meta as image labels. The result always carries
// LabelManagedBy.
func BuildLabels(meta model.BuildMeta) map[string]string {
	labels := map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelBuildID:   meta.BuildID,
		LabelBuiltAt:   meta.BuiltAt.UTC().Format(time.RFC3339),
		LabelSourceDir: meta.SourceDir,
	}
	if meta.Revision != "" {
		labels[LabelRevision] = meta.Revision
	}
	return labels
}

// ParseLabels is the inverse of BuildLabels. Images not built by this tool
// (no LabelManagedBy) and images with incomplete labels return an error
// listing every missing key.
func ParseLabels(labels map[string]string) (*model.BuildMeta, error) {
	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf("image is not managed by %s", ManagedByValue)
	}

	var missing []string
	for _, key := range []string{LabelBuildID, LabelBuiltAt, LabelSourceDir} {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required image labels: %s", strings.Join(missing, ", "))
	}

	builtAt, err := time.Parse(time.RFC3339, labels[LabelBuiltAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelBuiltAt, err)
	}

	return &model.BuildMeta{
		BuildID:   labels[LabelBuildID],
		BuiltAt:   builtAt,
		SourceDir: labels[LabelSourceDir],
		Revision:  labels[LabelRevision],
	}, nil
}

// MergeLabels returns a new map holding user labels overlaid with the
// management labels. Management labels cannot be overridden.
func MergeLabels(user, managed map[string]string) map[string]string {
	merged := make(map[string]string, len(user)+len(managed))
	for k, v := range user {
		merged[k] = v
	}
	for k, v := range managed {
		merged[k] = v
	}
	return merged
}

// sortedPairs renders m as sorted "key=value" strings, for deterministic
// command lines.
func sortedPairs(m map[string]string) []string {
	pairs := make([]string, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return pairs
}
