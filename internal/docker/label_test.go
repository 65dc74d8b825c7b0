package docker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// TestBuildLabels verifies the label map produced for a build.
func TestBuildLabels(t *testing.T) {
	meta := model.BuildMeta{
		BuildID:   "5b0a7c7e-0d55-4a61-9f0e-6f3c2d1a9b10",
		BuiltAt:   time.Date(2026, 10, 19, 8, 30, 0, 0, time.FixedZone("CST", 8*3600)),
		SourceDir: "/home/user/tarkov-weapon-optimizer",
	}

	labels := BuildLabels(meta)

	assert.Equal(t, ManagedByValue, labels[LabelManagedBy])
	assert.Equal(t, meta.BuildID, labels[LabelBuildID])
	// Timestamps are always stored in UTC.
	assert.Equal(t, "2026-10-19T00:30:00Z", labels[LabelBuiltAt])
	assert.Equal(t, meta.SourceDir, labels[LabelSourceDir])
	assert.Len(t, labels, 4)
	assert.NotContains(t, labels, LabelRevision)
}

func TestBuildLabels_Revision(t *testing.T) {
	labels := BuildLabels(model.BuildMeta{BuildID: "b", SourceDir: "/src", Revision: "0123abcd"})
	assert.Equal(t, "0123abcd", labels[LabelRevision])

	got, err := ParseLabels(labels)
	require.NoError(t, err)
	assert.Equal(t, "0123abcd", got.Revision)
}

// TestParseLabels_RoundTrip verifies ParseLabels reverses BuildLabels.
func TestParseLabels_RoundTrip(t *testing.T) {
	meta := model.BuildMeta{
		BuildID:   "5b0a7c7e-0d55-4a61-9f0e-6f3c2d1a9b10",
		BuiltAt:   time.Date(2026, 10, 19, 0, 30, 0, 0, time.UTC),
		SourceDir: "/src",
	}

	got, err := ParseLabels(BuildLabels(meta))
	require.NoError(t, err)
	assert.Equal(t, meta.BuildID, got.BuildID)
	assert.True(t, meta.BuiltAt.Equal(got.BuiltAt))
	assert.Equal(t, meta.SourceDir, got.SourceDir)
}

func TestParseLabels_Errors(t *testing.T) {
	tests := []struct {
		name    string
		labels  map[string]string
		wantErr string
	}{
		{
			name:    "not managed",
			labels:  map[string]string{"maintainer": "someone"},
			wantErr: "not managed",
		},
		{
			name:    "nil labels",
			labels:  nil,
			wantErr: "not managed",
		},
		{
			name: "missing keys are all listed",
			labels: map[string]string{
				LabelManagedBy: ManagedByValue,
			},
			wantErr: LabelBuildID + ", " + LabelBuiltAt + ", " + LabelSourceDir,
		},
		{
			name: "bad timestamp",
			labels: map[string]string{
				LabelManagedBy: ManagedByValue,
				LabelBuildID:   "x",
				LabelBuiltAt:   "yesterday",
				LabelSourceDir: "/src",
			},
			wantErr: "invalid label " + LabelBuiltAt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLabels(tt.labels)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestMergeLabels checks that management labels win over user labels.
func TestMergeLabels(t *testing.T) {
	user := map[string]string{
		"org.opencontainers.image.title": "optimizer",
		LabelManagedBy:                   "someone-else",
	}
	managed := map[string]string{LabelManagedBy: ManagedByValue}

	merged := MergeLabels(user, managed)
	assert.Equal(t, ManagedByValue, merged[LabelManagedBy])
	assert.Equal(t, "optimizer", merged["org.opencontainers.image.title"])

	// Inputs are not modified.
	assert.Equal(t, "someone-else", user[LabelManagedBy])
}

func TestSortedPairs(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2", "C=3"}, sortedPairs(map[string]string{"C": "3", "A": "1", "B": "2"}))
	assert.Empty(t, sortedPairs(nil))
}
