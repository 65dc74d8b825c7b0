package docker

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// ImageAPI is the subset of the Docker SDK client used by this package.
// *client.Client satisfies it.
type ImageAPI interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options build.ImageBuildOptions) (build.ImageBuildResponse, error)
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)
}

// ListImages returns local images of repository (any tag), newest first.
// Filtering is done by the daemon through the "reference" filter.
func ListImages(ctx context.Context, api ImageAPI, repository string) ([]model.ImageInfo, error) {
	summaries, err := api.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", repository)),
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker images",
			err,
		)
	}

	result := make([]model.ImageInfo, 0, len(summaries))
	for _, s := range summaries {
		result = append(result, summaryToInfo(s))
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Created.After(result[j].Created)
	})
	return result, nil
}

// summaryToInfo maps an SDK image summary to the domain model.
func summaryToInfo(s image.Summary) model.ImageInfo {
	return model.ImageInfo{
		ID:      s.ID,
		Tags:    s.RepoTags,
		Size:    s.Size,
		Created: time.Unix(s.Created, 0),
		Labels:  s.Labels,
	}
}

// ImageExists reports whether ref is present in the local image store.
func ImageExists(ctx context.Context, api ImageAPI, ref model.ImageRef) (bool, error) {
	_, err := api.ImageInspect(ctx, ref.String())
	if err == nil {
		return true, nil
	}
	if cerrdefs.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to inspect image %s: %w", ref, err)
}
