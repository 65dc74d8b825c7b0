package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/google/uuid"
	"github.com/moby/patternmatcher/ignorefile"
	"github.com/moby/term"

	"github.com/mmr-tortoise/tarkov-build/internal/gitinfo"
	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// defaultDockerfile is the build-definition file used when none is set.
const defaultDockerfile = "Dockerfile"

// APIBuilder builds images through the Docker Engine API instead of the
// docker binary. Besides the request's own labels it records BuildMeta
// labels on every image it produces.
type APIBuilder struct {
	api ImageAPI
	out io.Writer

	now      func() time.Time
	newID    func() string
	revision func(dir string) string
}

// NewAPIBuilder creates an APIBuilder that streams build progress to out.
func NewAPIBuilder(api ImageAPI, out io.Writer) *APIBuilder {
	return &APIBuilder{
		api:      api,
		out:      out,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		revision: sourceRevision,
	}
}

// sourceRevision returns the Git revision of dir, or "" when dir is not
// in a repository with commits.
func sourceRevision(dir string) string {
	rev, err := gitinfo.Describe(dir)
	if err != nil {
		return ""
	}
	return rev.String()
}

// Name returns "api".
func (b *APIBuilder) Name() string { return "api" }

// Build tars the context directory (honouring .dockerignore), sends it to
// the daemon and streams the daemon's progress messages. An error reported
// inside the progress stream is returned as the build error.
func (b *APIBuilder) Build(ctx context.Context, req model.BuildRequest) error {
	contextDir := req.ContextDir
	if contextDir == "" {
		contextDir = "."
	}
	absContext, err := filepath.Abs(contextDir)
	if err != nil {
		return fmt.Errorf("failed to resolve build context %q: %w", contextDir, err)
	}

	dockerfile := req.Dockerfile
	if dockerfile == "" {
		dockerfile = defaultDockerfile
	}

	excludes, err := readIgnorePatterns(absContext, dockerfile)
	if err != nil {
		return err
	}

	buildCtx, err := archive.TarWithOptions(absContext, &archive.TarOptions{
		ExcludePatterns: excludes,
	})
	if err != nil {
		return fmt.Errorf("failed to package build context %s: %w", absContext, err)
	}
	defer buildCtx.Close()

	meta := model.BuildMeta{
		BuildID:   b.newID(),
		BuiltAt:   b.now(),
		SourceDir: absContext,
		Revision:  b.revision(absContext),
	}

	resp, err := b.api.ImageBuild(ctx, buildCtx, build.ImageBuildOptions{
		Tags:        []string{req.Image.String()},
		Dockerfile:  filepath.ToSlash(dockerfile),
		BuildArgs:   toBuildArgs(req.BuildArgs),
		Labels:      MergeLabels(req.Labels, BuildLabels(meta)),
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("image build request failed: %w", err)
	}
	defer resp.Body.Close()

	return displayStream(resp.Body, b.out)
}

// readIgnorePatterns reads <contextDir>/.dockerignore. A missing file
// yields no patterns. The build-definition file and .dockerignore itself
// are re-included, as the docker CLI does, so the daemon can always read
// them.
func readIgnorePatterns(contextDir, dockerfile string) ([]string, error) {
	f, err := os.Open(filepath.Join(contextDir, ".dockerignore"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open .dockerignore: %w", err)
	}
	defer f.Close()

	patterns, err := ignorefile.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse .dockerignore: %w", err)
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	return append(patterns, "!"+filepath.ToSlash(dockerfile), "!.dockerignore"), nil
}

// toBuildArgs converts plain build args to the pointer map the API expects.
func toBuildArgs(args map[string]string) map[string]*string {
	if len(args) == 0 {
		return nil
	}
	out := make(map[string]*string, len(args))
	for k, v := range args {
		out[k] = &v
	}
	return out
}

// displayStream renders a stream of JSON progress messages to out. When out
// is a terminal, progress bars are redrawn in place.
func displayStream(in io.Reader, out io.Writer) error {
	fd, isTerminal := term.GetFdInfo(out)
	return jsonmessage.DisplayJSONMessagesStream(in, out, fd, isTerminal, nil)
}
