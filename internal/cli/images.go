// images.go implements the "tarkov-build images" command, which lists the
// local images of the configured repository.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/tarkov-build/internal/docker"
	"github.com/mmr-tortoise/tarkov-build/internal/model"
)

// imageAPIFactory connects to the daemon for read-only image queries.
// Tests replace it.
var imageAPIFactory = func(ctx context.Context) (docker.ImageAPI, func(), error) {
	c, err := docker.NewClient()
	if err != nil {
		return nil, nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return c.Images(), func() { _ = c.Close() }, nil
}

// NewImagesCommand creates the "images" cobra command.
func NewImagesCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "images",
		Short: "List local images of the optimizer repository",
		Long: `List every local image whose repository matches the configured image,
newest first. Images built with the api backend also show their build ID.

Examples:
  tarkov-build images
  tarkov-build images --tag my-registry/optimizer
  tarkov-build images --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runImages(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.tag, "tag", "t", model.DefaultImage, "Image whose repository is listed")
	return cmd
}

func runImages(cmd *cobra.Command, flags *buildFlags) error {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}
	ref, err := cfg.ImageRef()
	if err != nil {
		return model.WrapCLIError(model.ExitConfigInvalid, "invalid image reference", err)
	}

	api, cleanup, err := imageAPIFactory(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	VerboseLog("Connected to Docker daemon")

	images, err := docker.ListImages(cmd.Context(), api, ref.Repository)
	if err != nil {
		return err
	}
	VerboseLog("Found %d image(s) for %s", len(images), ref.Repository)

	if IsJSONOutput() {
		return printImagesJSON(cmd.OutOrStdout(), images)
	}
	printImagesText(cmd.OutOrStdout(), images, time.Now())
	return nil
}

// imageJSON is the JSON form of one listed image.
type imageJSON struct {
	ID       string    `json:"id"`
	Tags     []string  `json:"tags"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	BuildID  string    `json:"buildId,omitempty"`
	Revision string    `json:"revision,omitempty"`
}

func printImagesJSON(out io.Writer, images []model.ImageInfo) error {
	result := struct {
		Images []imageJSON `json:"images"`
	}{
		// Empty slice so the output shows [] rather than null.
		Images: make([]imageJSON, 0, len(images)),
	}

	for _, img := range images {
		entry := imageJSON{
			ID:      img.ID,
			Tags:    img.Tags,
			Size:    img.Size,
			Created: img.Created.UTC(),
		}
		if meta, err := docker.ParseLabels(img.Labels); err == nil {
			entry.BuildID = meta.BuildID
			entry.Revision = meta.Revision
		}
		result.Images = append(result.Images, entry)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// printImagesText renders a fixed-width table:
//
//	IMAGE ID      TAGS                             SIZE     CREATED       BUILD ID
//	4f2a9c0d1e3b  tarkov-weapon-optimizer:latest   629 MB   2 hours ago   5b0a7c7e-...
func printImagesText(out io.Writer, images []model.ImageInfo, now time.Time) {
	if len(images) == 0 {
		fmt.Fprintln(out, "No images found.")
		return
	}

	fmt.Fprintf(out, "%-14s %-40s %-10s %-16s %s\n", "IMAGE ID", "TAGS", "SIZE", "CREATED", "BUILD ID")
	for _, img := range images {
		id := buildIDOf(img)
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(out, "%-14s %-40s %-10s %-16s %s\n",
			img.ShortID(),
			FormatTags(img.Tags),
			humanize.Bytes(uint64(img.Size)),
			humanize.RelTime(img.Created, now, "ago", "from now"),
			id,
		)
	}
}

// FormatTags joins tags with commas; untagged (dangling) images show "<none>".
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return "<none>"
	}
	return strings.Join(tags, ",")
}

// buildIDOf returns the build ID label, or "" for images not built by the
// api backend.
func buildIDOf(img model.ImageInfo) string {
	meta, err := docker.ParseLabels(img.Labels)
	if err != nil {
		return ""
	}
	return meta.BuildID
}
