// Package docker builds and inspects container images for tarkov-build.
//
// This package handles:
//   - The two build backends: CLIBuilder, which shells out to the docker
//     binary exactly like `docker build -t <tag> .`, and APIBuilder, which
//     sends the build context to the Engine API
//   - Build context packaging honouring .dockerignore
//   - Image labels recording who built an image and when
//   - Local image listing and existence checks
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker
