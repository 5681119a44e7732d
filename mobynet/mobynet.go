// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
)

// NewClient returns a new Docker client connected to the default socket API
// location on the local host, or as configured by the DOCKER_HOST, et cetera
// environment variables.
func NewClient() (*client.Client, error) {
	return client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
}

// NetnsOfContainer returns a filesystem path referencing the network namespace
// of the named container, such as "/proc/666/ns/net". The container must be
// running.
func NetnsOfContainer(ctx context.Context, moby *client.Client, name string) (string, error) {
	details, err := moby.ContainerInspect(ctx, name)
	if err != nil {
		return "", fmt.Errorf("cannot inspect container %q, %w", name, err)
	}
	if details.State == nil || details.State.Pid == 0 {
		return "", fmt.Errorf("container %q is not running", name)
	}
	return fmt.Sprintf("/proc/%d/ns/net", details.State.Pid), nil
}
