package docker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rs/zerolog"

	"faas-platform/internal/core/executor"
)

// Client implements executor.Engine against the Docker Engine API. Both
// technologies go through it; gVisor containers are created with the runsc
// runtime flag. The underlying docker client is safe for concurrent use, so
// one Client is shared by every in-flight invocation.
type Client struct {
	cli *client.Client
	lg  zerolog.Logger
}

func New(lg zerolog.Logger) (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &Client{cli: cli, lg: lg.With().Str("adapter", "docker").Logger()}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// Ping verifies the Docker daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.cli.Ping(ctx)
	return err
}

func (c *Client) FindContainer(ctx context.Context, name string) (string, error) {
	inspect, err := c.cli.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return "", executor.ErrContainerNotFound
		}
		return "", fmt.Errorf("container inspect: %w", err)
	}
	return inspect.ID, nil
}

func (c *Client) CreateContainer(ctx context.Context, opts executor.CreateOpts) (string, error) {
	if err := c.ensureImage(ctx, opts.Image); err != nil {
		return "", err
	}

	resp, err := c.cli.ContainerCreate(ctx,
		&container.Config{
			Image:  opts.Image,
			Cmd:    opts.Cmd,
			Labels: opts.Labels,
		},
		&container.HostConfig{
			Runtime:    opts.Runtime,
			AutoRemove: false,
			Resources: container.Resources{
				NanoCPUs: opts.NanoCPUs,
				Memory:   opts.MemoryBytes,
			},
		},
		nil, nil, opts.Name,
	)
	if err != nil {
		return "", fmt.Errorf("container create: %w", err)
	}

	c.lg.Info().
		Str("container_id", resp.ID).
		Str("name", opts.Name).
		Str("runtime", opts.Runtime).
		Msg("warm container created")
	return resp.ID, nil
}

func (c *Client) StartContainer(ctx context.Context, id string) error {
	if err := c.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("container start: %w", err)
	}
	return nil
}

func (c *Client) ContainerState(ctx context.Context, id string) (executor.ContainerState, error) {
	inspect, err := c.cli.ContainerInspect(ctx, id)
	if err != nil {
		if client.IsErrNotFound(err) {
			return executor.StateUnknown, executor.ErrContainerNotFound
		}
		return executor.StateUnknown, fmt.Errorf("container inspect: %w", err)
	}
	if inspect.State != nil && inspect.State.Running {
		return executor.StateRunning, nil
	}
	return executor.StateStopped, nil
}

func (c *Client) CopyTo(ctx context.Context, id, destPath string, archive io.Reader) error {
	err := c.cli.CopyToContainer(ctx, id, destPath, archive, container.CopyToContainerOptions{})
	if err != nil {
		return fmt.Errorf("copy to container: %w", err)
	}
	return nil
}

// Exec runs cmd inside the container and waits for completion. Docker
// multiplexes both output streams over one connection with 8-byte frame
// headers; stdcopy demultiplexes them so stdout and stderr stay separate.
func (c *Client) Exec(ctx context.Context, id string, cmd []string) (executor.ExecOutput, error) {
	execResp, err := c.cli.ContainerExecCreate(ctx, id, container.ExecOptions{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return executor.ExecOutput{}, fmt.Errorf("exec create: %w", err)
	}

	attach, err := c.cli.ContainerExecAttach(ctx, execResp.ID, container.ExecAttachOptions{})
	if err != nil {
		return executor.ExecOutput{}, fmt.Errorf("exec attach: %w", err)
	}
	defer attach.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, attach.Reader); err != nil {
		return executor.ExecOutput{}, fmt.Errorf("exec read: %w", err)
	}

	inspect, err := c.cli.ContainerExecInspect(ctx, execResp.ID)
	if err != nil {
		return executor.ExecOutput{}, fmt.Errorf("exec inspect: %w", err)
	}

	return executor.ExecOutput{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: inspect.ExitCode,
	}, nil
}

// Stats takes a one-shot resource reading for the container.
func (c *Client) Stats(ctx context.Context, id string) (executor.ContainerStats, error) {
	resp, err := c.cli.ContainerStatsOneShot(ctx, id)
	if err != nil {
		return executor.ContainerStats{}, fmt.Errorf("container stats: %w", err)
	}
	defer resp.Body.Close()

	var stats container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return executor.ContainerStats{}, fmt.Errorf("decode stats: %w", err)
	}

	return executor.ContainerStats{
		CPUTotal:    stats.CPUStats.CPUUsage.TotalUsage,
		MemoryUsage: stats.MemoryStats.Usage,
	}, nil
}

func (c *Client) ensureImage(ctx context.Context, img string) error {
	_, _, err := c.cli.ImageInspectWithRaw(ctx, img)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return fmt.Errorf("image inspect: %w", err)
	}

	c.lg.Info().Str("image", img).Msg("pulling image")
	rc, err := c.cli.ImagePull(ctx, img, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("image pull: %w", err)
	}
	defer rc.Close()
	_, _ = io.Copy(io.Discard, rc)

	return nil
}
