//go:build !integration

package probe_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/probe"
	hostexectesting "github.com/birdnet-go/birdnet-mcp/testing/hostexec"
)

var _ = Describe("DockerProbe", func() {
	var (
		runner *hostexectesting.FakeRunner
		p      *probe.DockerProbe
		ctx    context.Context
	)

	BeforeEach(func() {
		runner = hostexectesting.NewFakeRunner()
		p = probe.NewDockerProbe(runner, createTestLogger())
		ctx = context.Background()
	})

	It("should report a fully degraded record when the binary is missing", func() {
		runner.StubFailure("docker", []string{"--version"}, "")

		status := p.Probe(ctx)

		Expect(status.Available).To(BeFalse())
		Expect(status.Running).To(BeFalse())
		Expect(status.Version).To(BeEmpty())
	})

	It("should report running when the systemd unit is active", func() {
		runner.Stub("docker", []string{"--version"}, "Docker version 27.1.1, build 6312585\n", nil)
		runner.Stub("systemctl", []string{"is-active", "docker"}, "active\n", nil)

		status := p.Probe(ctx)

		Expect(status.Available).To(BeTrue())
		Expect(status.Running).To(BeTrue())
		Expect(status.Version).To(Equal("27.1.1"))
	})

	It("should fall back to docker info on hosts without systemd", func() {
		runner.Stub("docker", []string{"--version"}, "Docker version 27.1.1, build 6312585\n", nil)
		runner.StubFailure("systemctl", []string{"is-active", "docker"}, "inactive\n")
		runner.Stub("docker", []string{"info", "--format", "{{.ServerVersion}}"}, "27.1.1\n", nil)

		status := p.Probe(ctx)

		Expect(status.Available).To(BeTrue())
		Expect(status.Running).To(BeTrue())
	})

	It("should answer identically for identical host state", func() {
		runner.Stub("docker", []string{"--version"}, "Docker version 27.1.1, build 6312585\n", nil)
		runner.Stub("systemctl", []string{"is-active", "docker"}, "active\n", nil)

		Expect(p.Probe(ctx)).To(Equal(p.Probe(ctx)))
	})

	It("should report available but not running when the daemon is down", func() {
		runner.Stub("docker", []string{"--version"}, "Docker version 27.1.1, build 6312585\n", nil)
		runner.StubFailure("systemctl", []string{"is-active", "docker"}, "inactive\n")
		runner.StubFailure("docker", []string{"info", "--format", "{{.ServerVersion}}"}, "Cannot connect to the Docker daemon\n")

		status := p.Probe(ctx)

		Expect(status.Available).To(BeTrue())
		Expect(status.Running).To(BeFalse())
	})
})
