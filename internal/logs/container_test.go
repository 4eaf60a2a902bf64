//go:build !integration

package logs_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/logs"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	hostexectesting "github.com/birdnet-go/birdnet-mcp/testing/hostexec"
)

var _ = Describe("ContainerLogFetcher", func() {
	var (
		runner  *hostexectesting.FakeRunner
		fetcher *logs.ContainerLogFetcher
		ctx     context.Context
	)

	tailArgs := []string{"logs", "--tail", "200", "birdnet-go"}

	BeforeEach(func() {
		runner = hostexectesting.NewFakeRunner()
		fetcher = logs.NewContainerLogFetcher(runner, config.DefaultConfig().Instance, createTestLogger())
		ctx = context.Background()
	})

	It("should split the tail into lines", func() {
		runner.Stub("docker", tailArgs, "first line\nsecond line\n", nil)

		lines := fetcher.Fetch(ctx)

		Expect(lines).To(Equal([]string{"first line", "second line"}))
	})

	It("should return an empty slice for an empty tail", func() {
		runner.Stub("docker", tailArgs, "", nil)

		lines := fetcher.Fetch(ctx)

		Expect(lines).NotTo(BeNil())
		Expect(lines).To(BeEmpty())
	})

	It("should replace the buffer with the placeholder on failure", func() {
		runner.StubFailure("docker", tailArgs, "No such container\n")

		lines := fetcher.Fetch(ctx)

		Expect(lines).To(Equal([]string{logs.ErrorPlaceholder}))
	})
})
