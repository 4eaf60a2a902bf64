//go:build !integration

package hostexec_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

var _ = Describe("Runner", func() {
	var (
		runner hostexec.Runner
		ctx    context.Context
	)

	BeforeEach(func() {
		cfg := config.DefaultConfig()
		runner = hostexec.NewRunner(cfg, createTestLogger())
		ctx = context.Background()
	})

	Describe("command validation", func() {
		It("should reject an empty command name", func() {
			_, err := runner.Run(ctx, hostexec.Command{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid command"))
		})

		It("should reject shell metacharacters in the command name", func() {
			_, err := runner.Run(ctx, hostexec.Command{Name: "docker; rm -rf /"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dangerous characters"))
		})

		It("should reject shell metacharacters in arguments", func() {
			_, err := runner.Run(ctx, hostexec.Command{
				Name: "docker",
				Args: []string{"ps", "| tee /etc/passwd"},
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("dangerous characters"))
		})

		It("should reject oversized arguments", func() {
			_, err := runner.Run(ctx, hostexec.Command{
				Name: "docker",
				Args: []string{strings.Repeat("a", 1025)},
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("too long"))
		})
	})

	Describe("execution", func() {
		It("should return the command output", func() {
			out, err := runner.Run(ctx, hostexec.Command{Name: "echo", Args: []string{"hello"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(strings.TrimSpace(string(out))).To(Equal("hello"))
		})

		It("should surface a non-zero exit as an error", func() {
			_, err := runner.Run(ctx, hostexec.Command{Name: "false"})
			Expect(err).To(HaveOccurred())
			Expect(hostexec.IsNonZeroExit(err)).To(BeTrue())
			Expect(hostexec.ExitCode(err)).To(Equal(1))
		})

		It("should kill a command that outlives its timeout", func() {
			start := time.Now()
			_, err := runner.Run(ctx, hostexec.Command{
				Name:    "sleep",
				Args:    []string{"10"},
				Timeout: 100 * time.Millisecond,
			})
			Expect(err).To(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically("<", 5*time.Second))
		})

		It("should report -1 for errors that are not process exits", func() {
			_, err := runner.Run(ctx, hostexec.Command{Name: "definitely-not-a-binary-on-this-host"})
			Expect(err).To(HaveOccurred())
			Expect(hostexec.IsNonZeroExit(err)).To(BeFalse())
			Expect(hostexec.ExitCode(err)).To(Equal(-1))
		})
	})
})
