//go:build !integration

package logger_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	"github.com/birdnet-go/birdnet-mcp/pkg/logger"
)

var _ = Describe("RingBuffer", func() {
	It("should return lines in chronological order", func() {
		buf := logger.NewRingBuffer(10)
		buf.Append("one")
		buf.Append("two")
		buf.Append("three")

		Expect(buf.GetLast(2)).To(Equal([]string{"two", "three"}))
		Expect(buf.GetLast(0)).To(Equal([]string{"one", "two", "three"}))
		Expect(buf.Size()).To(Equal(3))
	})

	It("should drop the oldest lines once full", func() {
		buf := logger.NewRingBuffer(3)
		for i := 1; i <= 5; i++ {
			buf.Append(fmt.Sprintf("line-%d", i))
		}

		Expect(buf.Size()).To(Equal(3))
		Expect(buf.GetLast(0)).To(Equal([]string{"line-3", "line-4", "line-5"}))
	})

	It("should answer an empty buffer with an empty slice", func() {
		buf := logger.NewRingBuffer(3)
		Expect(buf.GetLast(5)).To(BeEmpty())
	})

	It("should clamp oversized requests to what it holds", func() {
		buf := logger.NewRingBuffer(3)
		buf.Append("only")
		Expect(buf.GetLast(100)).To(Equal([]string{"only"}))
	})
})

var _ = Describe("Buffered logger", func() {
	It("should tee every record into the ring buffer", func() {
		cfg := config.DefaultConfig()
		cfg.LogLevel = "error"
		buf := logger.NewLogBuffer(cfg)
		log := logger.NewSlogLogger(cfg, buf)

		log.Error("something broke", "component", "upgrade")

		lines := buf.GetLast(0)
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]).To(ContainSubstring("something broke"))
		Expect(lines[0]).To(ContainSubstring("component=upgrade"))
	})

	It("should respect the configured level", func() {
		cfg := config.DefaultConfig()
		cfg.LogLevel = "error"
		buf := logger.NewLogBuffer(cfg)
		log := logger.NewSlogLogger(cfg, buf)

		log.Info("below the threshold")

		Expect(buf.Size()).To(BeZero())
	})
})
