//go:build !integration

package logs_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/logs"
	"github.com/birdnet-go/birdnet-mcp/internal/shared"
	"github.com/birdnet-go/birdnet-mcp/pkg/config"
	hostexectesting "github.com/birdnet-go/birdnet-mcp/testing/hostexec"
)

var _ = Describe("AppLogFetcher", func() {
	var (
		runner  *hostexectesting.FakeRunner
		fetcher *logs.AppLogFetcher
		ctx     context.Context
	)

	tailArgs := []string{"-n", "500", "/var/log/birdnet-go/birdnet.log"}

	BeforeEach(func() {
		runner = hostexectesting.NewFakeRunner()
		fetcher = logs.NewAppLogFetcher(runner, config.DefaultConfig().Instance, createTestLogger())
		ctx = context.Background()
	})

	It("should parse entries and order them newest first", func() {
		runner.Stub("tail", tailArgs, `{"time":"t1","level":"INFO","msg":"older"}
{"time":"t2","level":"INFO","msg":"newer"}
`, nil)

		entries := fetcher.Fetch(ctx)

		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Msg).To(Equal("newer"))
		Expect(entries[1].Msg).To(Equal("older"))
	})

	It("should drop unparseable lines and keep the rest", func() {
		runner.Stub("tail", tailArgs, `not json at all
{"time":"t1","level":"WARN","msg":"kept"}
{broken json
`, nil)

		entries := fetcher.Fetch(ctx)

		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Msg).To(Equal("kept"))
	})

	It("should return an empty slice when the file is unreadable", func() {
		runner.StubFailure("tail", tailArgs, "No such file or directory\n")

		entries := fetcher.Fetch(ctx)

		Expect(entries).NotTo(BeNil())
		Expect(entries).To(BeEmpty())
	})
})

var _ = Describe("Filter", func() {
	entries := []shared.LogEntry{
		{Level: "ERROR", Msg: "database connection lost"},
		{Level: "INFO", Msg: "species detected", Extra: map[string]any{"species": "Parus major"}},
		{Level: "error", Msg: "rtsp stream stalled"},
	}

	It("should filter by level case-insensitively", func() {
		filtered := logs.Filter(entries, "ERROR", "")
		Expect(filtered).To(HaveLen(2))
	})

	It("should filter by free text across the whole record", func() {
		filtered := logs.Filter(entries, "", "parus")
		Expect(filtered).To(HaveLen(1))
		Expect(filtered[0].Msg).To(Equal("species detected"))
	})

	It("should combine both filters", func() {
		filtered := logs.Filter(entries, "ERROR", "rtsp")
		Expect(filtered).To(HaveLen(1))
		Expect(filtered[0].Msg).To(Equal("rtsp stream stalled"))
	})

	It("should pass everything through with no filters", func() {
		Expect(logs.Filter(entries, "", "")).To(HaveLen(3))
		Expect(logs.Filter(entries, "all", "")).To(HaveLen(3))
	})

	It("should leave the input untouched", func() {
		_ = logs.Filter(entries, "ERROR", "")
		Expect(entries).To(HaveLen(3))
		Expect(entries[1].Level).To(Equal("INFO"))
	})
})
