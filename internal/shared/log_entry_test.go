//go:build !integration

package shared_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/shared"
)

var _ = Describe("LogEntry", func() {
	Describe("deserialization", func() {
		It("should lift the well-known fields", func() {
			line := `{"time":"2025-08-12T10:00:00Z","level":"INFO","msg":"species detected","service":"analysis"}`
			var entry shared.LogEntry
			Expect(json.Unmarshal([]byte(line), &entry)).To(Succeed())
			Expect(entry.Time).To(Equal("2025-08-12T10:00:00Z"))
			Expect(entry.Level).To(Equal("INFO"))
			Expect(entry.Msg).To(Equal("species detected"))
			Expect(entry.Service).To(Equal("analysis"))
			Expect(entry.Extra).To(BeNil())
		})

		It("should keep unknown fields in Extra", func() {
			line := `{"time":"t","level":"WARN","msg":"m","confidence":0.93,"species":"Turdus merula"}`
			var entry shared.LogEntry
			Expect(json.Unmarshal([]byte(line), &entry)).To(Succeed())
			Expect(entry.Extra).To(HaveKeyWithValue("confidence", 0.93))
			Expect(entry.Extra).To(HaveKeyWithValue("species", "Turdus merula"))
		})
	})

	Describe("serialization", func() {
		It("should round-trip unknown fields", func() {
			line := `{"time":"t","level":"ERROR","msg":"m","service":"s","component":"rtsp"}`
			var entry shared.LogEntry
			Expect(json.Unmarshal([]byte(line), &entry)).To(Succeed())

			data, err := json.Marshal(entry)
			Expect(err).NotTo(HaveOccurred())

			var roundTripped map[string]any
			Expect(json.Unmarshal(data, &roundTripped)).To(Succeed())
			Expect(roundTripped).To(HaveKeyWithValue("component", "rtsp"))
			Expect(roundTripped).To(HaveKeyWithValue("level", "ERROR"))
			Expect(roundTripped).To(HaveKeyWithValue("service", "s"))
		})

		It("should omit an empty service field", func() {
			entry := shared.LogEntry{Time: "t", Level: "INFO", Msg: "m"}
			data, err := json.Marshal(entry)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).NotTo(ContainSubstring("service"))
		})
	})

	DescribeTable("level filtering",
		func(entryLevel, filter string, expected bool) {
			entry := shared.LogEntry{Level: entryLevel}
			Expect(entry.MatchesLevel(filter)).To(Equal(expected))
		},
		Entry("empty filter passes everything", "INFO", "", true),
		Entry("all passes everything", "DEBUG", "all", true),
		Entry("all is case-insensitive", "DEBUG", "ALL", true),
		Entry("exact match passes", "ERROR", "ERROR", true),
		Entry("match is case-insensitive", "error", "ERROR", true),
		Entry("other levels are filtered out", "INFO", "ERROR", false),
	)

	Describe("free-text search", func() {
		entry := shared.LogEntry{
			Time:  "2025-08-12T10:00:00Z",
			Level: "INFO",
			Msg:   "species detected",
			Extra: map[string]any{"species": "Erithacus rubecula"},
		}

		It("should match against the message", func() {
			Expect(entry.MatchesSearch("DETECTED")).To(BeTrue())
		})

		It("should match against values in Extra", func() {
			Expect(entry.MatchesSearch("rubecula")).To(BeTrue())
		})

		It("should not match absent text", func() {
			Expect(entry.MatchesSearch("nothing-of-the-sort")).To(BeFalse())
		})

		It("should pass everything on an empty query", func() {
			Expect(entry.MatchesSearch("")).To(BeTrue())
		})
	})
})

var _ = Describe("HealthStatus", func() {
	DescribeTable("Healthy",
		func(h *shared.HealthStatus, expected bool) {
			Expect(h.Healthy()).To(Equal(expected))
		},
		Entry("nil is not healthy", (*shared.HealthStatus)(nil), false),
		Entry("healthy counts", &shared.HealthStatus{Status: "healthy"}, true),
		Entry("degraded still counts", &shared.HealthStatus{Status: "degraded"}, true),
		Entry("unhealthy does not", &shared.HealthStatus{Status: "unhealthy"}, false),
		Entry("empty status does not", &shared.HealthStatus{}, false),
	)
})
