//go:build !integration

package hostexec_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/hostexec"
)

var _ = Describe("Output parsing", func() {
	Describe("ParseKeyValue", func() {
		It("should split on the first separator only", func() {
			out := []byte("Repository: ghcr.io/tphakala/birdnet-go\nTag: nightly-20250812\n")
			kv := hostexec.ParseKeyValue(out, ":")
			Expect(kv).To(HaveKeyWithValue("Repository", "ghcr.io/tphakala/birdnet-go"))
			Expect(kv).To(HaveKeyWithValue("Tag", "nightly-20250812"))
		})

		It("should skip lines without the separator and empty keys", func() {
			out := []byte("no separator here\n: orphan value\nkey: value\n")
			kv := hostexec.ParseKeyValue(out, ":")
			Expect(kv).To(HaveLen(1))
			Expect(kv).To(HaveKeyWithValue("key", "value"))
		})
	})

	Describe("ParseLines", func() {
		It("should drop empty and whitespace-only lines", func() {
			out := []byte("first\n\n   \nsecond\n")
			Expect(hostexec.ParseLines(out)).To(Equal([]string{"first", "second"}))
		})

		It("should return nil for empty output", func() {
			Expect(hostexec.ParseLines([]byte(""))).To(BeEmpty())
		})
	})

	Describe("ParseTable", func() {
		It("should map rows to the header columns", func() {
			out := []byte("UNIT ACTIVE SUB\nbirdnet-go.service active running\n")
			rows := hostexec.ParseTable(out)
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(HaveKeyWithValue("UNIT", "birdnet-go.service"))
			Expect(rows[0]).To(HaveKeyWithValue("ACTIVE", "active"))
			Expect(rows[0]).To(HaveKeyWithValue("SUB", "running"))
		})

		It("should pad short rows with empty strings", func() {
			out := []byte("A B C\nx y\n")
			rows := hostexec.ParseTable(out)
			Expect(rows).To(HaveLen(1))
			Expect(rows[0]).To(HaveKeyWithValue("C", ""))
		})

		It("should return nil when only a header is present", func() {
			Expect(hostexec.ParseTable([]byte("A B C\n"))).To(BeNil())
		})
	})
})
