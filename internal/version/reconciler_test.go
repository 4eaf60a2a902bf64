//go:build !integration

package version_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/version"
)

var _ = Describe("Reconciler", func() {
	var (
		source *scriptedSource
		r      *version.Reconciler
		ctx    context.Context
	)

	BeforeEach(func() {
		source = &scriptedSource{}
		r = version.NewReconciler(source, createTestLogger())
		ctx = context.Background()
	})

	Describe("nightly builds", func() {
		It("should pick the newest dated tag", func() {
			source.tags = []string{"nightly-20250801", "nightly-20250831", "nightly-20250815"}

			info := r.Check(ctx, "nightly-20250801", "")

			Expect(info.LatestNightly).To(Equal("nightly-20250831"))
			Expect(info.NightlyTags).To(HaveLen(3))
			Expect(info.UpdateAvailable).NotTo(BeNil())
			Expect(*info.UpdateAvailable).To(BeTrue())
			Expect(r.State()).To(Equal(version.StateResolved))
		})

		It("should not offer an update when already on the newest build", func() {
			source.tags = []string{"nightly-20250831", "nightly-20250801"}

			info := r.Check(ctx, "nightly-20250831-5-gc2d911f7", "")

			Expect(info.UpdateAvailable).NotTo(BeNil())
			Expect(*info.UpdateAvailable).To(BeFalse())
		})

		It("should keep the first-seen tag on date ties", func() {
			source.tags = []string{"nightly-20250831-a", "nightly-20250831-b"}

			info := r.Check(ctx, "nightly-20250801", "")

			Expect(info.LatestNightly).To(Equal("nightly-20250831-a"))
		})

		It("should stay neutral when the registry is unreachable", func() {
			source.tagsErr = fmt.Errorf("registry timeout")

			info := r.Check(ctx, "nightly-20250801", "")

			Expect(info.UpdateError).To(BeEmpty())
			Expect(info.UpdateAvailable).To(BeNil())
			Expect(r.State()).To(Equal(version.StateResolved))
		})

		It("should leave the update flag unset for an undated current build", func() {
			source.tags = []string{"nightly-20250831"}

			info := r.Check(ctx, "nightly", "")

			Expect(info.LatestNightly).To(Equal("nightly-20250831"))
			Expect(info.UpdateAvailable).To(BeNil())
		})
	})

	Describe("stable builds", func() {
		It("should offer an update when a newer release exists", func() {
			source.release = &version.Release{
				TagName: "v1.3.0",
				Body:    "Bug fixes and improvements",
				HTMLURL: "https://example.com/releases/v1.3.0",
			}

			info := r.Check(ctx, "v1.2.3", "2025-08-01")

			Expect(info.Latest).To(Equal("1.3.0"))
			Expect(info.ReleaseNotes).To(Equal("Bug fixes and improvements"))
			Expect(info.ReleaseURL).To(Equal("https://example.com/releases/v1.3.0"))
			Expect(info.UpdateAvailable).NotTo(BeNil())
			Expect(*info.UpdateAvailable).To(BeTrue())
		})

		It("should not offer an update when already current", func() {
			source.release = &version.Release{TagName: "v1.2.3"}

			info := r.Check(ctx, "v1.2.3", "")

			Expect(info.UpdateAvailable).NotTo(BeNil())
			Expect(*info.UpdateAvailable).To(BeFalse())
		})

		It("should record the error and keep prior knowledge on failure", func() {
			source.release = &version.Release{TagName: "v1.3.0"}
			first := r.Check(ctx, "v1.2.3", "2025-08-01")
			Expect(first.Latest).To(Equal("1.3.0"))

			source.release = nil
			source.releaseErr = fmt.Errorf("api rate limited")
			second := r.Check(ctx, "", "")

			Expect(second.UpdateError).To(Equal("api rate limited"))
			Expect(second.Latest).To(Equal("1.3.0"))
			Expect(second.Current).To(Equal("v1.2.3"))
			Expect(second.BuildDate).To(Equal("2025-08-01"))
			Expect(second.UpdateAvailable).NotTo(BeNil())
			Expect(r.State()).To(Equal(version.StateErrored))
		})

		It("should clear a stale error on the next successful check", func() {
			source.releaseErr = fmt.Errorf("api rate limited")
			r.Check(ctx, "v1.2.3", "")

			source.releaseErr = nil
			source.release = &version.Release{TagName: "v1.2.3"}
			info := r.Check(ctx, "", "")

			Expect(info.UpdateError).To(BeEmpty())
			Expect(r.State()).To(Equal(version.StateResolved))
		})
	})

	It("should report the check as finished in the returned snapshot", func() {
		source.tags = []string{"nightly-20250831"}
		info := r.Check(ctx, "nightly-20250801", "")
		Expect(info.Checking).To(BeFalse())
	})
})
