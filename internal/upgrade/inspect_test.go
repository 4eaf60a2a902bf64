//go:build !integration

package upgrade_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/birdnet-go/birdnet-mcp/internal/upgrade"
)

const inspectFixture = `[
  {
    "Config": {
      "Env": [
        "PATH=/usr/local/sbin:/usr/local/bin",
        "HOME=/root",
        "TZ=Europe/Helsinki",
        "BIRDNET_LATITUDE=60.17"
      ]
    },
    "HostConfig": {
      "PortBindings": {
        "8080/tcp": [{"HostIp": "", "HostPort": "8080"}],
        "554/udp": [{"HostIp": "192.168.1.10", "HostPort": "8554"}]
      }
    },
    "Mounts": [
      {"Type": "bind", "Source": "/data/birdnet", "Destination": "/data"},
      {"Type": "bind", "Source": "/etc/birdnet-go", "Destination": "/config"},
      {"Type": "volume", "Source": "anonymous-volume", "Destination": "/cache"}
    ]
  }
]`

var _ = Describe("ParseInspect", func() {
	It("should capture ports, bind mounts and environment", func() {
		captured, err := upgrade.ParseInspect([]byte(inspectFixture))
		Expect(err).NotTo(HaveOccurred())

		Expect(captured.Ports).To(Equal([]string{"192.168.1.10:8554:554", "8080:8080"}))
		Expect(captured.Volumes).To(Equal([]string{"/data/birdnet:/data", "/etc/birdnet-go:/config"}))
		Expect(captured.Env).To(Equal([]string{"TZ=Europe/Helsinki", "BIRDNET_LATITUDE=60.17"}))
	})

	It("should drop PATH and HOME but keep everything else", func() {
		captured, err := upgrade.ParseInspect([]byte(inspectFixture))
		Expect(err).NotTo(HaveOccurred())

		for _, env := range captured.Env {
			Expect(env).NotTo(HavePrefix("PATH="))
			Expect(env).NotTo(HavePrefix("HOME="))
		}
	})

	It("should skip named volumes", func() {
		captured, err := upgrade.ParseInspect([]byte(inspectFixture))
		Expect(err).NotTo(HaveOccurred())
		Expect(captured.Volumes).NotTo(ContainElement(ContainSubstring("anonymous-volume")))
	})

	It("should reject garbage", func() {
		_, err := upgrade.ParseInspect([]byte("not json"))
		Expect(err).To(HaveOccurred())
	})

	It("should reject an empty inspect array", func() {
		_, err := upgrade.ParseInspect([]byte("[]"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RunArgs", func() {
	It("should rebuild the full docker run command line", func() {
		captured := &upgrade.CapturedConfig{
			Ports:   []string{"8080:8080"},
			Volumes: []string{"/data/birdnet:/data"},
			Env:     []string{"TZ=Europe/Helsinki"},
		}

		args := captured.RunArgs("birdnet-go", "ghcr.io/tphakala/birdnet-go:nightly")

		Expect(args).To(Equal([]string{
			"run", "-d", "--name", "birdnet-go", "--restart", "unless-stopped",
			"-p", "8080:8080",
			"-v", "/data/birdnet:/data",
			"-e", "TZ=Europe/Helsinki",
			"ghcr.io/tphakala/birdnet-go:nightly",
		}))
	})

	It("should always restart unless stopped, even with nothing captured", func() {
		captured := &upgrade.CapturedConfig{}
		args := captured.RunArgs("birdnet-go", "img:latest")
		Expect(args).To(Equal([]string{"run", "-d", "--name", "birdnet-go", "--restart", "unless-stopped", "img:latest"}))
	})
})
