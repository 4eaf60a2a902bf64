package upgrade

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// CapturedConfig holds the parts of a container's configuration that
// must survive recreation: port bindings, bind mounts and environment
// variables. PATH and HOME belong to the old image and are dropped.
type CapturedConfig struct {
	Ports   []string // "hostPort:containerPort" or "hostIP:hostPort:containerPort"
	Volumes []string // "source:destination"
	Env     []string // "KEY=value"
}

type inspectRecord struct {
	Config struct {
		Env []string `json:"Env"`
	} `json:"Config"`
	HostConfig struct {
		PortBindings map[string][]struct {
			HostIP   string `json:"HostIp"`
			HostPort string `json:"HostPort"`
		} `json:"PortBindings"`
	} `json:"HostConfig"`
	Mounts []struct {
		Type        string `json:"Type"`
		Source      string `json:"Source"`
		Destination string `json:"Destination"`
	} `json:"Mounts"`
}

// ParseInspect extracts a CapturedConfig from docker inspect output.
func ParseInspect(data []byte) (*CapturedConfig, error) {
	var records []inspectRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unparseable inspect output: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("inspect output holds no container")
	}
	rec := records[0]

	captured := &CapturedConfig{}

	var portKeys []string
	for key := range rec.HostConfig.PortBindings {
		portKeys = append(portKeys, key)
	}
	sort.Strings(portKeys)
	for _, key := range portKeys {
		containerPort := strings.TrimSuffix(key, "/tcp")
		containerPort = strings.TrimSuffix(containerPort, "/udp")
		for _, binding := range rec.HostConfig.PortBindings[key] {
			if binding.HostPort == "" {
				continue
			}
			if binding.HostIP != "" && binding.HostIP != "0.0.0.0" {
				captured.Ports = append(captured.Ports, fmt.Sprintf("%s:%s:%s", binding.HostIP, binding.HostPort, containerPort))
			} else {
				captured.Ports = append(captured.Ports, fmt.Sprintf("%s:%s", binding.HostPort, containerPort))
			}
		}
	}

	for _, mount := range rec.Mounts {
		if mount.Type != "bind" || mount.Source == "" || mount.Destination == "" {
			continue
		}
		captured.Volumes = append(captured.Volumes, fmt.Sprintf("%s:%s", mount.Source, mount.Destination))
	}

	for _, env := range rec.Config.Env {
		if strings.HasPrefix(env, "PATH=") || strings.HasPrefix(env, "HOME=") {
			continue
		}
		captured.Env = append(captured.Env, env)
	}

	return captured, nil
}

// RunArgs assembles the docker run argument list recreating the
// container on a new image, restarting automatically unless stopped.
func (c *CapturedConfig) RunArgs(name, image string) []string {
	args := []string{"run", "-d", "--name", name, "--restart", "unless-stopped"}
	for _, port := range c.Ports {
		args = append(args, "-p", port)
	}
	for _, volume := range c.Volumes {
		args = append(args, "-v", volume)
	}
	for _, env := range c.Env {
		args = append(args, "-e", env)
	}
	return append(args, image)
}
