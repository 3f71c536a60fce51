package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	logDir, err := expandPath(c.Server.LogDir)
	if err != nil {
		return err
	}
	c.Server.LogDir = logDir

	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}

	hosts := make([]string, 0, len(c.Server.AllowedPostHosts))
	for _, host := range c.Server.AllowedPostHosts {
		if trimmed := strings.TrimSpace(host); trimmed != "" {
			hosts = append(hosts, trimmed)
		}
	}
	c.Server.AllowedPostHosts = hosts

	c.Model.Name = strings.TrimSpace(c.Model.Name)
	c.Model.Device = strings.ToLower(strings.TrimSpace(c.Model.Device))
	c.Model.Binary = strings.TrimSpace(c.Model.Binary)
	if c.Model.Binary == "" {
		c.Model.Binary = defaultModelBinary
	}
	if strings.TrimSpace(c.Model.Path) != "" {
		modelPath, err := expandPath(c.Model.Path)
		if err != nil {
			return err
		}
		c.Model.Path = modelPath
	} else {
		base, err := expandPath("~/.cache/whisperd/models")
		if err != nil {
			return err
		}
		c.Model.Path = filepath.Join(base, fmt.Sprintf("ggml-%s.bin", c.Model.Name))
	}

	if strings.TrimSpace(c.RequestLog.Path) != "" {
		dbPath, err := expandPath(c.RequestLog.Path)
		if err != nil {
			return err
		}
		c.RequestLog.Path = dbPath
	} else {
		c.RequestLog.Path = filepath.Join(c.Server.LogDir, "requests.db")
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
