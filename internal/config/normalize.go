package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRuntime(); err != nil {
		return err
	}
	if err := c.normalizeMediaTool(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRuntime() error {
	c.Runtime.Version = strings.TrimSpace(c.Runtime.Version)
	c.Runtime.Binary = strings.TrimSpace(c.Runtime.Binary)

	var err error
	if c.Runtime.InstallRoot, err = expandPath(c.Runtime.InstallRoot); err != nil {
		return fmt.Errorf("runtime.install_root: %w", err)
	}
	if c.Runtime.ScriptPath, err = expandPath(c.Runtime.ScriptPath); err != nil {
		return fmt.Errorf("runtime.script_path: %w", err)
	}
	if c.Runtime.SetupScript, err = expandPath(c.Runtime.SetupScript); err != nil {
		return fmt.Errorf("runtime.setup_script: %w", err)
	}
	return nil
}

func (c *Config) normalizeMediaTool() error {
	c.MediaTool.Binary = strings.TrimSpace(c.MediaTool.Binary)

	var err error
	if c.MediaTool.InstallDir, err = expandPath(c.MediaTool.InstallDir); err != nil {
		return fmt.Errorf("media_tool.install_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
