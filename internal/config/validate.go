package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRuntime(); err != nil {
		return err
	}
	if err := c.validateMediaTool(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkDir == "" {
		return errors.New("paths.work_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.WorkDir == c.Paths.OutputDir {
		return errors.New("paths.work_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateRuntime() error {
	if c.Runtime.Version == "" {
		return errors.New("runtime.version must be set")
	}
	if c.Runtime.Binary == "" {
		return errors.New("runtime.binary must be set")
	}
	if c.Runtime.ScriptPath == "" {
		return errors.New("runtime.script_path must be set")
	}
	if c.Runtime.DownloadTimeout <= 0 {
		return errors.New("runtime.download_timeout must be positive")
	}
	return nil
}

func (c *Config) validateMediaTool() error {
	if c.MediaTool.Binary == "" {
		return errors.New("media_tool.binary must be set")
	}
	if c.MediaTool.DownloadTimeout <= 0 {
		return errors.New("media_tool.download_timeout must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.GenerateTimeout <= 0 {
		return errors.New("workflow.generate_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
