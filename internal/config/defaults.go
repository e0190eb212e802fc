package config

const (
	defaultWorkDir         = "~/.local/share/mapsmith/work"
	defaultOutputDir       = "~/.local/share/mapsmith/maps"
	defaultLogDir          = "~/.local/share/mapsmith/logs"
	defaultDataDir         = "~/.local/share/mapsmith"
	defaultRuntimeVersion  = "1.8.5"
	defaultRuntimeBinary   = "julia"
	defaultRuntimeRoot     = "~/.local/share/mapsmith/julia"
	defaultScriptPath      = "src/mapsongs.jl"
	defaultSetupScript     = "src/setup.jl"
	defaultMediaToolBinary = "ffmpeg"
	defaultMediaToolDir    = "~/.local/share/mapsmith/ffmpeg"
	defaultDownloadTimeout = 900
	defaultGenerateTimeout = 3600
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			DataDir:   defaultDataDir,
		},
		Runtime: Runtime{
			Version:         defaultRuntimeVersion,
			Binary:          defaultRuntimeBinary,
			InstallRoot:     defaultRuntimeRoot,
			ScriptPath:      defaultScriptPath,
			SetupScript:     defaultSetupScript,
			DownloadTimeout: defaultDownloadTimeout,
		},
		MediaTool: MediaTool{
			Binary:          defaultMediaToolBinary,
			InstallDir:      defaultMediaToolDir,
			DownloadTimeout: defaultDownloadTimeout,
		},
		Workflow: Workflow{
			GenerateTimeout: defaultGenerateTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
