package mapping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mapsmith/internal/config"
	"mapsmith/internal/cover"
	"mapsmith/internal/deps/install"
	"mapsmith/internal/fileutil"
	"mapsmith/internal/logging"
	"mapsmith/internal/progress"
	"mapsmith/internal/queue"
	"mapsmith/internal/services"
)

// failurePointer is the only failure text callers ever see; raw diagnostics
// stay in the job log.
const failurePointer = "map generation failed; see job log"

// Orchestrator runs one submission through its full lifecycle: isolation,
// external invocation, outcome classification, artifact discovery, packaging,
// cleanup.
type Orchestrator struct {
	cfg       *config.Config
	store     *queue.Store
	toolchain install.Toolchain
	logger    *slog.Logger
	reporter  *progress.Reporter
}

// Result summarizes a finished job. ArchivePath is set on success, LogPath
// always.
type Result struct {
	JobID       string
	Status      queue.Status
	ArchivePath string
	LogPath     string
}

// NewOrchestrator builds an Orchestrator over a resolved toolchain.
func NewOrchestrator(cfg *config.Config, store *queue.Store, toolchain install.Toolchain, logger *slog.Logger, reporter *progress.Reporter) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		toolchain: toolchain,
		logger:    logging.NewComponentLogger(logger, "orchestrator"),
		reporter:  reporter,
	}
}

// Submit processes one audio submission synchronously and returns its
// Result. A blank audio reference is a no-op, not an error. Job-level
// failures resolve to a Failed (or Cancelled) Result with a log pointer;
// only infrastructure faults surface as errors.
func (o *Orchestrator) Submit(ctx context.Context, audioPath string, selection []Difficulty) (*Result, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, nil
	}

	normalized, err := NormalizeSelection(selection)
	if err != nil {
		return nil, err
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	job, err := o.store.NewJob(ctx, baseName, audioPath, EncodeSelection(normalized))
	if err != nil {
		return nil, err
	}
	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, o.logger)

	jobDir := filepath.Join(o.cfg.Paths.OutputDir, job.ID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, fmt.Errorf("create job directory: %w", err)
	}

	jobLog, err := OpenJobLog(filepath.Join(jobDir, "process_log.txt"))
	if err != nil {
		return nil, err
	}
	defer jobLog.Close()
	job.LogPath = jobLog.Path()

	jobLog.Infof("job %s started for %s", job.ID, audioPath)
	jobLog.Infof("difficulties: %s", strings.Join(difficultyStrings(normalized), ", "))
	logger.Info("job started",
		logging.String("audio", audioPath),
		logging.String("song", baseName))
	o.reporter.Report(0.05, "job created")

	copyPath := filepath.Join(o.cfg.Paths.WorkDir, filepath.Base(audioPath))
	if err := fileutil.CopyFileExcl(audioPath, copyPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			jobLog.Errorf("another job is already processing a file named %s", filepath.Base(audioPath))
			return o.failJob(ctx, job, jobLog, queue.StatusFailed)
		}
		jobLog.Errorf("isolating audio copy failed: %v", err)
		return o.failJob(ctx, job, jobLog, queue.StatusFailed)
	}
	defer func() {
		if o.cfg.Workflow.KeepWorkFiles {
			return
		}
		if err := os.Remove(copyPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("removing audio copy failed", logging.Error(err))
		}
	}()

	job.SetProgress("audio isolated", 10)
	job.Status = queue.StatusUploaded
	if err := o.store.Update(ctx, job); err != nil {
		return nil, err
	}
	o.reporter.Report(0.1, "audio isolated")
	jobLog.Infof("audio copied to %s", copyPath)

	difficultyPath := filepath.Join(jobDir, "difficulties.txt")
	if err := os.WriteFile(difficultyPath, []byte(EncodeSelection(normalized)), 0o644); err != nil {
		jobLog.Errorf("writing difficulty file failed: %v", err)
		return o.failJob(ctx, job, jobLog, queue.StatusFailed)
	}

	outputHint := filepath.Join(o.cfg.Paths.WorkDir, job.ID+"_generated")
	auxConfig := fmt.Sprintf("ffmpeg_path=%s\noutput_dir=%s\n", o.toolchain.MediaTool.Path, outputHint)
	auxConfigPath := filepath.Join(jobDir, "config.txt")
	if err := os.WriteFile(auxConfigPath, []byte(auxConfig), 0o644); err != nil {
		jobLog.Errorf("writing aux config failed: %v", err)
		return o.failJob(ctx, job, jobLog, queue.StatusFailed)
	}

	job.SetProgress("invoking analysis process", 20)
	job.Status = queue.StatusInvoking
	if err := o.store.Update(ctx, job); err != nil {
		return nil, err
	}
	o.reporter.Report(0.2, "invoking analysis process")

	runCtx := ctx
	if o.cfg.Workflow.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(o.cfg.Workflow.GenerateTimeout)*time.Second)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, o.toolchain.Runtime.Path, o.cfg.Runtime.ScriptPath, copyPath, difficultyPath, auxConfigPath)
	cmd.Dir = o.cfg.Paths.WorkDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	invokeCtx := services.WithStage(ctx, string(queue.StatusInvoking))
	invokeCtx = services.WithTool(invokeCtx, filepath.Base(o.toolchain.Runtime.Path))
	logging.WithContext(invokeCtx, o.logger).Info("analysis process started",
		logging.String("script", o.cfg.Runtime.ScriptPath))

	jobLog.Infof("running %s %s %s", o.toolchain.Runtime.Path, o.cfg.Runtime.ScriptPath, copyPath)
	runErr := cmd.Run()

	jobLog.Section("process stdout", stdout.String())
	jobLog.Section("process stderr", stderr.String())

	if runErr != nil {
		failErr := runErr
		if ctxErr := runCtx.Err(); ctxErr != nil {
			failErr = ctxErr
			jobLog.Errorf("analysis process terminated: %v", ctxErr)
		} else {
			jobLog.Errorf("analysis process failed: %v", runErr)
		}
		if hint, ok := ClassifyStderr(stderr.String()); ok {
			jobLog.Errorf("hint: %s", hint)
		}
		return o.failJob(ctx, job, jobLog, services.FailureStatus(failErr))
	}

	o.reporter.Report(0.7, "locating generated maps")
	outputDir, err := DiscoverOutputDir(o.cfg.Paths.WorkDir, outputHint, baseName)
	if err != nil {
		jobLog.Errorf("output discovery failed: %v", err)
		return o.failJob(ctx, job, jobLog, queue.StatusFailed)
	}
	jobLog.Infof("generated maps at %s", outputDir)

	if !cover.Exists(outputDir) {
		jobLog.Infof("no cover asset found, synthesizing one")
		if err := cover.Generate(filepath.Join(outputDir, cover.FileName), baseName); err != nil {
			jobLog.Errorf("cover synthesis failed: %v", err)
			return o.failJob(ctx, job, jobLog, queue.StatusFailed)
		}
	}

	o.reporter.Report(0.85, "packaging archive")
	archivePath := filepath.Join(jobDir, baseName+"_beatsaber_maps.zip")
	if err := ArchiveDirectory(outputDir, archivePath); err != nil {
		jobLog.Errorf("packaging failed: %v", err)
		return o.failJob(ctx, job, jobLog, queue.StatusFailed)
	}
	cleaned := removeGenerated(logger, outputDir)
	if outputDir != outputHint {
		_ = os.Remove(outputHint)
	}

	job.ArchivePath = archivePath
	job.Status = queue.StatusSucceeded
	job.Cleaned = cleaned
	job.SetProgress("archive ready", 100)
	if err := o.store.Update(ctx, job); err != nil {
		return nil, err
	}
	o.reporter.Report(1, "archive ready")
	jobLog.Infof("archive written to %s", archivePath)
	logger.Info("job succeeded", logging.String("archive", archivePath))

	return &Result{
		JobID:       job.ID,
		Status:      queue.StatusSucceeded,
		ArchivePath: archivePath,
		LogPath:     jobLog.Path(),
	}, nil
}

// failJob persists a terminal failure state and returns the caller-facing
// Result. The caller only ever learns the stable log pointer.
func (o *Orchestrator) failJob(ctx context.Context, job *queue.Job, jobLog *JobLog, status queue.Status) (*Result, error) {
	job.Status = status
	job.ErrorMessage = failurePointer
	job.Cleaned = true
	if err := o.store.Update(ctx, job); err != nil {
		return nil, err
	}
	o.reporter.Report(1, failurePointer)
	logging.WithContext(ctx, o.logger).Error("job failed",
		logging.String("status", string(status)),
		logging.String("log", jobLog.Path()))
	return &Result{
		JobID:   job.ID,
		Status:  status,
		LogPath: jobLog.Path(),
	}, nil
}

// removeGenerated deletes the discovered output tree after packaging and
// reports whether the scratch space is actually gone; the persisted cleaned
// flag must not claim a cleanup that failed.
func removeGenerated(logger *slog.Logger, dir string) bool {
	if err := os.RemoveAll(dir); err != nil {
		logger.Warn("removing generated directory failed", logging.Error(err))
		return false
	}
	return true
}

func difficultyStrings(selection []Difficulty) []string {
	values := make([]string, len(selection))
	for i, difficulty := range selection {
		values[i] = string(difficulty)
	}
	return values
}
