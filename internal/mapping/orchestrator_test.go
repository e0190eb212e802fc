package mapping_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"mapsmith/internal/config"
	"mapsmith/internal/logging"
	"mapsmith/internal/mapping"
	"mapsmith/internal/queue"
	"mapsmith/internal/testsupport"
)

// suffixDirStub simulates the analysis process creating
// `abcd_<song-base-name>` in its working directory.
const suffixDirStub = `
audio="$2"
base=$(basename "$audio")
base="${base%.*}"
mkdir -p "abcd_${base}/info"
printf notes > "abcd_${base}/ExpertPlus.dat"
printf metadata > "abcd_${base}/info/info.dat"
exit 0`

func newOrchestrator(t *testing.T, runtimeBody string) (*mapping.Orchestrator, *queue.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	toolchain := testsupport.StubToolchain(t, runtimeBody)
	orchestrator := mapping.NewOrchestrator(cfg, store, toolchain, nil, nil)
	return orchestrator, store, cfg
}

func TestSubmitBlankAudioIsNoOp(t *testing.T) {
	orchestrator, store, _ := newOrchestrator(t, "exit 0")
	result, err := orchestrator.Submit(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %+v", result)
	}
	jobs, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestSubmitSuccessPackagesDiscoveredDirectory(t *testing.T) {
	orchestrator, store, cfg := newOrchestrator(t, suffixDirStub)
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "song.wav")

	result, err := orchestrator.Submit(context.Background(), audio, []mapping.Difficulty{mapping.DifficultyEasy})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusSucceeded {
		t.Fatalf("expected success, got %+v", result)
	}
	if filepath.Base(result.ArchivePath) != "song_beatsaber_maps.zip" {
		t.Fatalf("unexpected archive name: %q", result.ArchivePath)
	}

	members := readArchive(t, result.ArchivePath)
	for _, want := range []string{"abcd_song/ExpertPlus.dat", "abcd_song/info/info.dat", "abcd_song/cover.jpg"} {
		if _, ok := members[want]; !ok {
			t.Fatalf("archive missing %q: %v", want, members)
		}
	}

	// The discovered directory and the isolated audio copy are both gone.
	if _, err := os.Stat(filepath.Join(cfg.Paths.WorkDir, "abcd_song")); !os.IsNotExist(err) {
		t.Fatalf("expected discovered directory removed, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.WorkDir, "song.wav")); !os.IsNotExist(err) {
		t.Fatalf("expected audio copy removed, stat err=%v", err)
	}

	job, err := store.GetByID(context.Background(), result.JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != queue.StatusSucceeded || !job.Cleaned {
		t.Fatalf("unexpected stored job: %+v", job)
	}
	if job.Difficulties != "Easy\n" {
		t.Fatalf("unexpected stored difficulties: %q", job.Difficulties)
	}

	jobDir := filepath.Dir(result.ArchivePath)
	diffData, err := os.ReadFile(filepath.Join(jobDir, "difficulties.txt"))
	if err != nil {
		t.Fatalf("read difficulty file: %v", err)
	}
	if string(diffData) != "Easy\n" {
		t.Fatalf("unexpected difficulty wire format: %q", diffData)
	}
	auxData, err := os.ReadFile(filepath.Join(jobDir, "config.txt"))
	if err != nil {
		t.Fatalf("read aux config: %v", err)
	}
	if !strings.Contains(string(auxData), "ffmpeg_path=") || !strings.Contains(string(auxData), "output_dir=") {
		t.Fatalf("unexpected aux config: %q", auxData)
	}
}

func TestSubmitHonorsExplicitOutputDirectory(t *testing.T) {
	stub := `
outdir=$(grep '^output_dir=' "$4" | cut -d= -f2)
mkdir -p "$outdir"
printf notes > "$outdir/Easy.dat"
exit 0`
	orchestrator, _, _ := newOrchestrator(t, stub)
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "tune.wav")

	result, err := orchestrator.Submit(context.Background(), audio, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusSucceeded {
		t.Fatalf("expected success, got %+v", result)
	}
	members := readArchive(t, result.ArchivePath)
	found := false
	for name := range members {
		if strings.HasSuffix(name, "/Easy.dat") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected generated map in archive, got %v", members)
	}
}

func TestSubmitFailureWritesHintToLog(t *testing.T) {
	stub := `echo "ERROR: LoadError: ArgumentError: Package WAV not found" >&2
exit 1`
	orchestrator, store, _ := newOrchestrator(t, stub)
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "broken.wav")

	result, err := orchestrator.Submit(context.Background(), audio, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusFailed {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.ArchivePath != "" {
		t.Fatalf("expected no archive, got %q", result.ArchivePath)
	}

	logData, err := os.ReadFile(result.LogPath)
	if err != nil {
		t.Fatalf("read job log: %v", err)
	}
	if !strings.Contains(string(logData), "WAV package") {
		t.Fatalf("expected remediation hint in log, got:\n%s", logData)
	}
	if !strings.Contains(string(logData), "Package WAV not found") {
		t.Fatalf("expected raw stderr in log, got:\n%s", logData)
	}

	job, err := store.GetByID(context.Background(), result.JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.ErrorMessage == "" || strings.Contains(job.ErrorMessage, "LoadError") {
		t.Fatalf("caller-facing message must be the generic pointer, got %q", job.ErrorMessage)
	}
}

func TestSubmitAmbiguousOutputFailsDespiteCleanExit(t *testing.T) {
	stub := `
audio="$2"
base=$(basename "$audio")
base="${base%.*}"
mkdir -p "aaaa_${base}" "bbbb_${base}"
exit 0`
	orchestrator, _, _ := newOrchestrator(t, stub)
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "twice.wav")

	result, err := orchestrator.Submit(context.Background(), audio, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusFailed {
		t.Fatalf("expected failure, got %+v", result)
	}
	logData, err := os.ReadFile(result.LogPath)
	if err != nil {
		t.Fatalf("read job log: %v", err)
	}
	if !strings.Contains(string(logData), "discovery") {
		t.Fatalf("expected discovery failure in log, got:\n%s", logData)
	}
}

func TestSubmitTimeoutCancelsJob(t *testing.T) {
	orchestrator, store, cfg := newOrchestrator(t, "sleep 10\nexit 0")
	cfg.Workflow.GenerateTimeout = 1
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "slow.wav")

	result, err := orchestrator.Submit(context.Background(), audio, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusCancelled {
		t.Fatalf("expected cancelled, got %+v", result)
	}
	job, err := store.GetByID(context.Background(), result.JobID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if job.Status != queue.StatusCancelled {
		t.Fatalf("unexpected stored status: %v", job.Status)
	}
}

func TestSubmitEmitsStageScopedLogFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	toolchain := testsupport.StubToolchain(t, suffixDirStub)

	logPath := filepath.Join(t.TempDir(), "mapsmith.log")
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("build logger: %v", err)
	}

	orchestrator := mapping.NewOrchestrator(cfg, store, toolchain, logger, nil)
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "fields.wav")
	result, err := orchestrator.Submit(context.Background(), audio, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusSucceeded {
		t.Fatalf("expected success, got %+v", result)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`"stage":"invoking"`,
		`"tool":"julia"`,
		`"job_id":"` + result.JobID + `"`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %s in structured log:\n%s", want, text)
		}
	}
}

func TestSubmitConcurrentDistinctFiles(t *testing.T) {
	orchestrator, store, _ := newOrchestrator(t, suffixDirStub)
	audioDir := t.TempDir()

	const n = 3
	audioPaths := make([]string, n)
	for idx := 0; idx < n; idx++ {
		audioPaths[idx] = testsupport.WriteAudioFixture(t, audioDir, fmt.Sprintf("track-%d.wav", idx))
	}

	results := make([]*mapping.Result, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for idx := 0; idx < n; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = orchestrator.Submit(context.Background(), audioPaths[idx], nil)
		}(idx)
	}
	wg.Wait()

	seen := make(map[string]struct{})
	for idx := 0; idx < n; idx++ {
		if errs[idx] != nil {
			t.Fatalf("submission %d: %v", idx, errs[idx])
		}
		if results[idx].Status != queue.StatusSucceeded {
			t.Fatalf("submission %d: %+v", idx, results[idx])
		}
		if _, dup := seen[results[idx].JobID]; dup {
			t.Fatalf("duplicate job id %q", results[idx].JobID)
		}
		seen[results[idx].JobID] = struct{}{}
	}

	health, err := store.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Succeeded != n {
		t.Fatalf("expected %d succeeded jobs, got %+v", n, health)
	}
}

func TestSubmitSameBaseNameCollisionFailsDeterministically(t *testing.T) {
	orchestrator, _, cfg := newOrchestrator(t, suffixDirStub)
	audio := testsupport.WriteAudioFixture(t, t.TempDir(), "clash.wav")

	// Simulate an in-flight job holding the work-area name.
	blocked := filepath.Join(cfg.Paths.WorkDir, "clash.wav")
	if err := os.WriteFile(blocked, []byte("held by another job"), 0o644); err != nil {
		t.Fatalf("write collision file: %v", err)
	}

	result, err := orchestrator.Submit(context.Background(), audio, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.Status != queue.StatusFailed {
		t.Fatalf("expected deterministic failure, got %+v", result)
	}
	logData, err := os.ReadFile(result.LogPath)
	if err != nil {
		t.Fatalf("read job log: %v", err)
	}
	if !strings.Contains(string(logData), "another job") {
		t.Fatalf("expected collision explanation in log, got:\n%s", logData)
	}

	// The in-flight job's work file is untouched.
	data, err := os.ReadFile(blocked)
	if err != nil || string(data) != "held by another job" {
		t.Fatalf("collision victim corrupted: %q err=%v", data, err)
	}
}
