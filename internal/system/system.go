// Package system holds host helpers for the command-line tools: file
// limits, input discovery, narration length and host statistics.
package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "system")

// InitResourceLimits raises the open-file limit; batch renders write many
// frame files concurrently.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.WithError(err).Warn("could not read open file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.WithError(err).Warn("could not raise open file limit")
		return
	}
	log.WithField("limit", rLimit.Cur).Debug("open file limit raised")
}

var audioExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".aac", ".flac"}

// FindLatestAudio returns the newest narration track in dir.
func FindLatestAudio(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), audioExtensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no audio files found in %s", dir)
	}
	return latestFile, nil
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// AudioDuration asks ffprobe for the length of a track in seconds.
func AudioDuration(path string) (float64, error) {
	cmd := exec.Command("ffprobe", "-v", "error", "-show_entries", "format=duration", "-of", "default=noprint_wrappers=1:nokey=1", path)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return ParseDuration(string(out))
}

// ParseDuration reads ffprobe's bare duration output.
func ParseDuration(out string) (float64, error) {
	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(out), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", strings.TrimSpace(out), err)
	}
	return duration, nil
}

// HostStats describes the machine a render runs on.
type HostStats struct {
	LogicalCPUs int
	TotalMemory uint64
	UsedPercent float64
}

// Host samples the host. Fields gopsutil cannot read stay zero, except the
// CPU count which falls back to runtime.NumCPU.
func Host() HostStats {
	var s HostStats
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		s.LogicalCPUs = n
	} else {
		s.LogicalCPUs = runtime.NumCPU()
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.TotalMemory = vm.Total
		s.UsedPercent = vm.UsedPercent
	}
	return s
}

// DefaultWorkers is the worker count used when none is configured.
func DefaultWorkers() int {
	return Host().LogicalCPUs
}

// String formats the stats for reports.
func (s HostStats) String() string {
	return fmt.Sprintf("CPUs: %d | Memory: %.1f GiB (%.0f%% used)",
		s.LogicalCPUs, float64(s.TotalMemory)/(1<<30), s.UsedPercent)
}
