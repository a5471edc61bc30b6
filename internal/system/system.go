package system

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TableExtensions are the inputs FindLatestTable considers.
var TableExtensions = []string{".yaml", ".yml", ".json", ".xlsx"}

// FindLatestTable returns the most recently modified table file in dir.
func FindLatestTable(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), TableExtensions) {
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
		return "", fmt.Errorf("no table files (%s) in %s", strings.Join(TableExtensions, ", "), dir)
	}
	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

var (
	encodersOnce sync.Once
	encodersList string
)

// ffmpegEncoders caches the output of `ffmpeg -encoders`.
func ffmpegEncoders() string {
	encodersOnce.Do(func() {
		out, err := exec.Command("ffmpeg", "-hide_banner", "-encoders").CombinedOutput()
		if err == nil {
			encodersList = string(out)
		}
	})
	return encodersList
}

// GetBestH264Encoder picks a hardware H.264 encoder when ffmpeg offers one:
// VideoToolbox on macOS, then NVENC, then libx264.
func GetBestH264Encoder() string {
	return pickEncoder(ffmpegEncoders())
}

func pickEncoder(list string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(list, name) {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality is the quality setting that suits encoder. x264 and NVENC
// take a CRF/CQ value, VideoToolbox a bitrate in 100 kbit/s units.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 23
	default:
		return 20
	}
}
