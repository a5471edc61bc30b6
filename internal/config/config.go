package config

import "time"

const (
	DefaultVideoSize   = 1080
	DefaultFPS         = 30
	DefaultSampleRate  = 48000
	DefaultEndBuffer   = 2500 * time.Millisecond
	DefaultImageWidth  = 2400
	DefaultImageHeight = 3000
)

// Config holds host and export settings. Per-presentation settings live in
// AnimationConfig.
type Config struct {
	InputPath    string
	OutputVideo  string
	OutputImage  string
	Width        int
	Height       int
	FPS          int
	SampleRate   int
	EndBuffer    time.Duration
	VideoEncoder string
	Quality      int
	ImageWidth   int
	ImageHeight  int
	PreviewPath  string
	PreviewFPS   int
	StatsDB      string
	ShowStats    bool
	BuildVersion string
}

// Default returns a Config with the fixed export geometry filled in.
func Default() *Config {
	return &Config{
		Width:        DefaultVideoSize,
		Height:       DefaultVideoSize,
		FPS:          DefaultFPS,
		SampleRate:   DefaultSampleRate,
		EndBuffer:    DefaultEndBuffer,
		VideoEncoder: "libx264",
		Quality:      23,
		ImageWidth:   DefaultImageWidth,
		ImageHeight:  DefaultImageHeight,
		PreviewFPS:   10,
	}
}

// AnimationConfig describes how one presentation looks and moves.
type AnimationConfig struct {
	Theme           Theme   `yaml:"theme" json:"theme"`
	Layout          Layout  `yaml:"layout" json:"layout"`
	Style           Style   `yaml:"style" json:"style"`
	DurationPerItem float64 `yaml:"durationPerItem" json:"durationPerItem"` // seconds
	ShowProgressBar bool    `yaml:"showProgressBar" json:"showProgressBar"`
	ShowAppName     bool    `yaml:"showAppName" json:"showAppName"`
	ShowAIWatermark bool    `yaml:"showAiWatermark" json:"showAiWatermark"`
	BackgroundImage string  `yaml:"backgroundImage,omitempty" json:"backgroundImage,omitempty"`
}

// DefaultAnimation returns the settings used when a project omits them.
func DefaultAnimation() AnimationConfig {
	return AnimationConfig{
		Theme:           ThemeCosmic,
		Layout:          LayoutStacked,
		Style:           StyleSlide,
		DurationPerItem: 3,
		ShowProgressBar: true,
	}
}

// StepDuration converts DurationPerItem to a time.Duration. Non-positive
// values fall back to the default so callers never divide by zero.
func (a AnimationConfig) StepDuration() time.Duration {
	d := a.DurationPerItem
	if d <= 0 {
		d = DefaultAnimation().DurationPerItem
	}
	return time.Duration(d * float64(time.Second))
}
