package core

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/smartystreets/appinstall/contracts"
)

const (
	defaultChunkSize        = 32 * 1024
	defaultProgressInterval = 2 * time.Second
)

type Option func(*Installer)

func WithStatusCallback(callback contracts.StatusCallback) Option {
	return func(this *Installer) { this.onStatus = callback }
}

func WithCompleteCallback(callback contracts.CompleteCallback) Option {
	return func(this *Installer) { this.onComplete = callback }
}

func WithProgressCallback(callback contracts.ProgressCallback) Option {
	return func(this *Installer) { this.onProgress = callback }
}

// WithTempDirectory overrides the system temp directory as the root for the
// downloaded archive and the extraction directory.
func WithTempDirectory(directory string) Option {
	return func(this *Installer) { this.tempDir = directory }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(this *Installer) { this.logger = logger }
}

// WithProgressInterval sets the minimum time between progress reports. Zero
// reports after every chunk.
func WithProgressInterval(interval time.Duration) Option {
	return func(this *Installer) { this.progressInterval = interval }
}

func WithChunkSize(size int) Option {
	return func(this *Installer) {
		if size > 0 {
			this.chunkSize = size
		}
	}
}

func withClock(now func() time.Time) Option {
	return func(this *Installer) { this.now = now }
}

func defaultOptions() []Option {
	return []Option{
		WithTempDirectory(os.TempDir()),
		WithLogger(logrus.StandardLogger()),
		WithProgressInterval(defaultProgressInterval),
		WithChunkSize(defaultChunkSize),
		withClock(time.Now),
	}
}
