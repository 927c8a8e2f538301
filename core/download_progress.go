package core

import (
	"time"

	"github.com/smartystreets/appinstall/contracts"
)

// downloadProgressCounter counts bytes written through it and reports the
// running total no more often than once per interval. It reports on the
// writing goroutine; Close sends the final report.
type downloadProgressCounter struct {
	written    int64
	total      int64
	interval   time.Duration
	now        func() time.Time
	lastReport time.Time
	onProgress func(contracts.DownloadProgress)
	closed     bool
}

func newDownloadProgressCounter(total int64, interval time.Duration, now func() time.Time, onProgress func(contracts.DownloadProgress)) *downloadProgressCounter {
	return &downloadProgressCounter{
		total:      total,
		interval:   interval,
		now:        now,
		lastReport: now(),
		onProgress: onProgress,
	}
}

func (this *downloadProgressCounter) Write(p []byte) (n int, err error) {
	n = len(p)
	this.written += int64(n)
	if moment := this.now(); moment.Sub(this.lastReport) >= this.interval {
		this.lastReport = moment
		this.reportProgress()
	}
	return n, nil
}

func (this *downloadProgressCounter) Close() {
	if this.closed {
		return
	}
	this.closed = true
	this.reportProgress()
}

func (this *downloadProgressCounter) Progress() contracts.DownloadProgress {
	return contracts.DownloadProgress{Written: this.written, Total: this.total}
}

func (this *downloadProgressCounter) reportProgress() {
	this.onProgress(this.Progress())
}
