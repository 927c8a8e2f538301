package core

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/smartystreets/appinstall/contracts"
)

// Installer downloads an application archive and unpacks it on its own
// goroutine, reporting each stage and the final outcome through callbacks.
// An Installer performs a single run; construct a new one to try again.
type Installer struct {
	descriptor  contracts.ApplicationDescriptor
	destination string
	client      contracts.HTTPClient
	extractor   contracts.ArchiveExtractor
	files       contracts.FileCreator

	onStatus   contracts.StatusCallback
	onComplete contracts.CompleteCallback
	onProgress contracts.ProgressCallback

	tempDir          string
	logger           logrus.FieldLogger
	progressInterval time.Duration
	chunkSize        int
	now              func() time.Time

	archivePath    string
	extractionPath string

	started   sync.Once
	completed sync.Once
	done      chan struct{}
	err       error
}

// NewInstaller performs no I/O and no validation. A descriptor whose name
// would place the extraction directory outside the temp directory fails the
// Unpacking stage.
func NewInstaller(
	descriptor contracts.ApplicationDescriptor,
	destination string,
	client contracts.HTTPClient,
	extractor contracts.ArchiveExtractor,
	files contracts.FileCreator,
	options ...Option,
) *Installer {
	this := &Installer{
		descriptor:  descriptor,
		destination: destination,
		client:      client,
		extractor:   extractor,
		files:       files,
		done:        make(chan struct{}),
	}
	for _, option := range append(defaultOptions(), options...) {
		option(this)
	}
	return this
}

// Start launches the installation on a new goroutine and returns immediately.
// Only the first call has any effect.
func (this *Installer) Start() {
	this.started.Do(func() { go this.run() })
}

// Wait blocks until a started run has finished.
func (this *Installer) Wait() { <-this.done }

func (this *Installer) Done() <-chan struct{} { return this.done }

// Err returns the *Failure that ended the run, or nil if the run succeeded or
// has not finished yet.
func (this *Installer) Err() error {
	select {
	case <-this.done:
		return this.err
	default:
		return nil
	}
}

func (this *Installer) Descriptor() contracts.ApplicationDescriptor { return this.descriptor }

// Destination is the caller's requested install root. It plays no part in
// where the archive is downloaded or extracted.
func (this *Installer) Destination() string { return this.destination }

func (this *Installer) ArchivePath() string {
	return ComposeArchivePath(this.tempDir, this.descriptor)
}

func (this *Installer) ExtractionPath() string {
	return ComposeExtractionPath(this.tempDir, this.descriptor)
}

///////////////////////////////////////////////////////////////////////////////

type stage struct {
	label  contracts.Stage
	action func() *Failure
}

func (this *Installer) stages() []stage {
	return []stage{
		{label: contracts.StageInitializing, action: this.initialize},
		{label: contracts.StageDownloading, action: this.download},
		{label: contracts.StageUnpacking, action: this.unpack},
		{label: contracts.StageInstalling},
		{label: contracts.StageCreatingShortcuts},
		{label: contracts.StageFinalizing},
	}
}

func (this *Installer) run() {
	defer close(this.done)
	defer this.containPanic()

	for _, stage := range this.stages() {
		this.enter(stage.label)
		if stage.action == nil {
			continue
		}
		if failure := stage.action(); failure != nil {
			this.finish(failure)
			return
		}
	}
	this.finish(nil)
}

func (this *Installer) enter(label contracts.Stage) {
	this.log().WithField("stage", label).Debug("entering stage")
	if this.onStatus != nil {
		this.onStatus(label)
	}
}

func (this *Installer) initialize() *Failure {
	this.archivePath = this.ArchivePath()
	this.extractionPath = this.ExtractionPath()
	this.log().WithFields(logrus.Fields{
		"archive":     this.archivePath,
		"extraction":  this.extractionPath,
		"destination": this.destination,
	}).Infof("installing %s", this.descriptor.Title())
	return nil
}

func (this *Installer) download() *Failure {
	location := this.descriptor.DownloadLocation
	response, err := this.client.Get(location)
	if err != nil {
		return newFailure(ErrTransport, err, transportErrorTemplate, location)
	}
	if response == nil {
		return newFailure(ErrTransport, errNilResponse, transportErrorTemplate, location)
	}
	body := response.Body
	if body == nil {
		body = http.NoBody
	}
	defer this.closeResource("response body", body)

	if response.StatusCode != http.StatusOK {
		return newFailure(ErrTransport, nil, statusErrorTemplate, response.StatusCode, location)
	}
	return this.save(body, response.ContentLength)
}

func (this *Installer) save(body io.Reader, size int64) (failure *Failure) {
	file, err := this.files.Create(this.archivePath)
	if err != nil {
		return newFailure(ErrLocalStorage, err, createErrorTemplate, this.archivePath)
	}
	defer func() {
		if err := file.Close(); err != nil {
			if failure == nil {
				failure = newFailure(ErrLocalStorage, err, writeErrorTemplate, this.archivePath)
			} else {
				this.log().Warnf("failed to close %s: %v", this.archivePath, err)
			}
		}
	}()

	progress := newDownloadProgressCounter(size, this.progressInterval, this.now, this.reportProgress)
	if failure = this.stream(body, io.MultiWriter(file, progress)); failure != nil {
		return failure
	}
	progress.Close()
	return nil
}

// stream copies source to target one chunk at a time so that read failures
// (transport) and write failures (local storage) can be told apart.
func (this *Installer) stream(source io.Reader, target io.Writer) *Failure {
	buffer := make([]byte, this.chunkSize)
	for {
		n, err := source.Read(buffer)
		if n > 0 {
			if _, writeErr := target.Write(buffer[:n]); writeErr != nil {
				return newFailure(ErrLocalStorage, writeErr, writeErrorTemplate, this.archivePath)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return newFailure(ErrTransport, err, readErrorTemplate, this.descriptor.DownloadLocation)
		}
	}
}

func (this *Installer) reportProgress(progress contracts.DownloadProgress) {
	this.log().WithField("progress", progress.String()).Debug("downloading")
	if this.onProgress != nil {
		this.onProgress(progress)
	}
}

func (this *Installer) unpack() (failure *Failure) {
	if !extractionPathContained(this.tempDir, this.extractionPath) {
		return newFailure(ErrExtraction, errUncontainedExtraction, extractionErrorMessage)
	}
	archive, err := this.extractor.Open(this.archivePath)
	if err != nil {
		return newFailure(ErrExtraction, err, extractionErrorMessage)
	}

	var errs *multierror.Error
	defer func() {
		errs = multierror.Append(errs, archive.Close())
		if err := errs.ErrorOrNil(); err != nil && failure == nil {
			failure = newFailure(ErrExtraction, err, extractionErrorMessage)
		}
	}()

	errs = multierror.Append(errs, archive.ExtractAll(this.extractionPath))
	return nil
}

///////////////////////////////////////////////////////////////////////////////

func (this *Installer) finish(failure *Failure) {
	this.completed.Do(func() {
		if failure == nil {
			this.log().Infof("installed %s", this.descriptor.Title())
			this.notifyComplete(true, "")
			return
		}
		this.err = failure
		this.log().WithError(failure).Error("installation failed")
		this.notifyComplete(false, failure.Message)
	})
}

func (this *Installer) notifyComplete(success bool, message string) {
	if this.onComplete != nil {
		this.onComplete(success, message)
	}
}

func (this *Installer) containPanic() {
	recovered := recover()
	if recovered == nil {
		return
	}
	this.log().WithField("panic", recovered).Error("installation worker recovered from panic")

	defer func() {
		if again := recover(); again != nil {
			this.log().WithField("panic", again).Error("completion callback panicked")
		}
	}()
	this.finish(newFailure(ErrUnexpected, fmt.Errorf("%v", recovered), unexpectedErrorTemplate, this.descriptor.Name))
}

func (this *Installer) closeResource(name string, resource io.Closer) {
	if err := resource.Close(); err != nil {
		this.log().Warnf("failed to close %s: %v", name, err)
	}
}

func (this *Installer) log() logrus.FieldLogger {
	return this.logger.WithField("application", this.descriptor.Name)
}

var (
	errNilResponse           = errors.New("no response")
	errUncontainedExtraction = errors.New("extraction directory is not beneath the temp directory")
)
