package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/smartystreets/appinstall/contracts"
	"github.com/smartystreets/appinstall/core"
	"github.com/smartystreets/appinstall/shell"
)

// InstallApp runs a single installation, echoing its stages and progress to
// stdout and a failure message to stderr.
type InstallApp struct {
	config  contracts.InstallConfig
	logger  logrus.FieldLogger
	stdout  io.Writer
	stderr  io.Writer
	options []core.Option
}

func NewInstallApp(config contracts.InstallConfig, logger logrus.FieldLogger, stdout, stderr io.Writer, options ...core.Option) *InstallApp {
	return &InstallApp{
		config:  config,
		logger:  logger,
		stdout:  stdout,
		stderr:  stderr,
		options: options,
	}
}

func (this *InstallApp) Run() int {
	options := append([]core.Option{
		core.WithLogger(this.logger),
		core.WithStatusCallback(this.reportStage),
		core.WithProgressCallback(this.reportProgress),
		core.WithCompleteCallback(this.reportCompletion),
	}, this.options...)

	installer := core.NewInstaller(
		this.config.Descriptor,
		this.config.Destination,
		shell.NewHTTPClient(this.config.Timeout),
		shell.NewZipExtractor(),
		shell.NewDiskFileSystem(""),
		options...,
	)
	installer.Start()
	installer.Wait()

	if installer.Err() != nil {
		return 1
	}
	_, _ = fmt.Fprintf(this.stdout, "Unpacked into %s\n", installer.ExtractionPath())
	return 0
}

func (this *InstallApp) reportStage(stage contracts.Stage) {
	_, _ = fmt.Fprintf(this.stdout, "%s...\n", stage)
}

func (this *InstallApp) reportProgress(progress contracts.DownloadProgress) {
	if percent := progress.Percent(); percent >= 0 {
		_, _ = fmt.Fprintf(this.stdout, "  %s (%.0f%%)\n", progress, percent)
	} else {
		_, _ = fmt.Fprintf(this.stdout, "  %s\n", progress)
	}
}

func (this *InstallApp) reportCompletion(success bool, message string) {
	if success {
		_, _ = fmt.Fprintf(this.stdout, "Installed %s\n", this.config.Descriptor.Title())
	} else {
		_, _ = fmt.Fprintf(this.stderr, "Installation failed: %s\n", message)
	}
}
