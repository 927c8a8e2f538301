package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/smartystreets/appinstall/contracts"
)

const (
	stdinJSONPath    = "_STDIN_"
	logLevelVariable = "APPINSTALL_LOG_LEVEL"
	defaultLogLevel  = "info"
)

type InstallConfigLoader struct {
	storage     contracts.FileReader
	environment contracts.Environment
	stdin       io.Reader
	stderr      io.Writer
}

func NewInstallConfigLoader(storage contracts.FileReader, environment contracts.Environment, stdin io.Reader, stderr io.Writer) *InstallConfigLoader {
	return &InstallConfigLoader{
		storage:     storage,
		environment: environment,
		stdin:       stdin,
		stderr:      stderr,
	}
}

// LoadConfig parses args into an InstallConfig. The descriptor comes from
// --url and --name when given, otherwise from the JSON document named by
// --json. A pflag.ErrHelp error means usage was requested and printed.
func (this *InstallConfigLoader) LoadConfig(name string, args []string) (config contracts.InstallConfig, err error) {
	config, err = this.parseCLI(name, args)
	if err != nil {
		return contracts.InstallConfig{}, err
	}

	if config.Descriptor == (contracts.ApplicationDescriptor{}) {
		config.Descriptor, err = this.parseDescriptorFile(config.JSONPath)
		if err != nil {
			return contracts.InstallConfig{}, err
		}
	}

	if config.LogLevel == "" {
		config.LogLevel = this.lookupLogLevel()
	}

	err = this.validate(config)
	if err != nil {
		return contracts.InstallConfig{}, err
	}

	return config, nil
}

func (this *InstallConfigLoader) parseCLI(name string, args []string) (config contracts.InstallConfig, err error) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(this.stderr)
	flags.StringVar(&config.JSONPath,
		"json",
		"",
		"Path to a file holding the application descriptor or, if equal to _STDIN_, read it from stdin.",
	)
	flags.StringVar(&config.Descriptor.DownloadLocation,
		"url",
		"",
		"Download location of the application archive (overrides --json).",
	)
	flags.StringVar(&config.Descriptor.Name,
		"name",
		"",
		"Name of the application; the archive is extracted into a directory of this name.",
	)
	flags.StringVar(&config.Destination,
		"destination",
		"",
		"Install root requested for the application.",
	)
	flags.DurationVar(&config.Timeout,
		"timeout",
		0,
		"Overall HTTP timeout for the download (0 waits indefinitely).",
	)
	flags.StringVar(&config.LogLevel,
		"log-level",
		"",
		"Log level (panic, fatal, error, warn, info, debug, trace); defaults to $"+logLevelVariable+" or info.",
	)
	flags.Usage = func() {
		_, _ = fmt.Fprintf(this.stderr, "Usage of %s:\n", name)
		flags.PrintDefaults()
		_, _ = fmt.Fprintln(this.stderr, `
Example descriptor:
  {"download_location": "https://example.com/app.zip", "name": "App"}

exit code 0: success
exit code 1: installation failed (the failure message and logs go to stderr)`)
	}
	err = flags.Parse(args)

	return config, err
}

func (this *InstallConfigLoader) parseDescriptorFile(path string) (descriptor contracts.ApplicationDescriptor, err error) {
	data, err := this.readRawJSON(path)
	if err != nil {
		return contracts.ApplicationDescriptor{}, err
	}
	err = json.Unmarshal(data, &descriptor)
	if err != nil {
		return contracts.ApplicationDescriptor{}, fmt.Errorf("malformed descriptor in %s: %w", path, err)
	}
	return descriptor, nil
}

func (this *InstallConfigLoader) readRawJSON(path string) (data []byte, err error) {
	if path == "" {
		return nil, blankDescriptorSourceErr
	}
	if path == stdinJSONPath {
		return io.ReadAll(this.stdin)
	}
	return this.storage.ReadFile(path)
}

func (this *InstallConfigLoader) lookupLogLevel() string {
	level, found := this.environment.LookupEnv(logLevelVariable)
	level = strings.TrimSpace(level)
	if !found || level == "" {
		return defaultLogLevel
	}
	return level
}

func (this *InstallConfigLoader) validate(config contracts.InstallConfig) error {
	if config.Timeout < 0 {
		return negativeTimeoutErr
	}
	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return err
	}
	if err := config.Descriptor.Validate(); err != nil {
		return fmt.Errorf("invalid application descriptor: %w", err)
	}
	return nil
}

var (
	blankDescriptorSourceErr = errors.New("either --url and --name or --json must be provided")
	negativeTimeoutErr       = errors.New("timeout must not be negative")
)
