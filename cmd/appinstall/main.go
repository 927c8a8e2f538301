package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smartystreets/appinstall/core"
	"github.com/smartystreets/appinstall/shell"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (exitCode int) {
	root := &cobra.Command{
		Use:                "appinstall",
		Short:              "Download an application archive and unpack it.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			exitCode = installMain(args, stdin, stdout, stderr)
			return nil
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of appinstall.",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			_, _ = fmt.Fprintf(stdout, "appinstall [%s]\n", ldflagsSoftwareVersion)
		},
	})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return exitCode
}

func installMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	loader := core.NewInstallConfigLoader(shell.NewDiskFileSystem(""), shell.NewEnvironment(), stdin, stderr)
	config, err := loader.LoadConfig("appinstall", args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return NewInstallApp(config, newLogger(config.LogLevel, stderr), stdout, stderr).Run()
}

func newLogger(level string, output io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if parsed, err := logrus.ParseLevel(level); err == nil {
		logger.SetLevel(parsed)
	}
	return logger
}

var ldflagsSoftwareVersion = "debug"
