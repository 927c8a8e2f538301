package core

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smartystreets/appinstall/contracts"
	"github.com/smartystreets/appinstall/shell"
)

func TestInstallerIntegrationFixture(t *testing.T) {
	gunit.Run(new(InstallerIntegrationFixture), t)
}

type InstallerIntegrationFixture struct {
	*gunit.Fixture

	tempDir  string
	server   *httptest.Server
	archive  []byte
	statuses []contracts.Stage
	outcome  completion
}

func (this *InstallerIntegrationFixture) Setup() {
	var err error
	this.tempDir, err = os.MkdirTemp("", "appinstall-integration-")
	this.So(err, should.BeNil)
	this.archive = buildZip(map[string]string{
		"bin/app":       "#!/bin/sh\necho hello\n",
		"README.md":     "read me",
		"config/a.json": "{}",
	})
	this.server = httptest.NewServer(http.HandlerFunc(this.serve))
}

func (this *InstallerIntegrationFixture) Teardown() {
	this.server.Close()
	_ = os.RemoveAll(this.tempDir)
}

func (this *InstallerIntegrationFixture) serve(response http.ResponseWriter, request *http.Request) {
	switch request.URL.Path {
	case "/app.zip":
		_, _ = response.Write(this.archive)
	case "/broken.zip":
		_, _ = response.Write([]byte("this is not a zip archive"))
	default:
		http.NotFound(response, request)
	}
}

func (this *InstallerIntegrationFixture) install(location string) *Installer {
	logger, _ := test.NewNullLogger()
	installer := NewInstaller(
		contracts.ApplicationDescriptor{DownloadLocation: this.server.URL + location, Name: "App"},
		"",
		shell.NewHTTPClient(10*time.Second),
		shell.NewZipExtractor(),
		shell.NewDiskFileSystem(""),
		WithTempDirectory(this.tempDir),
		WithLogger(logger),
		WithStatusCallback(func(stage contracts.Stage) { this.statuses = append(this.statuses, stage) }),
		WithCompleteCallback(func(success bool, message string) { this.outcome = completion{success, message} }),
	)
	installer.Start()
	installer.Wait()
	return installer
}

func (this *InstallerIntegrationFixture) TestArchiveIsDownloadedAndExtracted() {
	installer := this.install("/app.zip")

	this.So(installer.Err(), should.BeNil)
	this.So(this.outcome, should.Resemble, completion{success: true})
	this.So(this.statuses, should.Resemble, contracts.Stages)

	downloaded, err := os.ReadFile(filepath.Join(this.tempDir, "app.zip"))
	this.So(err, should.BeNil)
	this.So(bytes.Equal(downloaded, this.archive), should.BeTrue)

	script, err := os.ReadFile(filepath.Join(this.tempDir, "App", "bin", "app"))
	this.So(err, should.BeNil)
	this.So(string(script), should.Equal, "#!/bin/sh\necho hello\n")
	readme, _ := os.ReadFile(filepath.Join(this.tempDir, "App", "README.md"))
	this.So(string(readme), should.Equal, "read me")
}

func (this *InstallerIntegrationFixture) TestMissingArchiveReportsStatusCode() {
	installer := this.install("/missing.zip")

	this.So(this.outcome, should.Resemble, completion{false, "Got error 404 accessing " + this.server.URL + "/missing.zip"})
	this.So(installer.Err(), should.NotBeNil)
	_, err := os.Stat(filepath.Join(this.tempDir, "missing.zip"))
	this.So(os.IsNotExist(err), should.BeTrue)
}

func (this *InstallerIntegrationFixture) TestCorruptArchiveFailsToUnzip() {
	this.install("/broken.zip")

	this.So(this.outcome, should.Resemble, completion{false, "Error unzipping file"})
	this.So(this.statuses, should.Resemble, []contracts.Stage{"Initializing", "Downloading", "Unpacking"})
}

func (this *InstallerIntegrationFixture) TestUnreachableServerReportsTransportFailure() {
	this.server.Close()

	this.install("/app.zip")

	this.So(this.outcome, should.Resemble, completion{false, "Error accessing " + this.server.URL + "/app.zip"})
	this.So(this.statuses, should.Resemble, []contracts.Stage{"Initializing", "Downloading"})
}

func buildZip(entries map[string]string) []byte {
	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	for name, content := range entries {
		file, _ := writer.Create(name)
		_, _ = file.Write([]byte(content))
	}
	_ = writer.Close()
	return buffer.Bytes()
}
