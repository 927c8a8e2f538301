package contracts

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ApplicationDescriptor identifies a downloadable application package.
type ApplicationDescriptor struct {
	DownloadLocation string `json:"download_location"`
	Name             string `json:"name"`
}

func (this ApplicationDescriptor) Validate() error {
	if strings.TrimSpace(this.DownloadLocation) == "" {
		return errors.New("download location is required")
	}
	if strings.TrimSpace(this.Name) == "" {
		return errors.New("name is required")
	}
	if this.Name == "." || this.Name == ".." || strings.ContainsAny(this.Name, `/\`) {
		return fmt.Errorf("name must be a single path element: %q", this.Name)
	}

	address, err := url.Parse(this.DownloadLocation)
	if err != nil {
		return fmt.Errorf("malformed download location: %w", err)
	}
	if address.Scheme != "http" && address.Scheme != "https" {
		return fmt.Errorf("download location must be an http or https URL: %q", this.DownloadLocation)
	}
	if address.Host == "" {
		return fmt.Errorf("download location has no host: %q", this.DownloadLocation)
	}
	return nil
}

func (this ApplicationDescriptor) Title() string {
	return fmt.Sprintf("[%s @ %s]", this.Name, this.DownloadLocation)
}
