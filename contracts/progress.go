package contracts

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

type DownloadProgress struct {
	Written int64
	Total   int64 // -1 when the server did not send a content length
}

func (this DownloadProgress) String() string {
	written := humanize.Bytes(uint64(max(this.Written, 0)))
	if this.Total < 0 {
		return written
	}
	return fmt.Sprintf("%s of %s", written, humanize.Bytes(uint64(this.Total)))
}

// Percent returns the completed share of the download in the range [0, 100],
// or -1 when the total size is unknown.
func (this DownloadProgress) Percent() float64 {
	if this.Total < 0 {
		return -1
	}
	if this.Total == 0 {
		return 100
	}
	return float64(this.Written) / float64(this.Total) * 100
}
