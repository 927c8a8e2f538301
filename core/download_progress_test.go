package core

import (
	"testing"
	"time"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/smartystreets/appinstall/contracts"
)

func TestDownloadProgressCounterFixture(t *testing.T) {
	gunit.Run(new(DownloadProgressCounterFixture), t)
}

type DownloadProgressCounterFixture struct {
	*gunit.Fixture

	moment  time.Time
	reports []contracts.DownloadProgress
	counter *downloadProgressCounter
}

func (this *DownloadProgressCounterFixture) Setup() {
	this.moment = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	this.counter = newDownloadProgressCounter(100, time.Second, this.now, this.report)
}

func (this *DownloadProgressCounterFixture) now() time.Time { return this.moment }
func (this *DownloadProgressCounterFixture) report(progress contracts.DownloadProgress) {
	this.reports = append(this.reports, progress)
}

func (this *DownloadProgressCounterFixture) TestWritesAreCountedAndAccepted() {
	n, err := this.counter.Write([]byte("test"))

	this.So(n, should.Equal, 4)
	this.So(err, should.BeNil)
	this.So(this.counter.Progress(), should.Resemble, contracts.DownloadProgress{Written: 4, Total: 100})
}

func (this *DownloadProgressCounterFixture) TestReportsAreRateLimited() {
	_, _ = this.counter.Write([]byte("test"))
	this.So(this.reports, should.BeEmpty)

	this.moment = this.moment.Add(time.Second)
	_, _ = this.counter.Write([]byte("test"))
	this.So(this.reports, should.Resemble, []contracts.DownloadProgress{{Written: 8, Total: 100}})

	this.moment = this.moment.Add(time.Millisecond)
	_, _ = this.counter.Write([]byte("test"))
	this.So(this.reports, should.HaveLength, 1)
}

func (this *DownloadProgressCounterFixture) TestCloseSendsOneFinalReport() {
	_, _ = this.counter.Write([]byte("test"))

	this.counter.Close()
	this.counter.Close()

	this.So(this.reports, should.Resemble, []contracts.DownloadProgress{{Written: 4, Total: 100}})
}

func (this *DownloadProgressCounterFixture) TestUnknownTotalIsCarriedThrough() {
	counter := newDownloadProgressCounter(-1, 0, this.now, this.report)

	_, _ = counter.Write([]byte("test"))

	this.So(this.reports, should.Resemble, []contracts.DownloadProgress{{Written: 4, Total: -1}})
}
