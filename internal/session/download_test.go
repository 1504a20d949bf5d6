package session

import (
	"testing"

	"github.com/nlin/paperchat/internal/api"
)

func strPtr(s string) *string { return &s }

func TestDownloadLifecycle(t *testing.T) {
	t.Parallel()

	d := NewDownloads()
	if !d.Begin("2401.00001") {
		t.Fatal("first attempt must be accepted")
	}
	if st := d.State("2401.00001"); !st.Downloading {
		t.Fatal("Begin must enter downloading")
	}

	d.Finish("2401.00001", api.DownloadResult{Success: true, Message: "saved", FilePath: strPtr("/downloads/p.pdf")})
	st := d.State("2401.00001")
	if st.Downloading {
		t.Fatal("Finish must leave downloading")
	}
	if !st.Downloaded || st.Message != "saved" || st.FilePath != "/downloads/p.pdf" {
		t.Fatalf("unexpected state after success: %#v", st)
	}
}

func TestBeginIsNoOpWhileDownloading(t *testing.T) {
	t.Parallel()

	d := NewDownloads()
	d.Begin("a")
	before := d.State("a")
	if d.Begin("a") {
		t.Fatal("attempt while downloading must be ignored")
	}
	if d.State("a") != before {
		t.Fatal("rejected attempt must not change state")
	}
}

func TestRetryAllowedFromAnyRestingState(t *testing.T) {
	t.Parallel()

	d := NewDownloads()
	d.Begin("a")
	d.Finish("a", api.DownloadResult{Success: true, Message: "saved"})
	if !d.Begin("a") {
		t.Fatal("a settled success must not block a new attempt")
	}
	if d.State("a").Message != "" {
		t.Fatal("a new attempt must clear the previous outcome message")
	}
}

func TestTransportFailureKeepsDownloadedFlag(t *testing.T) {
	t.Parallel()

	d := NewDownloads()
	d.Begin("a")
	d.Finish("a", api.DownloadResult{Success: true, Message: "saved"})

	d.Begin("a")
	d.Fail("a")

	st := d.State("a")
	if st.Downloading {
		t.Fatal("Fail must return to idle")
	}
	if !st.Downloaded {
		t.Fatal("a failed retry must not erase a previous success flag")
	}
	if st.Message != FailedMessage {
		t.Fatalf("message = %q, want %q", st.Message, FailedMessage)
	}
}

func TestBackendReportedFailureClearsFlag(t *testing.T) {
	t.Parallel()

	// A settled response with success=false is the backend's verdict, not a
	// transport failure, and overwrites the flag.
	d := NewDownloads()
	d.Begin("a")
	d.Finish("a", api.DownloadResult{Success: true, Message: "saved"})
	d.Begin("a")
	d.Finish("a", api.DownloadResult{Success: false, Message: "disk full"})

	st := d.State("a")
	if st.Downloaded {
		t.Fatal("backend verdict must overwrite the success flag")
	}
	if st.Message != "disk full" {
		t.Fatalf("message = %q, want backend message", st.Message)
	}
}

func TestControllersAreIsolated(t *testing.T) {
	t.Parallel()

	d := NewDownloads()
	d.Begin("a")
	d.Begin("b")
	d.Fail("a")

	if st := d.State("b"); !st.Downloading || st.Message != "" {
		t.Fatalf("paper A's outcome leaked into paper B: %#v", st)
	}
	if got := d.Running(); got != 1 {
		t.Fatalf("Running() = %d, want 1", got)
	}
}

func TestStateForUnknownPaperIsZero(t *testing.T) {
	t.Parallel()

	d := NewDownloads()
	if st := d.State("missing"); st != (DownloadState{}) {
		t.Fatalf("unknown paper must read as zero state, got %#v", st)
	}
	if d.Running() != 0 {
		t.Fatal("no attempts should be running")
	}
}
