package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/pders01/lockview/internal/models"
	"github.com/pders01/lockview/internal/testutil"
	"github.com/pders01/lockview/internal/view"
)

func TestShowCommand(t *testing.T) {
	a := newArchive(t)
	hash := seedArchive(t, a)
	out := captureOutput(t)

	if err := runShow(nil, []string{"r1", "example.com/api", hash}); err != nil {
		t.Fatalf("show command failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"- " + hash, "Request Header:", "Response Header:", "application/json", `{"users": []}`, "(Empty)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	// two heads and one displayable body
	if n := a.Requests(testutil.EndpointFile); n != 3 {
		t.Errorf("file requests = %d, want 3", n)
	}
}

func TestShowLargeBodyLinksDownload(t *testing.T) {
	a := newArchive(t)
	hash := testutil.Hash("big")
	dir := models.Path{"example.com"}
	a.AddTransaction("r1", dir, hash, textHead("", 0), textHead("text/plain", 150000), "", strings.Repeat("x", 10))
	out := captureOutput(t)
	setFlag(t, &showJSON, true)

	if err := runShow(nil, []string{"r1", "example.com", hash}); err != nil {
		t.Fatalf("show command failed: %v", err)
	}

	var snap view.Snapshot
	if err := json.Unmarshal(out.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	body := snap.ResponseBody
	if body == nil || body.Class != "not-displayable" {
		t.Fatalf("unexpected response body: %+v", body)
	}
	if !strings.HasPrefix(body.DownloadURL, a.URL+"/api/root/r1/resp?") {
		t.Errorf("DownloadURL = %q", body.DownloadURL)
	}
	if n := a.Requests(testutil.EndpointFile); n != 2 {
		t.Errorf("file requests = %d, want only the two heads", n)
	}
}

func TestShowInvalidHash(t *testing.T) {
	newArchive(t)
	captureOutput(t)

	if err := runShow(nil, []string{"r1", "example.com", "abc"}); err == nil {
		t.Error("expected error for malformed hash")
	}
}

func TestShowMissingTransaction(t *testing.T) {
	a := newArchive(t)
	seedArchive(t, a)
	captureOutput(t)

	if err := runShow(nil, []string{"r1", "example.com/api", testutil.Hash("nope")}); err == nil {
		t.Error("expected error for unknown transaction")
	}
}

func TestShowResponseOnlyTransaction(t *testing.T) {
	a := newArchive(t)
	hash := testutil.Hash("response-only")
	dir := models.Path{"example.com"}
	head, err := json.Marshal(textHead("text/plain", 2))
	if err != nil {
		t.Fatalf("failed to marshal head: %v", err)
	}
	a.AddFile("r1", dir.Child(models.Artifact(hash, models.RoleResp, models.PartHead)), head)
	a.AddFile("r1", dir.Child(models.Artifact(hash, models.RoleResp, models.PartBody)), []byte("ok"))
	out := captureOutput(t)

	// whichever head settles last, the command must fail and print nothing
	for range 5 {
		if err := runShow(nil, []string{"r1", "example.com", hash}); err == nil {
			t.Fatal("expected error for a transaction without request head")
		}
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}
