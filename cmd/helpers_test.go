package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"

	"github.com/pders01/lockview/internal/config"
	"github.com/pders01/lockview/internal/models"
	"github.com/pders01/lockview/internal/testutil"
)

// captureOutput redirects command output into a buffer for the test
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// setFlag sets a package level flag variable for the test
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

// newArchive starts a fake archive store and points the config at it
func newArchive(t *testing.T) *testutil.ArchiveServer {
	t.Helper()
	viper.Reset()
	config.SetDefaults()
	t.Cleanup(viper.Reset)

	a := testutil.NewArchiveServer(t)
	viper.Set("server.url", a.URL)
	return a
}

func textHead(contentType string, n int) models.HeadMetadata {
	h := models.HeadMetadata{StatusCode: 200, ContentLen: int64(n)}
	if contentType != "" {
		h.Headers = map[string][]string{"Content-Type": {contentType}}
	}
	return h
}

// seedArchive fills root r1 with one transaction in example.com/api, a
// subdirectory and a stray file
func seedArchive(t *testing.T, a *testutil.ArchiveServer) string {
	t.Helper()
	hash := testutil.Hash("get-users")
	dir := models.Path{"example.com", "api"}
	a.AddTransaction("r1", dir, hash, textHead("", 0), textHead("application/json", 13), "", `{"users": []}`)
	a.AddFile("r1", models.Path{"example.com", "api", "notes.txt"}, []byte("ignored"))
	a.AddFile("r1", models.Path{"example.com", "static", "other.txt"}, []byte("ignored"))
	return hash
}

