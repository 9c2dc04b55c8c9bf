package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pders01/lockview/internal/models"
)

// Endpoint names accepted by Requests and Fail
const (
	EndpointRoots = "roots"
	EndpointDir   = "dir"
	EndpointFile  = "file"
	EndpointInfo  = "info"
	EndpointResp  = "resp"
	EndpointDiff  = "diff"
)

// ArchiveServer is an in-memory archive store speaking the archive HTTP API.
// It counts requests per endpoint so tests can assert how often data was
// fetched.
type ArchiveServer struct {
	URL string

	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	roots    []string
	files    map[string]map[string][]byte
	diffs    map[string]models.DiffReport
	requests map[string]int
	failures map[string]int
}

// NewArchiveServer starts an empty archive store, closed when the test ends
func NewArchiveServer(t *testing.T) *ArchiveServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	s := &ArchiveServer{
		t:        t,
		files:    make(map[string]map[string][]byte),
		diffs:    make(map[string]models.DiffReport),
		requests: make(map[string]int),
		failures: make(map[string]int),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/api/root", s.rootList)
	r.GET("/api/root/:root/dir", s.rootDir)
	r.GET("/api/root/:root/file", s.rootFile)
	r.GET("/api/root/:root/info", s.rootInfo)
	r.GET("/api/root/:root/resp", s.rootResp)
	r.GET("/api/root/:root/diff", s.rootDiff)

	s.server = httptest.NewServer(r)
	s.URL = s.server.URL
	t.Cleanup(s.server.Close)
	return s
}

// Hash returns a well-formed transaction hash derived from seed
func Hash(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return models.HashPrefix + hex.EncodeToString(sum[:])
}

// AddRoot registers an empty root
func (s *ArchiveServer) AddRoot(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addRoot(root)
}

func (s *ArchiveServer) addRoot(root string) {
	if _, ok := s.files[root]; ok {
		return
	}
	s.roots = append(s.roots, root)
	s.files[root] = make(map[string][]byte)
}

// AddFile stores content at path within root, creating the root if needed
func (s *ArchiveServer) AddFile(root string, path models.Path, content []byte) {
	s.t.Helper()
	if len(path) == 0 {
		s.t.Fatalf("AddFile needs a non-empty path")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addRoot(root)
	s.files[root][path.String()] = content
}

// AddTransaction stores the four artifacts of one transaction under dir
func (s *ArchiveServer) AddTransaction(root string, dir models.Path, hash string, req, resp models.HeadMetadata, reqBody, respBody string) {
	s.t.Helper()

	for _, a := range []struct {
		role models.Role
		meta models.HeadMetadata
		body string
	}{
		{models.RoleReq, req, reqBody},
		{models.RoleResp, resp, respBody},
	} {
		head, err := json.Marshal(a.meta)
		if err != nil {
			s.t.Fatalf("failed to marshal head: %v", err)
		}
		s.AddFile(root, dir.Child(models.Artifact(hash, a.role, models.PartHead)), head)
		s.AddFile(root, dir.Child(models.Artifact(hash, a.role, models.PartBody)), []byte(a.body))
	}
}

// SetDiff sets the report served for the pair root1, root2
func (s *ArchiveServer) SetDiff(root1, root2 string, entries []models.DiffEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diffs[root1+".."+root2] = models.DiffReport{R1: root1, R2: root2, Entries: entries}
}

// Fail makes every later request to endpoint answer with status
func (s *ArchiveServer) Fail(endpoint string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[endpoint] = status
}

// Requests returns how many requests endpoint has received
func (s *ArchiveServer) Requests(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[endpoint]
}

// hit counts a request and aborts it when the endpoint is set to fail
func (s *ArchiveServer) hit(c *gin.Context, endpoint string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[endpoint]++
	if status, ok := s.failures[endpoint]; ok {
		c.String(status, "injected failure")
		c.Abort()
		return false
	}
	return true
}

func (s *ArchiveServer) lookup(c *gin.Context) (map[string][]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	files, ok := s.files[c.Param("root")]
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
	return files, ok
}

func (s *ArchiveServer) rootList(c *gin.Context) {
	if !s.hit(c, EndpointRoots) {
		return
	}
	s.mu.Lock()
	roots := append([]string{}, s.roots...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, roots)
}

type entry struct {
	Hash string `json:"hash"`
	Kind string `json:"kind"`
}

func (s *ArchiveServer) rootDir(c *gin.Context) {
	if !s.hit(c, EndpointDir) {
		return
	}
	files, ok := s.lookup(c)
	if !ok {
		return
	}
	prefix := strings.Join(c.QueryArray("path"), "/")
	if prefix != "" {
		prefix += "/"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := map[string]entry{}
	for p, content := range files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if nested {
			entries[name] = entry{Hash: Hash(prefix + name), Kind: string(models.KindDir)}
		} else {
			entries[name] = entry{Hash: Hash(string(content)), Kind: string(models.KindFile)}
		}
	}
	if len(entries) == 0 && prefix != "" {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *ArchiveServer) rootFile(c *gin.Context) {
	if !s.hit(c, EndpointFile) {
		return
	}
	files, ok := s.lookup(c)
	if !ok {
		return
	}
	path := c.QueryArray("path")
	if len(path) == 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	content, ok := files[strings.Join(path, "/")]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ct := c.Query("ct")
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Data(http.StatusOK, ct, content)
}

func (s *ArchiveServer) rootInfo(c *gin.Context) {
	if !s.hit(c, EndpointInfo) {
		return
	}
	files, ok := s.lookup(c)
	if !ok {
		return
	}
	path := c.QueryArray("path")
	if len(path) == 0 {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	p := strings.Join(path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()
	if content, ok := files[p]; ok {
		c.JSON(http.StatusOK, gin.H{"hash": Hash(string(content))})
		return
	}
	for name := range files {
		if strings.HasPrefix(name, p+"/") {
			c.JSON(http.StatusOK, gin.H{"hash": Hash(p + "/")})
			return
		}
	}
	c.AbortWithStatus(http.StatusInternalServerError)
}

func (s *ArchiveServer) rootResp(c *gin.Context) {
	if !s.hit(c, EndpointResp) {
		return
	}
	files, ok := s.lookup(c)
	if !ok {
		return
	}
	path := models.Path(c.QueryArray("path"))
	hash := c.Query("hash")
	if len(path) == 0 || hash == "" {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	head, okHead := files[path.Child(models.Artifact(hash, models.RoleResp, models.PartHead)).String()]
	body, okBody := files[path.Child(models.Artifact(hash, models.RoleResp, models.PartBody)).String()]
	s.mu.Unlock()
	if !okHead || !okBody {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var meta models.HeadMetadata
	if err := json.Unmarshal(head, &meta); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	keys := make([]string, 0, len(meta.Headers))
	for k := range meta.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range meta.Headers[k] {
			c.Writer.Header().Add(k, v)
		}
	}
	status := meta.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	c.Status(status)
	c.Writer.Write(body)
}

func (s *ArchiveServer) rootDiff(c *gin.Context) {
	if !s.hit(c, EndpointDiff) {
		return
	}
	s.mu.Lock()
	report, ok := s.diffs[c.Param("root")+".."+c.Query("root2")]
	s.mu.Unlock()
	if !ok {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, report)
}
