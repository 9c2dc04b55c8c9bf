package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pders01/lockview/internal/models"
)

var errNotFound = errors.New("not found")

// memStore is an in-memory Store that counts every call by key
type memStore struct {
	mu       sync.Mutex
	listings map[string]models.Listing
	heads    map[string]*models.HeadMetadata
	texts    map[string]string
	reports  map[string]*models.DiffReport
	fail     map[string]error
	calls    map[string]int
}

func newMemStore() *memStore {
	return &memStore{
		listings: make(map[string]models.Listing),
		heads:    make(map[string]*models.HeadMetadata),
		texts:    make(map[string]string),
		reports:  make(map[string]*models.DiffReport),
		fail:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

func key(root string, path models.Path, artifact string) string {
	k := root + ":" + path.String()
	if artifact != "" {
		k += ":" + artifact
	}
	return k
}

func (s *memStore) hit(k string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[k]++
	return s.fail[k]
}

func (s *memStore) count(k string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[k]
}

func (s *memStore) ListDir(ctx context.Context, root string, path models.Path) (models.Listing, error) {
	k := key(root, path, "")
	if err := s.hit(k); err != nil {
		return nil, err
	}
	l, ok := s.listings[k]
	if !ok {
		return nil, errNotFound
	}
	return l, nil
}

func (s *memStore) ReadHead(ctx context.Context, root string, path models.Path, artifact string) (*models.HeadMetadata, error) {
	k := key(root, path, artifact)
	if err := s.hit(k); err != nil {
		return nil, err
	}
	h, ok := s.heads[k]
	if !ok {
		return nil, errNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *memStore) ReadText(ctx context.Context, root string, path models.Path, artifact, contentType string) (string, error) {
	k := key(root, path, artifact)
	if err := s.hit(k); err != nil {
		return "", err
	}
	text, ok := s.texts[k]
	if !ok {
		return "", errNotFound
	}
	return text, nil
}

func (s *memStore) Diff(ctx context.Context, root1, root2 string) (*models.DiffReport, error) {
	k := root1 + ".." + root2
	if err := s.hit(k); err != nil {
		return nil, err
	}
	r, ok := s.reports[k]
	if !ok {
		return nil, errNotFound
	}
	return r, nil
}

// addTransaction registers both heads and any non-empty bodies
func (s *memStore) addTransaction(root string, path models.Path, hash string, req, resp models.HeadMetadata, reqBody, respBody string) {
	s.heads[key(root, path, models.Artifact(hash, models.RoleReq, models.PartHead))] = &req
	s.heads[key(root, path, models.Artifact(hash, models.RoleResp, models.PartHead))] = &resp
	if reqBody != "" {
		s.texts[key(root, path, models.Artifact(hash, models.RoleReq, models.PartBody))] = reqBody
	}
	if respBody != "" {
		s.texts[key(root, path, models.Artifact(hash, models.RoleResp, models.PartBody))] = respBody
	}
}

// txHash builds a well formed transaction hash out of one repeated hex digit
func txHash(digit string) string {
	return models.HashPrefix + strings.Repeat(digit, 64)
}

func reqHeadName(hash string) string {
	return models.Artifact(hash, models.RoleReq, models.PartHead)
}

func respHeadName(hash string) string {
	return models.Artifact(hash, models.RoleResp, models.PartHead)
}

func head(contentType string, n int64) models.HeadMetadata {
	h := models.HeadMetadata{ContentLen: n}
	if contentType != "" {
		h.Headers = map[string][]string{"Content-Type": {contentType}}
	}
	return h
}

type staticLinks struct{}

func (staticLinks) FileURL(root string, path models.Path, artifact, contentType string) string {
	return "file:" + root + "/" + path.Child(artifact).String() + "?ct=" + contentType
}

func (staticLinks) ResponseURL(root string, path models.Path, hash string) string {
	return "resp:" + root + "/" + path.String() + "#" + hash
}
