package view

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/pders01/lockview/internal/metrics"
	"github.com/pders01/lockview/internal/models"
)

// Op is the kind of request a Fetch performs
type Op int

const (
	OpListDir Op = iota
	OpHead
	OpBody
	OpDiff
)

func (o Op) String() string {
	switch o {
	case OpListDir:
		return "dir"
	case OpHead:
		return "head"
	case OpBody:
		return "body"
	case OpDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Fetch is one pending request on behalf of a node
type Fetch struct {
	Node  NodeID
	Token Token
	Op    Op

	Root        string
	Root2       string
	Path        models.Path
	Artifact    string
	Role        models.Role
	ContentType string
}

// Result is the settled outcome of a Fetch. Exactly one of the payload fields
// is set when Err is nil.
type Result struct {
	Fetch Fetch

	Listing models.Listing
	Head    *models.HeadMetadata
	Text    string
	Report  *models.DiffReport
	Err     error
}

// Store is the subset of the archive API the nodes read from
type Store interface {
	ListDir(ctx context.Context, root string, path models.Path) (models.Listing, error)
	ReadHead(ctx context.Context, root string, path models.Path, artifact string) (*models.HeadMetadata, error)
	ReadText(ctx context.Context, root string, path models.Path, artifact, contentType string) (string, error)
	Diff(ctx context.Context, root1, root2 string) (*models.DiffReport, error)
}

// Execute performs a single fetch
func Execute(ctx context.Context, s Store, f Fetch) Result {
	start := time.Now()
	r := Result{Fetch: f}

	switch f.Op {
	case OpListDir:
		r.Listing, r.Err = s.ListDir(ctx, f.Root, f.Path)
	case OpHead:
		r.Head, r.Err = s.ReadHead(ctx, f.Root, f.Path, f.Artifact)
	case OpBody:
		r.Text, r.Err = s.ReadText(ctx, f.Root, f.Path, f.Artifact, f.ContentType)
	case OpDiff:
		r.Report, r.Err = s.Diff(ctx, f.Root, f.Root2)
	}

	metrics.RecordFetch(f.Op.String(), r.Err, time.Since(start))
	return r
}

// Drain runs fetches concurrently and applies each result to the tree as it
// settles, starting whatever follow-up fetches the tree asks for. It returns
// once nothing is outstanding. All tree mutation happens on the calling
// goroutine.
func Drain(ctx context.Context, t *Tree, s Store, fetches []Fetch) {
	results := make(chan Result)
	outstanding := 0
	var wg conc.WaitGroup

	start := func(fs []Fetch) {
		for _, f := range fs {
			outstanding++
			wg.Go(func() {
				results <- Execute(ctx, s, f)
			})
		}
	}

	start(fetches)
	for outstanding > 0 {
		r := <-results
		outstanding--
		start(t.Apply(r))
	}
	wg.Wait()
}
