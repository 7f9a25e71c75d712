package ingest

import (
	"github.com/neexbeast/hajj-compare/internal/catalog"
)

// Rejection explains why one input row was not accepted.
type Rejection struct {
	Line      int      `json:"line"`
	PackageID string   `json:"package_id,omitempty"`
	Reasons   []string `json:"reasons"`
}

// Result is the outcome of ingesting one catalog file.
type Result struct {
	Packages   []catalog.Package `json:"packages"`
	Rejections []Rejection       `json:"rejections"`
}

// Accepted returns the number of valid packages.
func (r *Result) Accepted() int { return len(r.Packages) }

type builder struct {
	res  *Result
	seen map[string]struct{}
}

func newBuilder() *builder {
	return &builder{
		res: &Result{
			Packages:   []catalog.Package{},
			Rejections: []Rejection{},
		},
		seen: make(map[string]struct{}),
	}
}

// add validates p and records it as accepted or rejected. parseReasons are
// problems already found while decoding the row.
func (b *builder) add(line int, p catalog.Package, parseReasons []string) {
	reasons := append(parseReasons, Check(p)...)
	if len(reasons) > 0 {
		b.reject(line, p.ID, reasons)
		return
	}
	if _, dup := b.seen[p.ID]; dup {
		b.reject(line, p.ID, []string{"duplicate package"})
		return
	}
	b.seen[p.ID] = struct{}{}
	b.res.Packages = append(b.res.Packages, p)
}

func (b *builder) reject(line int, id string, reasons []string) {
	b.res.Rejections = append(b.res.Rejections, Rejection{Line: line, PackageID: id, Reasons: reasons})
}

func (b *builder) result() *Result { return b.res }
