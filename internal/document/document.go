package document

import (
	"time"

	"github.com/mgpai22/tilawa/internal/editor"
	"github.com/mgpai22/tilawa/internal/store"
	"github.com/mgpai22/tilawa/internal/subtitle"
)

// Document is one loaded subtitle file. It owns its segment store and the
// editor (selection) working on it.
type Document struct {
	ID        int
	Name      string
	Language  string
	CreatedAt time.Time

	store  *store.Store
	editor *editor.Editor
}

func (d *Document) Segments() []subtitle.Segment {
	return d.store.Segments()
}

// Segment looks up one segment by id; store.ErrNotFound when absent.
func (d *Document) Segment(id int) (subtitle.Segment, error) {
	return d.store.Get(id)
}

func (d *Document) Editor() *editor.Editor {
	return d.editor
}

// Summary is a read-only snapshot suitable for listings.
type Summary struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Segments  int       `json:"segments"`
}

func (d *Document) Summary() Summary {
	return Summary{
		ID:        d.ID,
		Name:      d.Name,
		Language:  d.Language,
		CreatedAt: d.CreatedAt,
		Segments:  d.store.Len(),
	}
}

type Option func(*Document)

// WithLanguage tags the document with the language of its text, e.g. "ar".
func WithLanguage(lang string) Option {
	return func(d *Document) {
		d.Language = lang
	}
}
