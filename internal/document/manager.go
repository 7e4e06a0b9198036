package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mgpai22/tilawa/internal/editor"
	"github.com/mgpai22/tilawa/internal/store"
	"github.com/mgpai22/tilawa/internal/subtitle"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrNoActiveDocument = errors.New("no document selected")
)

// ExportedFile is what the download side needs: a suggested file name and
// the rendered content.
type ExportedFile struct {
	Name    string
	Format  subtitle.Format
	Content string
}

// Manager holds the documents of one session and routes editor operations
// to them. All state is explicit; nothing is package-global.
type Manager struct {
	mu     sync.RWMutex
	nextID int
	docs   map[int]*Document
	order  []int
	active int

	now func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		nextID: 1,
		docs:   make(map[int]*Document),
		now:    time.Now,
	}
}

// CreateDocument registers a document built from an upload. The segments are
// validated by the store; a rejected upload does not consume a document id.
func (m *Manager) CreateDocument(
	name string,
	segments []subtitle.Segment,
	opts ...Option,
) (*Document, error) {
	s := store.New()
	if err := s.ReplaceAll(segments); err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc := &Document{
		ID:        m.nextID,
		Name:      name,
		CreatedAt: m.now(),
		store:     s,
		editor:    editor.New(s),
	}
	for _, opt := range opts {
		opt(doc)
	}

	m.nextID++
	m.docs[doc.ID] = doc
	m.order = append(m.order, doc.ID)
	return doc, nil
}

func (m *Manager) Get(id int) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(id)
}

func (m *Manager) get(id int) (*Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return doc, nil
}

// Select makes id the active document.
func (m *Manager) Select(id int) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, err := m.get(id)
	if err != nil {
		return nil, err
	}
	m.active = id
	return doc, nil
}

func (m *Manager) Active() (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == 0 {
		return nil, ErrNoActiveDocument
	}
	return m.get(m.active)
}

// List returns documents in creation order.
func (m *Manager) List() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Document, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.docs[id])
	}
	return out
}

// Clear drops every document and the active selection. Ids keep increasing.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs = make(map[int]*Document)
	m.order = nil
	m.active = 0
}

// Merge merges segmentIDs in document id. Errors are the editor's MergeError
// values or ErrNotFound.
func (m *Manager) Merge(id int, segmentIDs []int) (subtitle.Segment, error) {
	doc, err := m.Get(id)
	if err != nil {
		return subtitle.Segment{}, err
	}
	return doc.editor.MergeIDs(segmentIDs)
}

// AutoMerge joins short segments of document id; see editor.AutoMerge.
func (m *Manager) AutoMerge(
	id int,
	minWords int,
	maxGap time.Duration,
) ([]subtitle.Segment, error) {
	doc, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return doc.editor.AutoMerge(minWords, maxGap)
}

func (m *Manager) Validate(id int) ([]editor.Issue, error) {
	doc, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return doc.editor.Validate()
}

// ExportDocument renders the document's current segments in exchange format.
func (m *Manager) ExportDocument(id int) (string, error) {
	doc, err := m.Get(id)
	if err != nil {
		return "", err
	}
	return subtitle.Export(doc.Segments()), nil
}

// ExportFile renders the document in format and suggests a file name based on
// the uploaded one.
func (m *Manager) ExportFile(id int, format subtitle.Format) (ExportedFile, error) {
	doc, err := m.Get(id)
	if err != nil {
		return ExportedFile{}, err
	}

	writer, err := subtitle.NewWriter(format)
	if err != nil {
		return ExportedFile{}, err
	}

	return ExportedFile{
		Name:    SuggestedName(doc.Name, format),
		Format:  format,
		Content: writer.Render(doc.Segments()),
	}, nil
}

// SuggestedName returns the document name unchanged for SRT and swaps the
// extension for other formats.
func SuggestedName(name string, format subtitle.Format) string {
	if name == "" {
		name = "subtitles.srt"
	}
	if format == subtitle.FormatSRT {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + subtitle.GetExtensionForFormat(format)
}
