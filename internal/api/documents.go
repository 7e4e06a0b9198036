package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mgpai22/tilawa/internal/document"
	"github.com/mgpai22/tilawa/internal/editor"
	"github.com/mgpai22/tilawa/internal/subtitle"
	"github.com/mgpai22/tilawa/internal/translate"
)

type segmentView struct {
	ID          int    `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Text        string `json:"text"`
	VerseNumber int    `json:"verseNumber,omitempty"`
	HasError    bool   `json:"hasError"`
}

type documentView struct {
	document.Summary
	Selected []int         `json:"selected"`
	Content  []segmentView `json:"content"`
}

func viewSegment(seg subtitle.Segment) segmentView {
	return segmentView{
		ID:          seg.ID,
		StartTime:   subtitle.FormatTimestamp(seg.StartTime),
		EndTime:     subtitle.FormatTimestamp(seg.EndTime),
		Text:        seg.Text,
		VerseNumber: seg.VerseNumber,
		HasError:    seg.HasError,
	}
}

func viewDocument(doc *document.Document) documentView {
	segments := doc.Segments()
	content := make([]segmentView, len(segments))
	for i, seg := range segments {
		content[i] = viewSegment(seg)
	}
	return documentView{
		Summary:  doc.Summary(),
		Selected: doc.Editor().Selected(),
		Content:  content,
	}
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.manager.List()
	out := make([]document.Summary, len(docs))
	for i, doc := range docs {
		out[i] = doc.Summary()
	}
	writeJSON(w, http.StatusOK, out)
}

type createRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// createDocument accepts either a multipart upload ("file" field) or a JSON
// body carrying the file text.
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	req, err := s.readUpload(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "document name is required")
		return
	}

	segments, err := subtitle.Parse(req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var opts []document.Option
	if req.Language != "" {
		opts = append(opts, document.WithLanguage(req.Language))
	}
	doc, err := s.manager.CreateDocument(req.Name, segments, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Infow("Document created",
		"id", doc.ID,
		"name", doc.Name,
		"segments", len(segments),
	)
	writeJSON(w, http.StatusCreated, viewDocument(doc))
}

func (s *Server) readUpload(r *http.Request) (createRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
			return createRequest{}, fmt.Errorf("invalid upload: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return createRequest{}, fmt.Errorf("no file provided: %w", err)
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".srt" && ext != ".txt" {
			return createRequest{}, fmt.Errorf("unsupported file type %q: use .srt or .txt", ext)
		}

		data, err := io.ReadAll(file)
		if err != nil {
			return createRequest{}, fmt.Errorf("failed to read upload: %w", err)
		}
		return createRequest{
			Name:     filepath.Base(header.Filename),
			Language: r.FormValue("language"),
			Content:  string(data),
		}, nil
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return createRequest{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	return req, nil
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) (*document.Document, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "docID"))
	if err != nil {
		writeBadRequest(w, "document id must be an integer")
		return nil, false
	}
	doc, err := s.manager.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return doc, true
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewDocument(doc))
}

func (s *Server) activeDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.manager.Active()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewDocument(doc))
}

func (s *Server) selectDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	if _, err := s.manager.Select(doc.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewDocument(doc))
}

func (s *Server) toggleSelection(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	segmentID, err := strconv.Atoi(chi.URLParam(r, "segmentID"))
	if err != nil {
		writeBadRequest(w, "segment id must be an integer")
		return
	}
	if _, err := doc.Segment(segmentID); err != nil {
		s.writeError(w, r, err)
		return
	}

	selected := doc.Editor().Toggle(segmentID)
	writeJSON(w, http.StatusOK, map[string]any{
		"segmentId": segmentID,
		"selected":  selected,
		"selection": doc.Editor().Selected(),
	})
}

func (s *Server) clearSelection(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}
	doc.Editor().ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}

type mergeRequest struct {
	IDs []int `json:"ids"`
}

// mergeSegments merges the ids in the body, or the document's current
// selection when none are given. With ?minWords= it joins short segments
// automatically instead (optional ?maxGap=, a duration such as 1s).
func (s *Server) mergeSegments(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Has("minWords") {
		s.autoMerge(w, r, doc)
		return
	}

	var req mergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	var merged subtitle.Segment
	var err error
	if len(req.IDs) > 0 {
		merged, err = s.manager.Merge(doc.ID, req.IDs)
	} else {
		merged, err = doc.Editor().Merge()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Infow("Segments merged",
		"document", doc.ID,
		"merged_id", merged.ID,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"merged":   viewSegment(merged),
		"document": viewDocument(doc),
	})
}

func (s *Server) autoMerge(w http.ResponseWriter, r *http.Request, doc *document.Document) {
	query := r.URL.Query()

	minWords, err := strconv.Atoi(query.Get("minWords"))
	if err != nil || minWords < 1 {
		writeBadRequest(w, "minWords must be a positive integer")
		return
	}

	maxGap := editor.DefaultMaxGap
	if v := query.Get("maxGap"); v != "" {
		maxGap, err = time.ParseDuration(v)
		if err != nil || maxGap < 0 {
			writeBadRequest(w, "maxGap must be a non-negative duration such as 1s or 500ms")
			return
		}
	}

	merged, err := s.manager.AutoMerge(doc.ID, minWords, maxGap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	groups := make([]segmentView, len(merged))
	for i, seg := range merged {
		groups[i] = viewSegment(seg)
	}

	s.logger.Infow("Segments auto-merged",
		"document", doc.ID,
		"groups", len(merged),
		"min_words", minWords,
		"max_gap", maxGap.String(),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"groups":   groups,
		"document": viewDocument(doc),
	})
}

func (s *Server) validateDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	issues, err := s.manager.Validate(doc.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if issues == nil {
		issues = []editor.Issue{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"issues":   issues,
		"document": viewDocument(doc),
	})
}

func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	format, valid := subtitle.ParseFormat(r.URL.Query().Get("format"))
	if !valid {
		writeBadRequest(w, "unsupported format: use srt, vtt or ass")
		return
	}

	file, err := s.manager.ExportFile(doc.ID, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "application/x-subrip; charset=utf-8"
	switch format {
	case subtitle.FormatVTT:
		contentType = "text/vtt; charset=utf-8"
	case subtitle.FormatASS:
		contentType = "text/x-ssa; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set(
		"Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}),
	)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, file.Content)
}

type translateRequest struct {
	TargetLanguage string `json:"targetLanguage"`
	InputLanguage  string `json:"inputLanguage"`
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
}

// translateDocument creates a new document holding the translated text of
// an existing one.
func (s *Server) translateDocument(w http.ResponseWriter, r *http.Request) {
	if s.opts.Translators == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody{
			Error: "translation is not configured",
			Code:  "translation_disabled",
		})
		return
	}

	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if req.TargetLanguage == "" {
		writeBadRequest(w, "targetLanguage is required")
		return
	}
	if req.InputLanguage == "" {
		req.InputLanguage = doc.Language
	}

	translator, err := s.opts.Translators(r.Context(), translate.Options{
		InputLanguage:  req.InputLanguage,
		TargetLanguage: req.TargetLanguage,
		Model:          req.Model,
		Prompt:         req.Prompt,
	})
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if closer, ok := translator.(io.Closer); ok {
		defer closer.Close()
	}

	segments, err := translate.TranslateSegments(
		r.Context(),
		translator,
		doc.Segments(),
		s.opts.Concurrency,
	)
	if err != nil {
		s.logger.Warnw("Translation failed", "document", doc.ID, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{
			Error: err.Error(),
			Code:  "translation_failed",
		})
		return
	}

	translated, err := s.manager.CreateDocument(
		TranslatedName(doc.Name, req.TargetLanguage),
		segments,
		document.WithLanguage(req.TargetLanguage),
	)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Infow("Document translated",
		"source", doc.ID,
		"document", translated.ID,
		"target_language", req.TargetLanguage,
	)
	writeJSON(w, http.StatusCreated, viewDocument(translated))
}

// TranslatedName inserts the language before the extension:
// fatiha.srt -> fatiha.en.srt.
func TranslatedName(name, lang string) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s.%s%s", strings.TrimSuffix(name, ext), lang, ext)
}
