package web

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/runnerr0/wordsmith/internal/analyzer"
	"github.com/runnerr0/wordsmith/internal/chart"
	"github.com/runnerr0/wordsmith/internal/storage"
	"go.uber.org/zap"
)

const createdFlash = "Text analyzed successfully!"

type layoutData struct {
	Title     string
	Flash     string
	RequestID string
}

type filterData struct {
	Category string
	Tag      string
	Query    string
}

// Active reports whether any filter is set.
func (f filterData) Active() bool {
	return f.Category != "" || f.Tag != "" || f.Query != ""
}

type listData struct {
	layoutData
	Texts      []storage.Text
	Categories []storage.Category
	Tags       []storage.Tag
	Filter     filterData
	Page       int
	HasPrev    bool
	HasNext    bool
}

type detailData struct {
	layoutData
	Text      *storage.Text
	Result    *analyzer.Result
	Bars      []analyzer.LengthCount
	HardCount int
	ChartURI  template.URL
}

type formValues struct {
	Title    string
	Category string
	Tags     string
	Body     string
}

type formData struct {
	layoutData
	Form       formValues
	Errors     map[string]string
	Categories []storage.Category
	KnownTags  []storage.Tag
}

// --- Pages ---

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.notFound(w, r)
		return
	}
	ctx := r.Context()
	q := r.URL.Query()

	filter := filterData{
		Category: strings.TrimSpace(q.Get("category")),
		Tag:      strings.TrimSpace(q.Get("tag")),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize := s.cfg.Catalog.PageSize

	// One extra row tells whether a next page exists.
	texts, err := s.store.ListTexts(ctx, storage.ListQuery{
		Category: filter.Category,
		Tag:      filter.Tag,
		Query:    filter.Query,
		Limit:    pageSize + 1,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	hasNext := len(texts) > pageSize
	if hasNext {
		texts = texts[:pageSize]
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, pageList, listData{
		layoutData: layoutData{Title: "Texts"},
		Texts:      texts,
		Categories: categories,
		Tags:       tags,
		Filter:     filter,
		Page:       page,
		HasPrev:    page > 1,
		HasNext:    hasNext,
	})
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, r, http.StatusOK, formValues{Category: r.URL.Query().Get("category")}, nil)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, values formValues, errs map[string]string) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	tags, err := s.store.ListTags(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, status, pageForm, formData{
		layoutData: layoutData{Title: "New text"},
		Form:       values,
		Errors:     errs,
		Categories: categories,
		KnownTags:  tags,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "form too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	values := formValues{
		Title:    r.PostForm.Get("title"),
		Category: r.PostForm.Get("category"),
		Tags:     r.PostForm.Get("tags"),
		Body:     r.PostForm.Get("body"),
	}

	text := &storage.Text{
		Title:    values.Title,
		Category: values.Category,
		Tags:     splitTags(values.Tags),
		Body:     values.Body,
	}

	if err := s.store.AddText(r.Context(), text); err != nil {
		if v, ok := storage.AsValidation(err); ok {
			s.renderForm(w, r, http.StatusUnprocessableEntity, values, v.Fields)
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.logger.Info("text created",
		zap.String("request_id", RequestID(r.Context())),
		zap.Int64("id", text.ID),
		zap.String("category", text.Category),
	)
	http.Redirect(w, r, fmt.Sprintf("/texts/%d?created=1", text.ID), http.StatusSeeOther)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	text, ok := s.lookupText(w, r, false)
	if !ok {
		return
	}

	res := analyzer.Analyze(text.Body)
	png, err := chart.Histogram(res.Histogram, s.chartOpts)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := detailData{
		layoutData: layoutData{Title: text.Title},
		Text:       text,
		Result:     res,
		Bars:       res.Lengths(),
		HardCount:  res.HardSentences(),
		ChartURI:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}
	if r.URL.Query().Get("created") == "1" {
		data.Flash = createdFlash
	}

	s.render(w, r, http.StatusOK, pageDetail, data)
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	text, ok := s.lookupText(w, r, false)
	if !ok {
		return
	}

	png, err := chart.Histogram(analyzer.Analyze(text.Body).Histogram, s.chartOpts)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// --- API ---

type lengthJSON struct {
	Length int `json:"length"`
	Count  int `json:"count"`
}

type bigramJSON struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Count  int    `json:"count"`
}

type trigramJSON struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
	Count  int    `json:"count"`
}

type analysisJSON struct {
	ID                int64         `json:"id"`
	Title             string        `json:"title"`
	Category          string        `json:"category"`
	Tags              []string      `json:"tags"`
	CreatedAt         time.Time     `json:"created_at"`
	WordCount         int           `json:"word_count"`
	SentenceCount     int           `json:"sentence_count"`
	Histogram         []lengthJSON  `json:"histogram"`
	UniqueWords       int           `json:"unique_words"`
	LexicalDiversity  float64       `json:"lexical_diversity"`
	AverageWordLength float64       `json:"average_word_length"`
	LongestWord       string        `json:"longest_word"`
	RareWordRatio     float64       `json:"rare_word_ratio"`
	AverageConsonants float64       `json:"average_consonants"`
	Cohesion          float64       `json:"cohesion"`
	HardSentences     int           `json:"hard_sentences"`
	RepeatedBigrams   []bigramJSON  `json:"repeated_bigrams"`
	RepeatedTrigrams  []trigramJSON `json:"repeated_trigrams"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	text, ok := s.lookupText(w, r, true)
	if !ok {
		return
	}

	res := analyzer.Analyze(text.Body)
	out := analysisJSON{
		ID:                text.ID,
		Title:             text.Title,
		Category:          text.Category,
		Tags:              text.Tags,
		CreatedAt:         text.CreatedAt,
		WordCount:         res.WordCount,
		SentenceCount:     res.SentenceCount,
		Histogram:         make([]lengthJSON, 0, len(res.Histogram)),
		UniqueWords:       res.UniqueWords,
		LexicalDiversity:  res.LexicalDiversity,
		AverageWordLength: res.AverageWordLength,
		LongestWord:       res.LongestWord,
		RareWordRatio:     res.RareWordRatio,
		AverageConsonants: res.AverageConsonants,
		Cohesion:          res.Cohesion,
		HardSentences:     res.HardSentences(),
		RepeatedBigrams:   make([]bigramJSON, 0, len(res.RepeatedBigrams)),
		RepeatedTrigrams:  make([]trigramJSON, 0, len(res.RepeatedTrigrams)),
	}
	for _, bar := range res.Lengths() {
		out.Histogram = append(out.Histogram, lengthJSON{Length: bar.Length, Count: bar.Count})
	}
	for _, b := range res.RepeatedBigrams {
		out.RepeatedBigrams = append(out.RepeatedBigrams, bigramJSON{First: b.First, Second: b.Second, Count: b.Count})
	}
	for _, tg := range res.RepeatedTrigrams {
		out.RepeatedTrigrams = append(out.RepeatedTrigrams, trigramJSON{First: tg.First, Second: tg.Second, Third: tg.Third, Count: tg.Count})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// --- Helpers ---

// lookupText resolves the {id} path value. Malformed and unknown ids are
// both answered with 404, as HTML or as a JSON error.
func (s *Server) lookupText(w http.ResponseWriter, r *http.Request, asJSON bool) (*storage.Text, bool) {
	missing := func() {
		if asJSON {
			writeError(w, http.StatusNotFound, "text not found")
			return
		}
		s.notFound(w, r)
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		missing()
		return nil, false
	}

	text, err := s.store.GetText(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		missing()
		return nil, false
	}
	if err != nil {
		if asJSON {
			s.logger.Error("request failed",
				zap.String("request_id", RequestID(r.Context())),
				zap.Int64("id", id),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal error")
			return nil, false
		}
		s.serverError(w, r, err)
		return nil, false
	}
	return text, true
}

// splitTags turns a comma-separated form field into tag names.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
