// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/risda/internal/corpus"
	"github.com/pdiddy/risda/internal/engine"
	"github.com/pdiddy/risda/internal/httputil"
	"github.com/pdiddy/risda/internal/ingest"
	"github.com/pdiddy/risda/internal/labels"
	"github.com/pdiddy/risda/internal/paginate"
	"github.com/pdiddy/risda/internal/problem"
	"github.com/pdiddy/risda/internal/validation"
	"github.com/pdiddy/risda/pkg/types"
)

const maxUploadBytes = 10 << 20

var errBadRequest = errors.New("bad request")

// writeErr maps service errors onto HTTP statuses.
func (s *Server) writeErr(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		httputil.WriteError(w, http.StatusUnprocessableEntity, verr.Error(), verr.Fields)
	case errors.Is(err, ingest.ErrClassify):
		httputil.WriteError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, corpus.ErrNotFound), errors.Is(err, problem.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, errBadRequest),
		errors.Is(err, engine.ErrInvalidSort),
		errors.Is(err, engine.ErrEmptyQuery),
		errors.Is(err, problem.ErrEmptyProblem),
		errors.Is(err, corpus.ErrMissingColumns),
		errors.Is(err, corpus.ErrMalformedCSV):
		httputil.WriteError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		s.log.Error().Err(err).Msg("request failed")
		httputil.WriteError(w, http.StatusInternalServerError, "internal error", nil)
	}
}

// writeStored answers a write that may have reached the store. A stale
// index after a stored change is reported in IndexStaleHeader and the
// result is still returned.
func (s *Server) writeStored(w http.ResponseWriter, status int, v any, err error) {
	switch {
	case errors.Is(err, ingest.ErrIndexStale):
		s.log.Warn().Err(err).Msg("serving with stale index")
		w.Header().Set(IndexStaleHeader, "true")
	case err != nil:
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, status, v)
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func decode(r *http.Request, v any) error {
	if err := httputil.DecodeJSON(r, v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", chi.URLParam(r, "id"))
	}
	return id, nil
}

type healthResponse struct {
	Status  string    `json:"status"`
	Records int       `json:"records"`
	BuiltAt time.Time `json:"built_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.deps.Engine.Snapshot()
	httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Records: snap.Len(), BuiltAt: snap.BuiltAt()})
}

// searchOptions reads q, label (repeatable or comma-separated), sort,
// page, page_size, limit and min_score.
func searchOptions(r *http.Request) (types.SearchOptions, error) {
	q := r.URL.Query()
	opts := types.SearchOptions{
		Query: q.Get("q"),
		Sort:  types.SortOrder(q.Get("sort")),
	}
	for _, v := range q["label"] {
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				opts.Labels = append(opts.Labels, l)
			}
		}
	}

	var err error
	if opts.Page, err = intParam(r, "page"); err != nil {
		return opts, err
	}
	if opts.PageSize, err = intParam(r, "page_size"); err != nil {
		return opts, err
	}
	if opts.Limit, err = intParam(r, "limit"); err != nil {
		return opts, err
	}
	if v := q.Get("min_score"); v != "" {
		if opts.MinScore, err = strconv.ParseFloat(v, 64); err != nil || opts.MinScore < 0 || opts.MinScore > 1 {
			return opts, badRequest("min_score must be a number in [0, 1]")
		}
	}
	return opts, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	opts, err := searchOptions(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	page, err := s.deps.Engine.Search(r.Context(), opts)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

type labelResponse struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Emoji   string `json:"emoji,omitempty"`
	Color   string `json:"color"`
	Known   bool   `json:"known"`
}

func (s *Server) handleLabels(w http.ResponseWriter, _ *http.Request) {
	names := s.deps.Engine.Labels()
	out := make([]labelResponse, len(names))
	for i, name := range names {
		c, ok := labels.Lookup(name)
		out[i] = labelResponse{Name: name, Display: labels.Display(name), Emoji: c.Emoji, Color: c.Color, Known: ok}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type recommendRequest struct {
	Text string `json:"text"`
	TopN int    `json:"top_n"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	results, err := s.deps.Engine.Recommend(r.Context(), req.Text, req.TopN)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

type classifyRequest struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
}

type classifyResponse struct {
	Label   string `json:"label"`
	Display string `json:"display"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	label, err := s.deps.Records.Classify(req.Title, req.Synopsis)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, classifyResponse{Label: label, Display: labels.Display(label)})
}

type problemResponse struct {
	Submission      types.Submission     `json:"submission"`
	Recommendations []types.ScoredRecord `json:"recommendations"`
	Page            int                  `json:"page"`
	Pages           int                  `json:"pages"`
	Total           int                  `json:"total"`
}

// handleSubmitProblem stores the submission and returns the first page of
// its recommendations. Later pages come from handleProblemRecommendations.
func (s *Server) handleSubmitProblem(w http.ResponseWriter, r *http.Request) {
	var req types.ProblemRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	req.Owner = ownerFrom(r.Context())

	res, err := s.deps.Problems.Submit(r.Context(), req)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, s.problemPage(res.Submission, res.Recommendations, 1))
}

func (s *Server) handleProblemRecommendations(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page")
	if err != nil {
		s.writeErr(w, err)
		return
	}
	owner := ownerFrom(r.Context())
	id := chi.URLParam(r, "id")

	recs, err := s.deps.Problems.Recommendations(r.Context(), owner, id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.problemPage(types.Submission{ID: id, Owner: owner}, recs, page))
}

func (s *Server) problemPage(sub types.Submission, recs []types.ScoredRecord, page int) problemResponse {
	shown, win := paginate.Slice(recs, s.problem.PageSize, page)
	if shown == nil {
		shown = []types.ScoredRecord{}
	}
	return problemResponse{
		Submission:      sub,
		Recommendations: shown,
		Page:            win.Page,
		Pages:           win.Pages,
		Total:           win.Total,
	}
}

func (s *Server) handleListProblems(w http.ResponseWriter, r *http.Request) {
	subs, err := s.deps.Problems.Submissions(r.Context(), ownerFrom(r.Context()))
	s.writeSubmissions(w, subs, err)
}

func (s *Server) handleListAllProblems(w http.ResponseWriter, r *http.Request) {
	subs, err := s.deps.Problems.AllSubmissions(r.Context())
	s.writeSubmissions(w, subs, err)
}

func (s *Server) writeSubmissions(w http.ResponseWriter, subs []types.Submission, err error) {
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if subs == nil {
		subs = []types.Submission{}
	}
	httputil.WriteJSON(w, http.StatusOK, subs)
}

type saveRequest struct {
	Results []types.ScoredRecord `json:"results"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decode(r, &req); err != nil {
		s.writeErr(w, err)
		return
	}
	if len(req.Results) == 0 {
		s.writeErr(w, badRequest("no results to save"))
		return
	}
	saved, err := s.deps.Problems.Save(r.Context(), ownerFrom(r.Context()), req.Results)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	saved, err := s.deps.Problems.Saved(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if saved == nil {
		saved = []types.SavedRecommendation{}
	}
	httputil.WriteJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.deps.Problems.Dashboard(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		s.writeErr(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, dash)
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	var in types.NewRecord
	if err := decode(r, &in); err != nil {
		s.writeErr(w, err)
		return
	}
	rec, err := s.deps.Records.Add(r.Context(), in)
	s.writeStored(w, http.StatusCreated, rec, err)
}

func (s *Server) handleEditRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	var in types.NewRecord
	if err := decode(r, &in); err != nil {
		s.writeErr(w, err)
		return
	}
	rec, err := s.deps.Records.Edit(r.Context(), id, in)
	s.writeStored(w, http.StatusOK, rec, err)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	trashed, err := s.deps.Records.Delete(r.Context(), id)
	s.writeStored(w, http.StatusOK, trashed, err)
}

// handleUpload accepts a multipart form with a "file" field or a raw
// text/csv body.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.writeErr(w, badRequest("parsing upload: %v", err))
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			s.writeErr(w, badRequest("missing file field"))
			return
		}
		defer f.Close()
		src = f
	}

	summary, err := s.deps.Records.Upload(r.Context(), src)
	s.writeStored(w, http.StatusOK, summary, err)
}

func (s *Server) handleListTrash(w http.ResponseWriter, r *http.Request) {
	trash, err := s.deps.Records.Trash(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if trash == nil {
		trash = []types.TrashedRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, trash)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	rec, err := s.deps.Records.Restore(r.Context(), id)
	s.writeStored(w, http.StatusOK, rec, err)
}
