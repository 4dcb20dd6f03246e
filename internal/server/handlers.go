package server

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/commitgraph/pkg/buildinfo"
	errs "github.com/matzehuels/commitgraph/pkg/errors"
	"github.com/matzehuels/commitgraph/pkg/gitgraph"
	graphio "github.com/matzehuels/commitgraph/pkg/io"
	"github.com/matzehuels/commitgraph/pkg/pipeline"
	"github.com/matzehuels/commitgraph/pkg/render"
)

// Response headers set by /v1/render.
const (
	CacheHeader   = "X-Cache"
	PartialHeader = "X-Partial"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	for k, v := range buildinfo.Info() {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := render.ParseFormat(valueOr(q.Get("format"), string(render.FormatSVG)))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	detailed := false
	if v := q.Get("detailed"); v != "" {
		if detailed, err = strconv.ParseBool(v); err != nil {
			s.writeErr(w, r, errs.New(errs.ErrCodeInvalidInput, "detailed must be a boolean"))
			return
		}
	}

	g, err := s.decodeGraph(w, r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	opts := pipeline.Options{
		Graph:     g,
		Direction: q.Get("direction"),
		VizType:   q.Get("type"),
		Detailed:  detailed,
		Formats:   []string{string(format)},
		Strict:    q.Get("strict") == "true",
		Logger:    s.logger.With("id", RequestID(r.Context())),
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	if res.CacheInfo.RenderHit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	if res.Layout.Partial {
		w.Header().Set(PartialHeader, res.Layout.Error)
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(format)])
}

// decodeGraph reads the request body as TOML when the content type says
// so, JSON otherwise, and checks every identifier in it.
func (s *Server) decodeGraph(w http.ResponseWriter, r *http.Request) (*gitgraph.Graph, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()

	read := graphio.ReadJSON
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/toml" {
		read = graphio.ReadTOML
	}
	g, err := read(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidGraph, err, "cannot decode graph")
	}
	if g.Len() > s.cfg.MaxCommits {
		return nil, errs.New(errs.ErrCodeInvalidInput, "graph has %d commits (max %d)", g.Len(), s.cfg.MaxCommits)
	}
	if err := validateGraph(g); err != nil {
		return nil, err
	}
	return g, nil
}

// validateGraph rejects identifiers and messages that cannot be rendered
// safely on a single line.
func validateGraph(g *gitgraph.Graph) error {
	for _, c := range g.SortedCommits() {
		if err := errs.ValidateIdentifier("commit id", c.ID); err != nil {
			return err
		}
		for _, p := range c.Parents {
			if err := errs.ValidateIdentifier("parent id", p); err != nil {
				return err
			}
		}
		if err := errs.ValidateMessage(c.Message); err != nil {
			return err
		}
	}
	for _, b := range g.Branches() {
		if err := errs.ValidateIdentifier("branch name", b.Name); err != nil {
			return err
		}
	}
	return nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
