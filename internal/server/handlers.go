package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/huangsam/genviz/core"
	"github.com/huangsam/genviz/internal/contract"
	"github.com/huangsam/genviz/schema"
)

type specKey struct{}

// errResponse is the JSON body of every failed request.
type errResponse struct {
	HTTPStatus int              `json:"-"`
	Kind       schema.ErrorKind `json:"kind,omitempty"`
	Message    string           `json:"error"`
}

// Render implements the render.Renderer interface.
func (e *errResponse) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatus)
	return nil
}

func errBadRequest(err error) render.Renderer {
	return &errResponse{HTTPStatus: http.StatusBadRequest, Message: err.Error()}
}

// errPipeline maps a typed pipeline error onto an HTTP status.
func errPipeline(err error) render.Renderer {
	kind := schema.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case schema.SourceUnavailable:
		status = http.StatusBadGateway
	case schema.MalformedInput, schema.EmptyGroup, schema.DuplicateRegion:
		status = http.StatusUnprocessableEntity
	}
	return &errResponse{HTTPStatus: status, Kind: kind, Message: err.Error()}
}

// regionPayload is a region join with rank and bin per row.
type regionPayload struct {
	Name  string                     `json:"name"`
	Title string                     `json:"title"`
	Units string                     `json:"units,omitempty"`
	Rows  []schema.EnrichedRegionRow `json:"rows"`
}

// chartCtx loads the manifest entry named in the URL into the request context.
func (s *Server) chartCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		spec, ok := s.specs[name]
		if !ok {
			_ = render.Render(w, r, &errResponse{
				HTTPStatus: http.StatusNotFound,
				Message:    fmt.Sprintf("chart %q is not in the manifest", name),
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), specKey{}, spec)))
	})
}

func specFromContext(ctx context.Context) schema.ChartSpec {
	spec, _ := ctx.Value(specKey{}).(schema.ChartSpec)
	return spec
}

// applyQuery overrides chart options with the sort, top and kind query parameters.
func applyQuery(opts core.ChartOptions, query url.Values) (core.ChartOptions, error) {
	if s := strings.TrimSpace(query.Get("sort")); s != "" {
		sort, layout, err := schema.ParseSortAttribute(s)
		if err != nil {
			return opts, err
		}
		opts.Sort, opts.Layout, opts.SortExplicit = sort, layout, true
	}
	if t := query.Get("top"); t != "" {
		top, err := strconv.Atoi(t)
		if err != nil || top < 0 || top > contract.MaxTop {
			return opts, fmt.Errorf("top must be an integer between 0 and %d", contract.MaxTop)
		}
		opts.Top = top
	}
	if k := query.Get("kind"); k != "" {
		kind := schema.ChartKind(strings.ToLower(k))
		if _, ok := schema.ValidChartKinds[kind]; !ok || kind == schema.RegionChart {
			return opts, fmt.Errorf("invalid chart kind %q", k)
		}
		opts.Kind = kind
	}
	return opts, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "ok", "charts": len(s.manifest.Charts)})
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.manifest)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	spec := specFromContext(r.Context())
	if spec.Kind == schema.RegionChart {
		_ = render.Render(w, r, errBadRequest(fmt.Errorf("chart %q is a region chart; use /regions/%s", spec.Name, spec.Name)))
		return
	}

	opts, err := core.OptionsFromSpec(spec)
	if err != nil {
		_ = render.Render(w, r, errPipeline(err))
		return
	}
	if opts, err = applyQuery(opts, r.URL.Query()); err != nil {
		_ = render.Render(w, r, errBadRequest(err))
		return
	}

	start := time.Now()
	chart, err := core.LoadChart(r.Context(), s.loader, spec.Name, spec.Source, opts)
	s.metrics.observeBuild(string(spec.Kind), start, string(schema.KindOf(err)))
	if err != nil {
		s.logFailure(r, spec.Name, err)
		_ = render.Render(w, r, errPipeline(err))
		return
	}
	render.JSON(w, r, chart)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	spec := specFromContext(r.Context())

	opts, err := core.OptionsFromSpec(spec)
	if err != nil {
		_ = render.Render(w, r, errPipeline(err))
		return
	}
	if q := strings.TrimSpace(r.URL.Query().Get("sort")); q != "" {
		sort, layout, err := schema.ParseSortAttribute(q)
		if err != nil {
			_ = render.Render(w, r, errBadRequest(err))
			return
		}
		opts.Sort, opts.Layout, opts.SortExplicit = sort, layout, true
	}

	start := time.Now()
	result, err := core.LoadRegions(r.Context(), s.loader, spec.Name, spec.Source, opts)
	s.metrics.observeBuild(string(schema.RegionChart), start, string(schema.KindOf(err)))
	if err != nil {
		s.logFailure(r, spec.Name, err)
		_ = render.Render(w, r, errPipeline(err))
		return
	}
	render.JSON(w, r, regionPayload{
		Name:  result.Name,
		Title: result.Title,
		Units: result.Units,
		Rows:  schema.EnrichRegions(result.Rows),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	specs := s.manifest.Charts
	if sort := strings.TrimSpace(r.URL.Query().Get("sort")); sort != "" {
		if _, _, err := schema.ParseSortAttribute(sort); err != nil {
			_ = render.Render(w, r, errBadRequest(err))
			return
		}
		specs = make([]schema.ChartSpec, len(s.manifest.Charts))
		for i, spec := range s.manifest.Charts {
			spec.Sort = sort
			specs[i] = spec
		}
	}

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	result, err := core.RunDashboard(r.Context(), s.mgr, s.loader, specs, workers)
	if err != nil {
		_ = render.Render(w, r, errPipeline(err))
		return
	}
	for _, outcome := range result.Outcomes {
		if !outcome.OK() {
			s.metrics.chartFailure.WithLabelValues(string(outcome.ErrKind)).Inc()
		}
	}

	render.JSON(w, r, struct {
		Title string `json:"title,omitempty"`
		schema.DashboardResult
	}{s.manifest.Title, result})
}

func (s *Server) logFailure(r *http.Request, chart string, err error) {
	s.logger.WarnContext(r.Context(), "chart failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("chart", chart),
		slog.String("error_kind", string(schema.KindOf(err))),
		slog.String("error", err.Error()),
	)
}
