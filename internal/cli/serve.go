package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/roomkit/pkg/buildinfo"
	"github.com/matzehuels/roomkit/pkg/catalog"
	"github.com/matzehuels/roomkit/pkg/engine"
	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/observability"
	"github.com/matzehuels/roomkit/pkg/observability/prom"
	"github.com/matzehuels/roomkit/pkg/storage"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the "serve" command running the read-only HTTP viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve shared rooms and the saved room over HTTP",
		Long: `Serve a read-only HTTP viewer.

  GET /?s=<room>          decode a share link and return the room as JSON
  GET /bom.csv?s=<room>   bill of materials for a share link
  GET /room               the saved room as JSON
  GET /room/bom.csv       bill of materials for the saved room
  GET /room/share         share link for the saved room
  GET /healthz            build information
  GET /metrics            Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			started := newProgress(c.Logger)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			store, err := c.openStore(ctx, cfg.StorageConfig())
			if err != nil {
				return err
			}
			defer store.Close()

			metrics := prometheus.NewRegistry()
			metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks, err := prom.New(metrics)
			if err != nil {
				return err
			}
			hooks.Install()
			defer observability.Reset()

			v := &viewer{
				catalog: reg,
				store:   store,
				origin:  cfg.Share.Origin,
				backend: string(cfg.Storage.Backend),
				metrics: metrics,
				logger:  c.Logger,
			}
			return serve(ctx, addr, v.routes(), c.Logger, started)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	return cmd
}

// serve runs handler on addr until ctx is cancelled. started reports the
// startup time once the listener is bound.
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger, started *progress) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		started.done("Listening on http://" + ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Debug("viewer shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// viewer serves rooms read-only. Each request builds its own engine since
// engines are not safe for concurrent use; the store is shared.
type viewer struct {
	catalog *catalog.Registry
	store   storage.Store
	origin  string
	backend string
	metrics *prometheus.Registry
	logger  *log.Logger
}

func (v *viewer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(v.logRequests)

	r.Get("/", v.handleShared)
	r.Get("/bom.csv", v.handleSharedBOM)
	r.Route("/room", func(r chi.Router) {
		r.Get("/", v.handleRoom)
		r.Get("/bom.csv", v.handleRoomBOM)
		r.Get("/share", v.handleRoomShare)
	})
	r.Get("/healthz", v.handleHealth)
	if v.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(v.metrics, promhttp.HandlerOpts{}))
	}
	return r
}

func (v *viewer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		v.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "took", time.Since(start), "id", middleware.GetReqID(r.Context()))
	})
}

// newEngine returns an engine over the shared store. The engine never
// writes because the viewer never mutates it.
func (v *viewer) newEngine(store storage.Store) (*engine.Engine, error) {
	return engine.New(engine.Options{
		Catalog:     v.catalog,
		Store:       store,
		ShareOrigin: v.origin,
		Logger:      v.logger,
	})
}

// sharedEngine decodes the share parameter of r into a throwaway engine.
func (v *viewer) sharedEngine(r *http.Request) (*engine.Engine, error) {
	eng, err := v.newEngine(storage.NewNullStore())
	if err != nil {
		return nil, err
	}
	if _, err := eng.ImportShareLink(r.Context(), "?"+r.URL.RawQuery); err != nil {
		return nil, err
	}
	return eng, nil
}

// savedEngine restores the saved room from the shared store.
func (v *viewer) savedEngine(r *http.Request) (*engine.Engine, error) {
	eng, err := v.newEngine(v.store)
	if err != nil {
		return nil, err
	}
	if res := eng.Restore(r.Context()); res.Err != nil {
		return nil, res.Err
	}
	return eng, nil
}

func (v *viewer) handleShared(w http.ResponseWriter, r *http.Request) {
	eng, err := v.sharedEngine(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v.writeRoom(w, r, eng)
}

func (v *viewer) handleSharedBOM(w http.ResponseWriter, r *http.Request) {
	eng, err := v.sharedEngine(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCSV(w, eng.BillOfMaterialsCSV())
}

func (v *viewer) handleRoom(w http.ResponseWriter, r *http.Request) {
	eng, err := v.savedEngine(r)
	if err != nil {
		writeError(w, err)
		return
	}
	v.writeRoom(w, r, eng)
}

func (v *viewer) handleRoomBOM(w http.ResponseWriter, r *http.Request) {
	eng, err := v.savedEngine(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCSV(w, eng.BillOfMaterialsCSV())
}

func (v *viewer) handleRoomShare(w http.ResponseWriter, r *http.Request) {
	eng, err := v.savedEngine(r)
	if err != nil {
		writeError(w, err)
		return
	}
	link, err := eng.ShareLink(r.URL.Query().Get("origin"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(link + "\n"))
}

func (v *viewer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"build":   buildinfo.Current(),
		"storage": v.backend,
	})
}

// writeRoom writes the room as indented JSON with a content-hash ETag.
func (v *viewer) writeRoom(w http.ResponseWriter, r *http.Request, eng *engine.Engine) {
	var buf bytes.Buffer
	if err := eng.ExportJSON(&buf); err != nil {
		writeError(w, err)
		return
	}
	etag := `"` + strconv.FormatUint(storage.Digest(buf.Bytes()), 16) + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func writeCSV(w http.ResponseWriter, csv string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bill-of-materials.csv"`)
	_, _ = w.Write([]byte(csv))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidURL:
		status = http.StatusBadRequest
	case errors.ErrCodeStorageUnavailable, errors.ErrCodeStorageRead:
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": errors.UserMessage(err),
	})
}
