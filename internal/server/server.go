// Package server implements the HTTP API: a thin gorilla/mux router over
// the roll pipeline, logged with zerolog, mirroring the shape of the
// package's original command-line server but built on the Command/
// Expression evaluation path instead of a per-die Roller tree.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tgrennan/dicey"
)

// Options configures a Server.
type Options struct {
	Port       int
	DebugMode  bool
	PrettyLogs bool
}

// Server is the package's HTTP API: roll/parse a dice command over HTTP.
type Server struct {
	opts Options
	src  dice.Source
	mux  *mux.Router
}

// New builds a Server using src as its randomness source.
func New(opts Options, src dice.Source) *Server {
	if opts.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if opts.DebugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	s := &Server{opts: opts, src: src}
	s.mux = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/", s.handleRoot)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/roll/{expr}", s.handleRoll)
	v1.HandleFunc("/parse/{expr}", s.handleParse)

	r.HandleFunc("/{expr}", s.handleRoll)

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, _ := url.PathUnescape(r.RequestURI)
		log.Info().Str("method", r.Method).Str("path", path).Msg("request")
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "dicey HTTP API",
		"routes":  []string{"/v1/roll/{expr}", "/v1/parse/{expr}"},
	})
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	expr := mux.Vars(r)["expr"]

	cmd, err := dice.ParseCommand(expr)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := cmd.Run(r.Context(), s.src, nil)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	f := dice.NewFormatter()
	totals := make([]float64, len(result.Runs))
	for i, run := range result.Runs {
		totals[i] = run.Total()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"expression": expr,
		"totals":     totals,
		"notation":   f.FormatExpr(cmd.Expr),
	})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	expr := mux.Vars(r)["expr"]

	cmd, err := dice.ParseCommand(expr)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	f := dice.NewFormatter()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"expression": expr,
		"normalized": f.FormatExpr(cmd.Expr),
		"repeat":     cmd.Repeat.Count,
		"reason":     cmd.Reason,
	})
}

// Run starts the HTTP server and blocks until SIGINT is received, then
// shuts down gracefully.
func (s *Server) Run() error {
	srv := &http.Server{
		Handler:      s.mux,
		Addr:         ":" + strconv.Itoa(s.opts.Port),
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server fatal error")
		}
	}()
	log.Info().Str("address", srv.Addr).Msg("server started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
