// Package server exposes the GraphQL schema over HTTP next to the explorer,
// prometheus metrics and a health check.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"

	"github.com/VitaminP8/blogql/internal/auth"
	"github.com/VitaminP8/blogql/internal/metrics"
)

const (
	GraphQLPath = "/graphql"
	MetricsPath = "/metrics"
	HealthPath  = "/healthz"

	DefaultMaxDepth = 10
	shutdownTimeout = 10 * time.Second
)

type Server struct {
	logger     *zap.Logger
	httpServer *http.Server
}

// New wires the routes. tokens authenticates bearer tokens for the me query.
func New(addr string, schema *graphql.Schema, tokens *auth.Tokens, m *metrics.Metrics, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(GraphQLPath, auth.Middleware(tokens)(graphqlHandler(schema)))
	mux.Handle(MetricsPath, m.Handler())
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           accessLog(logger, mux),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SchemaOptions returns the execution options shared by every schema the
// server hosts.
func SchemaOptions(m *metrics.Metrics, logger *zap.Logger) []graphql.SchemaOpt {
	return []graphql.SchemaOpt{
		graphql.Tracer(m),
		graphql.Logger(&panicLogger{logger: logger}),
		graphql.MaxDepth(DefaultMaxDepth),
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server started", zap.String("addr", s.httpServer.Addr), zap.String("graphql", GraphQLPath))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}
	s.logger.Info("server stopped")
	return nil
}

// graphqlHandler executes POST bodies through relay and GET query strings
// directly. A browser GET gets the explorer instead.
func graphqlHandler(schema *graphql.Schema) http.Handler {
	post := &relay.Handler{Schema: schema}
	explorer := playground.Handler("Blog GraphQL", GraphQLPath)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			post.ServeHTTP(w, r)
		case http.MethodGet:
			if wantsHTML(r) {
				explorer.ServeHTTP(w, r)
				return
			}
			serveGet(schema, w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func wantsHTML(r *http.Request) bool {
	return r.URL.Query().Get("query") == "" && strings.Contains(r.Header.Get("Accept"), "text/html")
}

func serveGet(schema *graphql.Schema, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		http.Error(w, "missing query", http.StatusBadRequest)
		return
	}

	var variables map[string]interface{}
	if raw := q.Get("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &variables); err != nil {
			http.Error(w, "variables must be a JSON object", http.StatusBadRequest)
			return
		}
	}

	operationName := q.Get("operationName")
	if isMutation(query, operationName) {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "mutations can only be performed from a POST request", http.StatusMethodNotAllowed)
		return
	}

	resp := schema.Exec(r.Context(), query, operationName, variables)
	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// isMutation reports whether the operation a GET request would run is a
// mutation. Documents that do not parse are left for the schema to reject.
func isMutation(query, operationName string) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return false
	}

	var op *ast.OperationDefinition
	if operationName == "" {
		if len(doc.Operations) != 1 {
			// ambiguous: refuse if any candidate writes
			for _, o := range doc.Operations {
				if o.Operation == ast.Mutation {
					return true
				}
			}
			return false
		}
		op = doc.Operations[0]
	} else {
		op = doc.Operations.ForName(operationName)
	}
	return op != nil && op.Operation == ast.Mutation
}
