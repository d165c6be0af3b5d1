// FilePath: internal/graphql/graphql.go
// Package graphql exposes the ingestion pipeline over GraphQL. Execution,
// validation and introspection are done by graph-gophers/graphql-go against
// the resolvers in graphql.resolvers.go.
package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	graphqlgo "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/itsatony/healthhub/internal/models"
	"github.com/itsatony/healthhub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Ingester is the part of the ingestion pipeline the resolvers need.
type Ingester interface {
	Ingest(ctx context.Context, kind models.Kind, payload map[string]any) models.IngestResult
}

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is a GraphQL-over-HTTP response body.
type Response = graphqlgo.Response

// Server resolves operations against the healthhub schema.
type Server struct {
	schema       *graphqlgo.Schema
	root         *rootResolver
	maxBodyBytes int64
}

// Option configures a Server
type Option func(*Server)

// WithStatus enables the lastIngest query.
func WithStatus(status repository.StatusRepository) Option {
	return func(s *Server) {
		s.root.status = status
	}
}

// WithMaxBodyBytes limits the size of POST bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

// NewServer creates a GraphQL server backed by ingester.
func NewServer(ingester Ingester, opts ...Option) *Server {
	s := &Server{root: &rootResolver{ingester: ingester}}
	for _, opt := range opts {
		opt(s)
	}
	s.schema = graphqlgo.MustParseSchema(schemaSDL, s.root,
		graphqlgo.MaxDepth(maxQueryDepth),
		graphqlgo.Logger(panicLogger{}),
	)
	return s
}

// panicLogger reports resolver panics through the service logger.
type panicLogger struct{}

func (panicLogger) LogPanic(_ context.Context, value interface{}) {
	nuts.L.Errorf("[GraphQL] Resolver panic: %v", value)
}

// PlaygroundHandler serves the interactive GraphQL playground for endpoint.
func PlaygroundHandler(endpoint string) http.HandlerFunc {
	return playground.Handler("healthhub GraphQL", endpoint)
}

// ServeHTTP handles GET (queries only) and POST requests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				writeResponse(w, http.StatusBadRequest, &Response{Errors: queryErrors(gqlerrors.Errorf("invalid variables: %v", err)})
				return
			}
		}
	case http.MethodPost:
		body := r.Body
		if s.maxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		}
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			code := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				code = http.StatusRequestEntityTooLarge
			}
			writeResponse(w, code, &Response{Errors: queryErrors(gqlerrors.Errorf("invalid request body: %v", err)})
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeResponse(w, http.StatusMethodNotAllowed, &Response{Errors: queryErrors(gqlerrors.Errorf("method %s not allowed", r.Method)})
		return
	}

	resp := s.execute(r.Context(), req, r.Method == http.MethodGet)
	code := http.StatusOK
	if resp.Data == nil && len(resp.Errors) > 0 {
		code = http.StatusBadRequest
	}
	writeResponse(w, code, resp)
}

// Execute runs one operation.
func (s *Server) Execute(ctx context.Context, req Request) *Response {
	return s.execute(ctx, req, false)
}

func (s *Server) execute(ctx context.Context, req Request, readOnly bool) *Response {
	if req.Query == "" {
		return &Response{Errors: queryErrors(gqlerrors.Errorf("no query provided"))}
	}
	if readOnly {
		if op := operationType(req); op != "" && op != ast.Query {
			return &Response{Errors: queryErrors(gqlerrors.Errorf("%s operations require POST", op))}
		}
	}
	return s.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)
}

// operationType returns the type of the operation req selects, or "" when
// the query does not parse; Exec reports that case.
func operationType(req Request) ast.Operation {
	doc, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		return ""
	}
	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return ""
	}
	return op.Operation
}

func queryErrors(errs ...*gqlerrors.QueryError) []*gqlerrors.QueryError {
	return errs
}

func writeResponse(w http.ResponseWriter, code int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		nuts.L.Errorf("[GraphQL] Failed to encode response: %v", err)
	}
}
