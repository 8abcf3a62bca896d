// Package api exposes the contract check over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"token-rugcheck/internal/chain"
	"token-rugcheck/internal/domain"
	"token-rugcheck/internal/observability"
)

// Route paths.
const (
	CheckPath   = "/api/check-contract"
	StreamPath  = "/api/check-contract/ws"
	HealthPath  = "/health"
	MetricsPath = "/metrics"
)

// Error messages returned to the client on bad input.
const (
	errMsgBadBody        = "Invalid request body"
	errMsgMissingAddress = "Contract address is required"
	errMsgInvalidAddress = "Invalid Ethereum address format"
	errMsgCheckFailed    = "An error occurred while checking the contract"
)

// maxBodyBytes bounds the JSON request body.
const maxBodyBytes = 1 << 16

// Checker runs a full contract check.
type Checker interface {
	Check(ctx context.Context, address string, progress domain.ProgressFunc) (*domain.AnalysisResult, error)
}

// Handler serves the HTTP API.
type Handler struct {
	checker   Checker
	logger    logrus.FieldLogger
	staticDir string
}

// HandlerOption configures Handler.
type HandlerOption func(*Handler)

// WithStaticDir serves the directory at "/" when it exists.
func WithStaticDir(dir string) HandlerOption {
	return func(h *Handler) {
		h.staticDir = dir
	}
}

// NewHandler creates the API handler.
func NewHandler(checker Checker, logger logrus.FieldLogger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &Handler{checker: checker, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// checkRequest is the body of POST /api/check-contract.
type checkRequest struct {
	ContractAddress string `json:"contractAddress"`
}

// errorResponse is the body of every non-200 response.
type errorResponse struct {
	Error string `json:"error"`
}

// Routes returns the mux with all endpoints registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+CheckPath, h.instrument(CheckPath, h.handleCheck))
	mux.HandleFunc("GET "+StreamPath, h.handleStream)

	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle(MetricsPath, observability.Handler())

	if h.staticDir != "" {
		if info, err := os.Stat(h.staticDir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(h.staticDir)))
		} else {
			h.logger.WithField("dir", h.staticDir).Warn("static directory not found, front end disabled")
		}
	}

	return mux
}

// handleCheck validates the address, runs the check and writes the envelope.
func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) int {
	log := requestLogger(r.Context(), h.logger)

	var req checkRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return writeJSON(w, http.StatusBadRequest, errorResponse{Error: errMsgBadBody})
	}

	address, status, msg := validateAddress(req.ContractAddress)
	if status != http.StatusOK {
		return writeJSON(w, status, errorResponse{Error: msg})
	}
	log = log.WithField("address", address)
	log.Info("received check request")

	result, err := h.checker.Check(r.Context(), address, nil)
	if err != nil {
		log.WithError(err).Error("error checking contract")
		return writeJSON(w, statusFor(err), errorResponse{Error: errorMessage(err)})
	}

	return writeJSON(w, http.StatusOK, result)
}

// validateAddress returns the trimmed address or the 400 message describing the problem.
func validateAddress(raw string) (string, int, string) {
	address := strings.TrimSpace(raw)
	if address == "" {
		return "", http.StatusBadRequest, errMsgMissingAddress
	}
	if !chain.IsValidAddress(address) {
		return "", http.StatusBadRequest, errMsgInvalidAddress
	}
	return address, http.StatusOK, ""
}

func statusFor(err error) int {
	var addrErr *domain.InvalidAddressError
	if errors.As(err, &addrErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return errMsgCheckFailed
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
	return status
}

type ctxKey struct{}

// instrument assigns a request id, logs the request and records metrics.
func (h *Handler) instrument(endpoint string, fn func(http.ResponseWriter, *http.Request) int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)

		log := h.logger.WithField("request_id", id)
		ctx := context.WithValue(r.Context(), ctxKey{}, log)

		status := fn(w, r.WithContext(ctx))

		observability.RecordHTTPRequest(endpoint, status, time.Since(start).Seconds())
		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"duration": time.Since(start).String(),
		}).Info("request served")
	}
}

func requestLogger(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return l
	}
	return fallback
}
