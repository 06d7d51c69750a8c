package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/summittrails/pricing-api/internal/auth"
	"github.com/summittrails/pricing-api/internal/service"
	"go.uber.org/zap"
)

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains path prefixes that should not be audited
	SkipPaths []string
	// SkipMethods contains HTTP methods that should not be audited
	SkipMethods []string
}

// DefaultAuditConfig returns default audit configuration. Pricing reads
// (simulations, quote calculations) are deliberately not audited; only
// catalog and configuration mutations are.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/swagger",
			"/api/v1/pricing",
			"/api/v1/quotes",
		},
		SkipMethods: []string{
			http.MethodGet,
			http.MethodOptions,
			http.MethodHead,
		},
	}
}

// AuditMiddleware records mutating requests in the audit log
type AuditMiddleware struct {
	auditService *service.AuditLogService
	config       *AuditConfig
	logger       *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(auditService *service.AuditLogService, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		auditService: auditService,
		config:       config,
		logger:       logger,
	}
}

// Audit returns middleware that logs modifications to the audit log
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		var requestBody []byte
		if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
			requestBody, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		rw := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		// Only record successful mutations
		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		m.recordAudit(r, requestBody)
	})
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	if m.auditService == nil {
		return false
	}
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}
	path := r.URL.Path
	for _, skipPath := range m.config.SkipPaths {
		if strings.HasPrefix(path, skipPath) {
			return false
		}
	}
	return true
}

func (m *AuditMiddleware) recordAudit(r *http.Request, requestBody []byte) {
	action := methodToAction(r.Method)
	if action == "" {
		return
	}

	entityType, entityID := extractEntityInfo(r)

	detail := ""
	if len(requestBody) > 0 {
		var parsed map[string]interface{}
		if json.Unmarshal(requestBody, &parsed) == nil {
			delete(parsed, "password")
			delete(parsed, "secret")
			delete(parsed, "token")
			delete(parsed, "apiKey")
			if compact, err := json.Marshal(parsed); err == nil {
				detail = string(compact)
			}
		}
	}

	userEmail := ""
	var userID *uuid.UUID
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		userEmail = userCtx.Email
		id := userCtx.UserID
		userID = &id
	}

	requestID := r.Header.Get("X-Request-ID")

	// Detached from the request context so a client disconnect cannot
	// drop the entry.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		m.auditService.Record(ctx, userID, userEmail, action, entityType, entityID, detail, requestID)
	}()
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return ""
	}
}

func extractEntityInfo(r *http.Request) (string, string) {
	routeCtx := chi.RouteContext(r.Context())
	if routeCtx == nil {
		return parseEntityFromPath(r.URL.Path), ""
	}
	entityID := routeCtx.URLParam("id")
	return parseEntityFromPath(routeCtx.RoutePattern()), entityID
}

func parseEntityFromPath(path string) string {
	entityMap := map[string]string{
		"rates":            "ServiceRate",
		"pricing-rules":    "PricingRule",
		"agencies":         "Agency",
		"margin-overrides": "MarginOverride",
		"demand":           "DemandMetric",
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	for _, part := range parts {
		if entityType, ok := entityMap[part]; ok {
			return entityType
		}
	}
	return "Unknown"
}

// responseCapture wraps ResponseWriter to capture the status code
type responseCapture struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseCapture) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
