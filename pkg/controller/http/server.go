package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/instanotion/pkg/domain/model"
	"github.com/secmon-lab/instanotion/pkg/service/archive"
	"github.com/secmon-lab/instanotion/pkg/utils/logging"
)

// WebhookUseCase processes parsed Instagram notifications
type WebhookUseCase interface {
	Handle(ctx context.Context, payload *model.WebhookPayload) (model.HandleResult, error)
}

// OAuthUseCase runs the Notion OAuth flow
type OAuthUseCase interface {
	Login(ctx context.Context) (authURL string, state string, err error)
	Callback(ctx context.Context, code, state string) (*model.Credential, error)
}

type Server struct {
	router      *chi.Mux
	webhookUC   WebhookUseCase
	verifyToken string
	appSecret   string
	oauthUC     OAuthUseCase
	archive     archive.Service
}

type Options func(*Server)

// WithAppSecret requires a valid X-Hub-Signature-256 header on webhook deliveries
func WithAppSecret(secret string) Options {
	return func(s *Server) {
		s.appSecret = secret
	}
}

// WithOAuth enables the Notion OAuth login and callback routes
func WithOAuth(uc OAuthUseCase) Options {
	return func(s *Server) {
		s.oauthUC = uc
	}
}

// WithArchive stores the raw body of every accepted webhook delivery
func WithArchive(svc archive.Service) Options {
	return func(s *Server) {
		s.archive = svc
	}
}

// New builds the HTTP router. verifyToken is the secret compared during webhook subscription.
func New(webhookUC WebhookUseCase, verifyToken string, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:      r,
		webhookUC:   webhookUC,
		verifyToken: verifyToken,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", rootHandler)

	r.Route("/webhook", func(r chi.Router) {
		r.Get("/", webhookVerifyHandler(s.verifyToken))
		r.Group(func(r chi.Router) {
			if s.appSecret != "" {
				r.Use(HubSignatureMiddleware(s.appSecret))
			}
			r.Post("/", webhookHandler(s.webhookUC, s.archive))
		})
	})

	if s.oauthUC != nil {
		r.Route("/oauth/notion", func(r chi.Router) {
			r.Get("/login", oauthLoginHandler(s.oauthUC))
			r.Get("/callback", oauthCallbackHandler(s.oauthUC))
		})
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
