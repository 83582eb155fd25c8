package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/creditvision/creditvision-cli/internal/chat"
	"github.com/creditvision/creditvision-cli/internal/model"
	"github.com/creditvision/creditvision-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, 0, true)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(rateLimitMiddleware(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))

		srv := &apiServer{env: env}

		r.Get("/health", srv.handleHealth)
		r.Post("/api/recommend", srv.handleRecommend)
		r.Get("/api/recommendations", srv.handleListRecommendations)
		r.Get("/api/recommendations/{id}", srv.handleGetRecommendation)
		r.Post("/webhook/message", srv.handleWebhookMessage)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	env *pipelineEnv
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type recommendRequest struct {
	Income             float64 `json:"income"`
	Occupation         string  `json:"occupation"`
	TenureMonths       int     `json:"tenure_months,omitempty"`
	RequestedPrincipal float64 `json:"requested_principal,omitempty"`
	Save               bool    `json:"save,omitempty"`
}

func (s *apiServer) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	occ, err := model.ParseOccupation(req.Occupation)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input := model.ApplicantInput{
		Income:             req.Income,
		Occupation:         occ,
		TenureMonths:       req.TenureMonths,
		RequestedPrincipal: req.RequestedPrincipal,
	}

	var result *model.RecommendationResult
	var id string
	if req.Save {
		rec, err := s.env.Recommender.RecommendAndSave(r.Context(), input)
		if err != nil {
			writeRecommendError(w, err)
			return
		}
		result, id = &rec.Result, rec.ID
	} else {
		result, err = s.env.Recommender.Recommend(r.Context(), input)
		if err != nil {
			writeRecommendError(w, err)
			return
		}
	}

	resp := struct {
		ID     string                      `json:"id,omitempty"`
		Result *model.RecommendationResult `json:"result"`
	}{ID: id, Result: result}
	writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.env.Store == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	q := r.URL.Query()
	filter := store.Filter{
		Occupation: model.Occupation(q.Get("occupation")),
	}
	if v := q.Get("min_score"); v != "" {
		filter.MinScore, _ = strconv.Atoi(v)
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	recs, err := s.env.Store.ListRecommendations(r.Context(), filter)
	if err != nil {
		zap.L().Error("list recommendations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list recommendations")
		return
	}
	if recs == nil {
		recs = []model.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *apiServer) handleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	if s.env.Store == nil {
		writeError(w, http.StatusNotImplemented, "persistence is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := s.env.Store.GetRecommendation(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "recommendation not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type webhookMessage struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// handleWebhookMessage accepts a free-form chat message, parses income and
// occupation out of it, and replies with a plain-text recommendation.
func (s *apiServer) handleWebhookMessage(w http.ResponseWriter, r *http.Request) {
	var msg webhookMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := chat.ParseMessage(msg.Text)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"reply": "Sorry, I couldn't understand that. Tell me your monthly income and occupation, " +
				`for example: "I earn 45000 per month and I am salaried".`,
		})
		return
	}

	result, err := s.env.Recommender.Recommend(r.Context(), input)
	if err != nil {
		writeRecommendError(w, err)
		return
	}

	zap.L().Info("webhook message handled",
		zap.String("from", msg.From),
		zap.Int("score", int(result.Score)),
	)
	writeJSON(w, http.StatusOK, map[string]string{"reply": chat.FormatReply(result)})
}

func writeRecommendError(w http.ResponseWriter, err error) {
	if eris.Is(err, model.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	zap.L().Error("recommendation failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "recommendation failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// rateLimitMiddleware enforces a per-client-IP token bucket. Stale limiters
// are dropped after an hour of inactivity.
func rateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}

	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var mu sync.Mutex
	clients := map[string]*client{}

	cleanup := func() {
		for ip, c := range clients {
			if time.Since(c.lastSeen) > time.Hour {
				delete(clients, ip)
			}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
				clients[ip] = c
				if len(clients)%100 == 0 {
					cleanup()
				}
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
