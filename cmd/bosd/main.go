// Command bosd runs the business operating system's dispatcher behind an
// HTTP front door: one endpoint per registered engine command, fronted by
// the HTTP Context Resolver and the CORS/request-ID middleware chain.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Majorsoln/BOS-sub001/engines/accounting"
	"github.com/Majorsoln/BOS-sub001/engines/cash"
	"github.com/Majorsoln/BOS-sub001/engines/inventory"
	"github.com/Majorsoln/BOS-sub001/pkg/audit"
	"github.com/Majorsoln/BOS-sub001/pkg/auth"
	"github.com/Majorsoln/BOS-sub001/pkg/authz"
	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/clock"
	"github.com/Majorsoln/BOS-sub001/pkg/command"
	"github.com/Majorsoln/BOS-sub001/pkg/config"
	"github.com/Majorsoln/BOS-sub001/pkg/consent"
	"github.com/Majorsoln/BOS-sub001/pkg/dispatcher"
	"github.com/Majorsoln/BOS-sub001/pkg/engine"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/finance"
	"github.com/Majorsoln/BOS-sub001/pkg/guard"
	"github.com/Majorsoln/BOS-sub001/pkg/httpctx"
	"github.com/Majorsoln/BOS-sub001/pkg/kernel"
	"github.com/Majorsoln/BOS-sub001/pkg/observability"
	"github.com/Majorsoln/BOS-sub001/pkg/providers"
	"github.com/Majorsoln/BOS-sub001/pkg/rejection"
	"github.com/Majorsoln/BOS-sub001/pkg/security"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(ctx, observability.DefaultConfig())
	if err != nil {
		log.Fatalf("bosd: observability init: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	realClock := clock.Real()

	health := security.NewSystemHealth()
	if cfg.SystemHealth != security.ModeNormal {
		health.SetDegraded("started under a non-NORMAL profile")
	}
	rateLimiter := security.NewRateLimiter(realClock, security.DefaultTiers())
	rateLimiter.SetTier(bizcontext.ActorHuman, security.Tier{Base: cfg.RateLimitHuman, Burst: cfg.RateLimitBurst})
	anomalyDetector := security.NewAnomalyDetector(realClock, security.DefaultAnomalyConfig())

	limiterStore := kernel.NewInMemoryLimiterStore()
	backpressure := kernel.BackpressurePolicy{RPM: cfg.RateLimitHuman * 10, Burst: cfg.RateLimitBurst * 10}

	authzEngine := authz.NewEngine()
	permissionProvider := authz.NewProvider(authzEngine, map[string]string{
		cash.CommandOpen:           "cash.session.manage",
		cash.CommandPayment:        "cash.session.manage",
		cash.CommandClose:          "cash.session.manage",
		inventory.CommandReceive:   "inventory.stock.manage",
		inventory.CommandIssue:     "inventory.stock.manage",
		accounting.CommandPostEntry: "accounting.journal.post",
	})
	featureFlags := providers.NewInMemoryFeatureFlagProvider()
	documents := providers.NewInMemoryDocumentProvider()
	authProvider := providers.NewInMemoryAuthProvider()

	consentStore := consent.NewStore()
	complianceProvider := consent.NewComplianceProvider(consentStore, map[string]string{
		accounting.CommandPostEntry: "financial_data_processing",
	}, nil)

	deps := guard.Deps{
		Health:          health,
		RateLimiter:     rateLimiter,
		AnomalyDetector: anomalyDetector,
		TenantScopes:    func(string) *bizcontext.TenantScope { return nil },
	}
	guardProviders := guard.Providers{
		Permission:  permissionProvider,
		FeatureFlag: featureFlags,
		Document:    documents,
		Compliance:  complianceProvider,
	}

	registry := events.NewTypeRegistry()
	sink := store.NewMemorySink()

	auditKeyring, err := audit.NewKeyring()
	if err != nil {
		log.Fatalf("bosd: audit keyring: %v", err)
	}
	auditLogger := audit.NewSigningLogger(audit.NewLogger(), auditKeyring)

	d := dispatcher.New(realClock, deps, guardProviders, registry, auditLogger)

	drawerFloats := finance.NewInMemoryTracker()

	for _, e := range []engine.Engine{
		cash.New(sink, registry, realClock).WithFloatTracker(drawerFloats),
		inventory.New(sink, registry, realClock),
		accounting.New(sink, registry, realClock),
	} {
		if err := d.RegisterEngine(e); err != nil {
			log.Fatalf("bosd: register engine %s: %v", e.Name(), err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"mode": string(health.Mode())})
	})
	mux.HandleFunc("/v1/commands/", dispatchHandler(d, authProvider, limiterStore, backpressure))

	handler := auth.RequestIDMiddleware(auth.CORSMiddleware(nil)(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("bosd: listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("bosd: serve: %v", err)
	}
}

// commandRequest is the wire shape of a POST body against
// /v1/commands/{intent}.
type commandRequest struct {
	BusinessID string                 `json:"business_id"`
	BranchID   string                 `json:"branch_id"`
	Payload    map[string]interface{} `json:"payload"`
}

func dispatchHandler(d *dispatcher.Dispatcher, authProvider providers.AuthProvider, limiterStore kernel.LimiterStore, policy kernel.BackpressurePolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		intent := r.URL.Path[len("/v1/commands/"):]

		var body commandRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpctx.WriteRejection(w, rejection.New(rejection.CodeInvalidCommandStructure, "malformed request body", "http_entrypoint"), 0)
			return
		}

		result, rej, denied := httpctx.Resolve(r.Context(), r.Header, httpctx.Body{BusinessID: body.BusinessID, BranchID: body.BranchID}, authProvider, bizcontext.LifecycleActive, nil)
		if denied {
			httpctx.WriteRejection(w, rej, 0)
			return
		}

		if err := kernel.EvaluateBackpressure(r.Context(), limiterStore, body.BusinessID, policy); err != nil {
			httpctx.WriteRejection(w, rejection.New(rejection.CodeRateLimitExceeded, err.Error(), "kernel.backpressure"), 60)
			return
		}

		scope := bizcontext.ScopeBusinessAllowed
		if body.BranchID != "" {
			scope = bizcontext.ScopeBranchRequired
		}
		cmd, err := command.New(command.Params{
			Intent:           intent,
			TenantID:         body.BusinessID,
			BranchID:         body.BranchID,
			ActorKind:        result.Actor.Kind(),
			ActorID:          result.Actor.ID(),
			Payload:          body.Payload,
			IssuedAt:         time.Now(),
			ScopeRequirement: scope,
			ActorRequirement: bizcontext.ActorRequired,
		})
		if err != nil {
			httpctx.WriteRejection(w, rejection.New(rejection.CodeInvalidCommandStructure, err.Error(), "http_entrypoint"), 0)
			return
		}

		outcome := d.Dispatch(r.Context(), cmd, result.Business)
		if !outcome.Accepted {
			httpctx.WriteRejection(w, outcome.Rejection, 0)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(outcome.Event)
	}
}
