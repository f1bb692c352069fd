package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mW "github.com/ledgerdemain/backend/internal/middleware"
	"github.com/ledgerdemain/backend/internal/services"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services are the handlers mounted by NewRouter
type Services struct {
	Payroll    *services.PayrollService
	Settlement *services.SettlementService
	Reports    *services.ISO20022Service
	Receipts   *services.ReceiptService
}

// RouterConfig controls the cross-cutting parts of the router
type RouterConfig struct {
	// JWTSecret enables bearer auth on routes that move funds
	JWTSecret string
	// PublicURL is where the swagger UI fetches doc.json from
	PublicURL string
	// RequestTimeout bounds every request except the engine's own timeout
	RequestTimeout time.Duration
}

func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(cfg.PublicURL+"/swagger/doc.json"),
	))

	protect := func(r chi.Router) {
		if cfg.JWTSecret != "" {
			r.Use(mW.BearerAuth(cfg.JWTSecret))
		}
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/payroll/process", svc.Payroll.ProcessPayroll)

		if svc.Settlement != nil {
			r.Get("/settlement/balance", svc.Settlement.GetBalance)
		}
		if svc.Reports != nil {
			r.Post("/settlement/report", svc.Reports.GenerateReport)
		}
		if svc.Receipts != nil {
			r.Get("/settlement/receipt-qr", svc.Receipts.ReceiptQR)
		}

		r.Group(func(r chi.Router) {
			protect(r)

			r.Post("/payroll/process-and-settle", svc.Payroll.ProcessAndSettle)
			if svc.Settlement != nil {
				r.Post("/settlement/batch", svc.Settlement.SettleBatch)
				r.Post("/settlement/faucet", svc.Settlement.RequestFaucet)
			}
		})
	})

	return r
}
