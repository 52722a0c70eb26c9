// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"librarium/internal/catalog"
	"librarium/internal/circulation"
	"librarium/internal/fees"
	"librarium/internal/payments"
	"librarium/internal/reporting"
	"librarium/internal/store"
)

func main() {
	ctx := context.Background()

	st, err := buildStore(ctx)
	if err != nil {
		log.Fatalf("Failed to set up record store: %v", err)
	}

	calc := fees.NewCalculator()
	catalogSvc := catalog.NewService(st)
	circulationSvc := circulation.NewService(st)
	reportingSvc := reporting.NewService(st, calc)
	gateway := payments.NewHTTPGateway(getEnv("PAYMENT_GATEWAY_URL", "http://localhost:9090"))
	paymentsSvc := payments.NewOrchestrator(reportingSvc, gateway)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	catalog.NewHandler(catalogSvc).Register(router)
	circulation.NewHandler(circulationSvc).Register(router)
	reporting.NewHandler(reportingSvc).Register(router)
	payments.NewHandler(paymentsSvc).Register(router)

	port := getEnv("PORT", "8080")
	log.Printf("Starting library service on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// buildStore connects to Postgres when DATABASE_URL is set; otherwise
// it serves the seeded in-memory store for local development.
func buildStore(ctx context.Context) (store.Store, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("DATABASE_URL not set, using in-memory store with sample data")
		mem := store.NewMemoryStore()
		if err := mem.Seed(ctx); err != nil {
			return nil, err
		}
		return mem, nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return nil, err
	}
	pg := store.NewPostgresStore(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return pg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
