package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/AttendFlow/AF-Backend/internal/attendance"
	"github.com/AttendFlow/AF-Backend/internal/audit"
	"github.com/AttendFlow/AF-Backend/internal/auth"
	"github.com/AttendFlow/AF-Backend/internal/dashboard"
	"github.com/AttendFlow/AF-Backend/internal/db"
	"github.com/AttendFlow/AF-Backend/internal/geofence"
	"github.com/AttendFlow/AF-Backend/internal/insights"
	"github.com/AttendFlow/AF-Backend/internal/middleware"
	"github.com/AttendFlow/AF-Backend/internal/seeds"
	"github.com/AttendFlow/AF-Backend/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

// selectStore picks Postgres when DATABASE_URL is set, otherwise an in-memory
// store pre-loaded with the demo dataset.
func selectStore(fence geofence.Config) store.Store {
	if os.Getenv("DATABASE_URL") != "" {
		db.Connect()
		store.Init(db.DB)
		return store.NewGormStore(db.DB)
	}

	log.Println("DATABASE_URL not set, using in-memory store with demo data")
	users, records, logs := seeds.Generate(time.Now(), fence)
	return store.NewMemoryStore(users, records, logs)
}

func main() {
	_ = godotenv.Load(".env.local")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	fence := geofence.Load()
	s := selectStore(fence)

	gemini, err := insights.NewGeminiClient()
	if err != nil {
		log.Fatal("Failed to create Gemini client: ", err)
	}
	if gemini == nil {
		log.Println("GEMINI_API_KEY not set, insight queries will be degraded")
	}

	authHandler := &auth.Handler{Store: s}
	attendanceHandler := &attendance.Handler{Store: s, Fence: fence}
	dashboardHandler := &dashboard.Handler{Store: s}
	auditHandler := &audit.Handler{Store: s}
	insightsHandler := insights.NewHandler(s, gemini)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", authHandler.SetupRoutes())
	r.Mount("/attendance", attendanceHandler.SetupRoutes())
	r.Mount("/dashboard", dashboardHandler.SetupRoutes())
	r.Mount("/audit", auditHandler.SetupRoutes())
	r.Mount("/insights", insightsHandler.SetupRoutes())

	fmt.Printf("Server listening on port :%s...\n", port)

	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal("Server error: ", err)
	}
}
