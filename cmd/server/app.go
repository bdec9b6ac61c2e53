package main

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/maculado/companion/internal/auth"
	"github.com/maculado/companion/internal/handlers"
	"github.com/maculado/companion/internal/i18n"
	"github.com/maculado/companion/internal/policy"
	"github.com/maculado/companion/internal/services"
	"github.com/maculado/companion/internal/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux  *http.ServeMux
	db   *gorm.DB
	gate *policy.Gate

	identity *services.IdentityService
	roster   *services.RosterService
	catalog  *services.CatalogService
	journey  *services.JourneyService
	builds   *services.BuildService
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB) *App {
	identity := services.NewIdentityService(db)
	app := &App{
		mux:      http.NewServeMux(),
		db:       db,
		gate:     policy.NewGate(identity, 30*time.Second),
		identity: identity,
		roster:   services.NewRosterService(db),
		catalog:  services.NewCatalogService(db),
		journey:  services.NewJourneyService(db),
		builds:   services.NewBuildService(db),
	}

	// Expose session and role resolvers to the view layer so templates can
	// show the logged-in account and admin-only controls without importing
	// auth or policy.
	view.SetLoginResolver(func(r *http.Request) (string, bool) {
		return auth.LoginFromContext(r.Context())
	})
	view.SetIsAdminResolver(func(r *http.Request) bool {
		return app.gate.IsAdmin(r.Context())
	})

	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply global middleware: auth context + language preference
	handler := auth.Middleware(withPreferences(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	ah := handlers.NewAuthHandler(a.identity)
	ch := handlers.NewCharacterHandler(a.roster)
	jh := handlers.NewJourneyHandler(a.journey, a.roster)
	bh := handlers.NewBuildHandler(a.builds, a.roster)
	kh := handlers.NewBossHandler(a.catalog)

	// Public routes (no auth required)
	a.mux.HandleFunc("GET /", a.landingPage)
	a.mux.HandleFunc("GET /login", ah.Login)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("GET /signup", ah.Signup)
	a.mux.HandleFunc("POST /signup", ah.Signup)
	a.mux.HandleFunc("GET /logout", ah.Logout)
	a.mux.HandleFunc("POST /logout", ah.Logout)

	// Authenticated routes
	a.mux.Handle("GET /dashboard", a.requireAuth(http.HandlerFunc(a.dashboard)))

	a.mux.Handle("GET /characters", a.requireAuth(http.HandlerFunc(ch.List)))
	a.mux.Handle("POST /characters", a.requireAuth(http.HandlerFunc(ch.Create)))
	a.mux.Handle("POST /characters/{id}", a.requireAuth(http.HandlerFunc(ch.Update)))
	a.mux.Handle("POST /characters/{id}/delete", a.requireAuth(http.HandlerFunc(ch.Delete)))

	a.mux.Handle("GET /journey", a.requireAuth(http.HandlerFunc(jh.Show)))
	a.mux.Handle("POST /journey/defeat", a.requireAuth(http.HandlerFunc(jh.Defeat)))
	a.mux.Handle("GET /api/journey/{character}/progress", a.requireAuth(http.HandlerFunc(jh.Progress)))

	a.mux.Handle("GET /build", a.requireAuth(http.HandlerFunc(bh.Show)))
	a.mux.Handle("POST /build/stats", a.requireAuth(http.HandlerFunc(bh.SaveStats)))
	a.mux.Handle("POST /build/weapons", a.requireAuth(http.HandlerFunc(bh.SaveWeapons)))

	a.mux.Handle("GET /weapons", a.requireAuth(http.HandlerFunc(bh.Weapons)))
	a.mux.Handle("GET /bosses", a.requireAuth(http.HandlerFunc(kh.List)))

	// Admin routes (catalog editing)
	a.mux.Handle("GET /bosses/{id}/edit",
		a.requireAuth(a.requireAdmin(http.HandlerFunc(kh.Edit))))
	a.mux.Handle("POST /bosses/{id}",
		a.requireAuth(a.requireAdmin(http.HandlerFunc(kh.Update))))

	// Static files
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// requireAuth wraps a handler to require a valid session.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// requireAdmin wraps a handler to require the admin role.
func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.gate.RequireAdmin()(next)
}

// withPreferences injects the language preference from cookie, query or the
// Accept-Language header.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		ctx = i18n.WithLang(ctx, lang)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *App) landingPage(w http.ResponseWriter, r *http.Request) {
	login, loggedIn := auth.LoginFromContext(r.Context())
	data := map[string]any{
		"IsLoggedIn": loggedIn,
		"Login":      login,
	}
	if err := view.Render(w, r, "index.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}

func (a *App) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login, _ := auth.LoginFromContext(ctx)

	fullName, err := a.identity.FullName(ctx, login)
	if err != nil {
		log.Printf("full name %q: %v", login, err)
	}

	characters, err := a.roster.ListCharacters(ctx, login)
	if err != nil {
		log.Printf("list characters: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	summary, err := a.catalog.Summary(ctx)
	if err != nil {
		log.Printf("catalog summary: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	totalBosses, err := a.journey.TotalDistinctBosses(ctx)
	if err != nil {
		log.Printf("total distinct bosses: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Per-character progress snapshot for the overview cards.
	type characterCard struct {
		Name     string
		Defeated int
		Total    int
		Pct      float64
	}
	cards := make([]characterCard, 0, len(characters))
	for _, c := range characters {
		progress, err := a.journey.ComputeProgress(ctx, c.Name)
		if err != nil {
			log.Printf("compute progress %q: %v", c.Name, err)
			continue
		}
		card := characterCard{
			Name:     c.Name,
			Defeated: progress.Defeated,
			Total:    progress.TotalDistinctBosses,
		}
		if card.Total > 0 {
			card.Pct = float64(card.Defeated) / float64(card.Total) * 100
		}
		cards = append(cards, card)
	}

	if err := view.Render(w, r, "dashboard.html", map[string]any{
		"FullName": fullName,
		"Stats": map[string]any{
			"Characters":  len(characters),
			"Bosses":      summary.Bosses,
			"Regions":     summary.Regions,
			"TotalRunes":  int(summary.Runes),
			"TotalBosses": totalBosses,
		},
		"Characters": cards,
	}); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
	}
}
