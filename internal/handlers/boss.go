package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/maculado/companion/internal/models"
	"github.com/maculado/companion/internal/services"
	"github.com/maculado/companion/internal/validation"
)

type BossHandler struct {
	catalog *services.CatalogService
}

func NewBossHandler(catalog *services.CatalogService) *BossHandler {
	return &BossHandler{catalog: catalog}
}

func (h *BossHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	nameQuery := r.URL.Query().Get("q")
	region := r.URL.Query().Get("region")

	summary, err := h.catalog.Summary(ctx)
	if err != nil {
		log.Printf("catalog summary: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	bosses, err := h.catalog.ListBosses(ctx, nameQuery, region)
	if err != nil {
		log.Printf("list bosses: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	regions, err := h.catalog.Regions(ctx)
	if err != nil {
		log.Printf("catalog regions: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	render(w, r, "bosses/index.html", map[string]any{
		"Summary": summary,
		"Bosses":  bosses,
		"Regions": regions,
		"Query":   nameQuery,
		"Region":  region,
		"Notice":  r.URL.Query().Get("notice"),
	})
}

func (h *BossHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	boss, err := h.catalog.GetBoss(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("get boss %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, r, "bosses/edit.html", map[string]any{"Boss": boss})
}

// Update writes an admin edit to the catalog row. Journeys are not touched
// here; they re-join the edited row on their next synchronization.
func (h *BossHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	runes, _ := strconv.Atoi(r.FormValue("runes"))
	boss := models.Boss{
		Name:            r.FormValue("name"),
		Region:          r.FormValue("region"),
		Location:        r.FormValue("location"),
		Runes:           runes,
		Loot:            r.FormValue("loot"),
		Stance:          r.FormValue("stance"),
		PreferredDamage: r.FormValue("preferred_damage"),
		Resistance:      r.FormValue("resistance"),
	}

	v := make(validation.Violations)
	validation.Required("name", boss.Name, v)
	validation.Required("region", boss.Region, v)
	if !v.Empty() {
		render(w, r, "bosses/edit.html", map[string]any{"Boss": boss, "Errors": v})
		return
	}

	if err := h.catalog.UpdateBoss(r.Context(), uint(id), boss); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		log.Printf("update boss %d: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/bosses?notice=boss_updated", http.StatusSeeOther)
}
