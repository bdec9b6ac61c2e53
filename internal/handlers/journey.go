package handlers

import (
	"log"
	"net/http"
	"net/url"

	"github.com/maculado/companion/internal/auth"
	"github.com/maculado/companion/internal/httpx"
	"github.com/maculado/companion/internal/services"
)

type JourneyHandler struct {
	journey *services.JourneyService
	roster  *services.RosterService
}

func NewJourneyHandler(journey *services.JourneyService, roster *services.RosterService) *JourneyHandler {
	return &JourneyHandler{journey: journey, roster: roster}
}

// Show renders the progress page. Every visit synchronizes all journeys
// against the catalog first, then seeds the selected character's journey if
// it does not exist yet, so the page always reflects the current catalog.
func (h *JourneyHandler) Show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login, _ := auth.LoginFromContext(ctx)

	names, err := h.roster.CharacterNames(ctx, login)
	if err != nil {
		log.Printf("character names: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Characters": names,
		"Notice":     r.URL.Query().Get("notice"),
	}
	character := r.URL.Query().Get("character")
	if character == "" || len(names) == 0 {
		render(w, r, "journey/index.html", data)
		return
	}
	owned, err := h.roster.OwnsCharacter(ctx, login, character)
	if err != nil || !owned {
		http.Redirect(w, r, "/journey", http.StatusSeeOther)
		return
	}

	if err := h.journey.Synchronize(ctx); err != nil {
		log.Printf("synchronize journeys: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.journey.EnsureJourney(ctx, character); err != nil {
		log.Printf("ensure journey %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	progress, err := h.journey.ComputeProgress(ctx, character)
	if err != nil {
		log.Printf("compute progress %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	alive, err := h.journey.AliveEntries(ctx, character)
	if err != nil {
		log.Printf("alive entries %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	regions, err := h.journey.RegionsInLevelOrder(ctx, character)
	if err != nil {
		log.Printf("regions %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	data["Character"] = character
	data["Progress"] = progress
	data["Alive"] = alive
	data["Regions"] = regions
	data["AllInRegion"] = services.AllInRegion
	render(w, r, "journey/index.html", data)
}

// Progress serves the character's progress metrics as JSON.
func (h *JourneyHandler) Progress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login, _ := auth.LoginFromContext(ctx)

	character := r.PathValue("character")
	owned, err := h.roster.OwnsCharacter(ctx, login, character)
	if err != nil {
		log.Printf("owns character %q: %v", character, err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if !owned {
		httpx.JSONError(w, http.StatusNotFound, "unknown_character", nil)
		return
	}

	progress, err := h.journey.ComputeProgress(ctx, character)
	if err != nil {
		log.Printf("compute progress %q: %v", character, err)
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, progress)
}

// Defeat records a kill for one boss or a whole region.
func (h *JourneyHandler) Defeat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login, _ := auth.LoginFromContext(ctx)

	character := r.FormValue("character")
	region := r.FormValue("region")
	boss := r.FormValue("boss")
	if character == "" || region == "" || boss == "" {
		http.Redirect(w, r, "/journey", http.StatusSeeOther)
		return
	}
	owned, err := h.roster.OwnsCharacter(ctx, login, character)
	if err != nil || !owned {
		http.Redirect(w, r, "/journey", http.StatusSeeOther)
		return
	}

	if err := h.journey.MarkDefeated(ctx, character, region, boss); err != nil {
		log.Printf("mark defeated %q/%q/%q: %v", character, region, boss, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	notice := "boss_defeated"
	if boss == services.AllInRegion {
		notice = "region_defeated"
	}
	http.Redirect(w, r,
		"/journey?character="+url.QueryEscape(character)+"&notice="+notice,
		http.StatusSeeOther)
}
