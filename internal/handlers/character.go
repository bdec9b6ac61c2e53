package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/maculado/companion/internal/auth"
	"github.com/maculado/companion/internal/services"
	"github.com/maculado/companion/internal/validation"
)

type CharacterHandler struct {
	roster *services.RosterService
}

func NewCharacterHandler(roster *services.RosterService) *CharacterHandler {
	return &CharacterHandler{roster: roster}
}

func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFromContext(r.Context())

	characters, err := h.roster.ListCharacters(r.Context(), login)
	if err != nil {
		log.Printf("list characters: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, r, "characters/index.html", map[string]any{
		"Characters": characters,
		"Notice":     r.URL.Query().Get("notice"),
	})
}

func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFromContext(r.Context())

	playerName := r.FormValue("player_name")
	name := r.FormValue("name")

	v := make(validation.Violations)
	validation.Required("player_name", playerName, v)
	validation.Required("name", name, v)
	if !v.Empty() {
		characters, _ := h.roster.ListCharacters(r.Context(), login)
		render(w, r, "characters/index.html", map[string]any{
			"Characters": characters,
			"Errors":     v,
			"PlayerName": playerName,
			"Name":       name,
		})
		return
	}

	if err := h.roster.CreateCharacter(r.Context(), playerName, name, login); err != nil {
		log.Printf("create character: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/characters?notice=character_created", http.StatusSeeOther)
}

func (h *CharacterHandler) Update(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFromContext(r.Context())
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	playerName := r.FormValue("player_name")
	name := r.FormValue("name")
	v := make(validation.Violations)
	validation.Required("player_name", playerName, v)
	validation.Required("name", name, v)
	if !v.Empty() {
		http.Redirect(w, r, "/characters", http.StatusSeeOther)
		return
	}

	if err := h.roster.RenameCharacter(r.Context(), uint(id), playerName, name, login); err != nil {
		log.Printf("rename character: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/characters?notice=character_updated", http.StatusSeeOther)
}

func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	login, _ := auth.LoginFromContext(r.Context())
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.roster.DeleteCharacter(r.Context(), uint(id), login); err != nil {
		log.Printf("delete character: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/characters?notice=character_deleted", http.StatusSeeOther)
}
