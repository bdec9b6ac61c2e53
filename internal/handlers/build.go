package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/maculado/companion/internal/auth"
	"github.com/maculado/companion/internal/models"
	"github.com/maculado/companion/internal/services"
	"github.com/maculado/companion/internal/validation"
)

// SlotCount is the fixed number of weapon-loadout positions.
const SlotCount = 10

type BuildHandler struct {
	builds *services.BuildService
	roster *services.RosterService
}

func NewBuildHandler(builds *services.BuildService, roster *services.RosterService) *BuildHandler {
	return &BuildHandler{builds: builds, roster: roster}
}

// Show renders the build page. Selecting a character lazily creates its
// all-zero build row.
func (h *BuildHandler) Show(w http.ResponseWriter, r *http.Request) {
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
		"StatNames":  models.StatNames,
		"Slots":      SlotCount,
		"Notice":     r.URL.Query().Get("notice"),
	}

	character := r.URL.Query().Get("character")
	if character == "" || len(names) == 0 {
		render(w, r, "build/index.html", data)
		return
	}
	owned, err := h.roster.OwnsCharacter(ctx, login, character)
	if err != nil || !owned {
		http.Redirect(w, r, "/build", http.StatusSeeOther)
		return
	}

	if err := h.builds.EnsureBuild(ctx, character); err != nil {
		log.Printf("ensure build %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	build, err := h.builds.GetBuild(ctx, character)
	if err != nil {
		log.Printf("get build %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	slots, err := h.builds.LoadWeaponSlots(ctx, character)
	if err != nil {
		log.Printf("load weapon slots %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	weapons, err := h.builds.ListWeapons(ctx, "")
	if err != nil {
		log.Printf("list weapons: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// One item name per slot for the selector defaults.
	slotItems := make([]string, SlotCount)
	for _, s := range slots {
		if s.Slot >= 1 && s.Slot <= SlotCount && slotItems[s.Slot-1] == "" {
			slotItems[s.Slot-1] = s.Item
		}
	}

	data["Character"] = character
	data["Build"] = build
	data["SlotItems"] = slotItems
	data["Weapons"] = weapons
	render(w, r, "build/index.html", data)
}

// SaveStats stores the eight attribute values.
func (h *BuildHandler) SaveStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login, _ := auth.LoginFromContext(ctx)

	character := r.FormValue("character")
	owned, err := h.roster.OwnsCharacter(ctx, login, character)
	if err != nil || !owned {
		http.Redirect(w, r, "/build", http.StatusSeeOther)
		return
	}

	var stats [8]int
	v := make(validation.Violations)
	fields := []string{"vigor", "mind", "endurance", "strength", "dexterity", "intelligence", "faith", "arcane"}
	for i, f := range fields {
		n, convErr := strconv.Atoi(r.FormValue(f))
		if convErr != nil {
			v[f] = "required"
			continue
		}
		validation.IntRange(f, n, 0, 99, v)
		stats[i] = n
	}
	if !v.Empty() {
		http.Redirect(w, r, "/build?character="+url.QueryEscape(character), http.StatusSeeOther)
		return
	}

	if err := h.builds.EnsureBuild(ctx, character); err != nil {
		log.Printf("ensure build %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.builds.SaveBuild(ctx, character, stats); err != nil {
		log.Printf("save build %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r,
		"/build?character="+url.QueryEscape(character)+"&notice=build_saved",
		http.StatusSeeOther)
}

// SaveWeapons resolves each slot's weapon against the catalog and stores one
// loadout cell per (stat, slot): the weapon's requirement for that stat.
// Empty slots keep a placeholder item with zero values, like cleared slots on
// the rendered grid.
func (h *BuildHandler) SaveWeapons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	login, _ := auth.LoginFromContext(ctx)

	character := r.FormValue("character")
	owned, err := h.roster.OwnsCharacter(ctx, login, character)
	if err != nil || !owned {
		http.Redirect(w, r, "/build", http.StatusSeeOther)
		return
	}

	slots := make([]models.WeaponSlot, 0, SlotCount*len(models.StatNames))
	for slot := 1; slot <= SlotCount; slot++ {
		item := r.FormValue(fmt.Sprintf("slot_%d", slot))
		var weapon *models.Weapon
		if item != "" {
			weapon, err = h.builds.FindWeapon(ctx, item)
			if err != nil && !errors.Is(err, services.ErrNotFound) {
				log.Printf("find weapon %q: %v", item, err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
		if weapon == nil {
			item = fmt.Sprintf("Slot %d", slot)
		}
		for _, stat := range models.StatNames {
			value := 0
			if weapon != nil {
				value = weapon.Requirement(stat)
			}
			slots = append(slots, models.WeaponSlot{
				Stat:  stat,
				Slot:  slot,
				Item:  item,
				Value: value,
			})
		}
	}

	if err := h.builds.SaveWeaponSlots(ctx, character, slots); err != nil {
		log.Printf("save weapon slots %q: %v", character, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r,
		"/build?character="+url.QueryEscape(character)+"&notice=weapons_saved",
		http.StatusSeeOther)
}

// Weapons renders the weapon catalog with an optional type filter.
func (h *BuildHandler) Weapons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	weaponType := r.URL.Query().Get("type")

	weapons, err := h.builds.ListWeapons(ctx, weaponType)
	if err != nil {
		log.Printf("list weapons: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	types, err := h.builds.WeaponTypes(ctx)
	if err != nil {
		log.Printf("weapon types: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	render(w, r, "weapons/index.html", map[string]any{
		"Weapons": weapons,
		"Types":   types,
		"Type":    weaponType,
	})
}
