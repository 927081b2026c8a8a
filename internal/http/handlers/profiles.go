package handlers

import (
	"errors"
	"net/http"

	"brandkit/internal/domain"
)

type profileRequest struct {
	OwnerID    string `json:"ownerId"`
	FullName   string `json:"full_name" validate:"max=200"`
	Profession string `json:"profession" validate:"max=200"`
	Audience   string `json:"audience" validate:"max=500"`
	Tone       string `json:"tone" validate:"max=100"`
}

func (p profileRequest) profile(owner string) domain.Profile {
	return domain.Profile{
		UserID:     owner,
		FullName:   p.FullName,
		Profession: p.Profession,
		Audience:   p.Audience,
		Tone:       p.Tone,
	}
}

func (a *App) ProfileCreate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if req.Profession == "" {
		a.fail(w, r, &domain.ValidationError{Field: "profession", Message: "is required"})
		return
	}
	p, err := a.Profiles.Upsert(r.Context(), req.profile(owner))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, p)
}

func (a *App) ProfileGet(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Profiles.Get(r.Context(), owner)
	if err != nil {
		a.fail(w, r, profileErr(err))
		return
	}
	a.json(w, http.StatusOK, p)
}

// ProfileUpdate changes only the non-empty fields.
func (a *App) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Profiles.Patch(r.Context(), req.profile(owner))
	if err != nil {
		a.fail(w, r, profileErr(err))
		return
	}
	a.json(w, http.StatusOK, p)
}

func profileErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrProfileNotFound
	}
	return err
}

type preferencesRequest struct {
	OwnerID        string `json:"ownerId"`
	HeyGenAvatarID string `json:"heygen_avatar_id"`
	HeyGenVoiceID  string `json:"heygen_voice_id"`
}

func (a *App) PreferencesGet(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	prefs, err := a.Preferences.Get(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, prefs)
}

// PreferencesPut keeps a stored choice when the request leaves it empty.
func (a *App) PreferencesPut(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	current, err := a.Preferences.Get(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if req.HeyGenAvatarID != "" {
		current.HeyGenAvatarID = req.HeyGenAvatarID
	}
	if req.HeyGenVoiceID != "" {
		current.HeyGenVoiceID = req.HeyGenVoiceID
	}
	current.UserID = owner
	saved, err := a.Preferences.Upsert(r.Context(), current)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, saved)
}
