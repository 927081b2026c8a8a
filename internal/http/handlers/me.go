package handlers

import (
	"net/http"

	"brandkit/internal/domain"
	"brandkit/internal/middleware"
)

type meResponse struct {
	UserID    string          `json:"user_id"`
	Locale    string          `json:"locale"`
	Country   string          `json:"country,omitempty"`
	Profile   *domain.Profile `json:"profile"`
	Onboarded bool            `json:"onboarded"`
}

// Me describes the caller: resolved owner, detected locale, and whether
// onboarding is done.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	ctx := r.Context()
	profile, err := a.optionalProfile(ctx, owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, meResponse{
		UserID:    owner,
		Locale:    middleware.LocaleFromContext(ctx),
		Country:   middleware.CountryFromContext(ctx),
		Profile:   profile,
		Onboarded: profile != nil,
	})
}
