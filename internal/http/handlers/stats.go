package handlers

import (
	"net/http"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	summary, err := a.Stats.Summary(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, summary)
}
