package handlers

import (
	"net/http"
	"strings"

	"brandkit/internal/domain"
	"brandkit/internal/videojob"
)

type videoGenerateRequest struct {
	OwnerID     string `json:"ownerId"`
	SubjectID   string `json:"subjectId" validate:"required"`
	CharacterID string `json:"characterId"`
	VoiceID     string `json:"voiceId"`
}

type videoGenerateResponse struct {
	ProviderJobID string          `json:"providerJobId"`
	Job           domain.VideoJob `json:"job"`
}

// VideoGenerate submits the subject's X template as an avatar video. A
// missing characterId or voiceId is taken from the saved preferences.
func (a *App) VideoGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if (req.CharacterID == "" || req.VoiceID == "") && a.Preferences != nil {
		prefs, err := a.Preferences.Get(r.Context(), owner)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		if req.CharacterID == "" {
			req.CharacterID = prefs.HeyGenAvatarID
		}
		if req.VoiceID == "" {
			req.VoiceID = prefs.HeyGenVoiceID
		}
	}
	job, err := a.Videos.Submit(r.Context(), owner, req.SubjectID, req.CharacterID, req.VoiceID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, videoGenerateResponse{ProviderJobID: job.ProviderJobID, Job: job})
}

// VideoStatus has two modes: jobId returns the provider's raw answer without
// touching the store, ownerId+subjectId runs a reconciling status check.
// With auth enabled a jobId must belong to one of the caller's jobs.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if jobID := strings.TrimSpace(q.Get("jobId")); jobID != "" {
		if a.AuthEnabled {
			if err := a.ownsProviderJob(r, jobID); err != nil {
				a.fail(w, r, err)
				return
			}
		}
		st, err := a.Provider.Status(r.Context(), jobID)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		a.json(w, http.StatusOK, st)
		return
	}
	subject := strings.TrimSpace(q.Get("subjectId"))
	if subject == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "jobId or subjectId is required")
		return
	}
	owner, err := a.owner(r, q.Get("ownerId"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	report, err := a.Videos.CheckStatus(r.Context(), owner, subject)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, report)
}

func (a *App) ownsProviderJob(r *http.Request, providerJobID string) error {
	owner, err := a.owner(r, r.URL.Query().Get("ownerId"))
	if err != nil {
		return err
	}
	jobs, err := a.Videos.List(r.Context(), owner)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if j.ProviderJobID == providerJobID {
			return nil
		}
	}
	return domain.ErrJobNotFound
}

type videoRecordRequest struct {
	OwnerID       string       `json:"ownerId"`
	SubjectID     string       `json:"subjectId" validate:"required"`
	Phase         domain.Phase `json:"phase" validate:"required,oneof=in_progress completed failed"`
	ResultURI     string       `json:"resultUri"`
	FailureReason string       `json:"failureReason"`
}

func (a *App) VideoRecordUpsert(w http.ResponseWriter, r *http.Request) {
	var req videoRecordRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	job, err := a.Videos.Record(r.Context(), videojob.RecordInput{
		OwnerID:       owner,
		SubjectID:     req.SubjectID,
		Phase:         req.Phase,
		ResultURI:     req.ResultURI,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "job": job})
}

func (a *App) VideoList(w http.ResponseWriter, r *http.Request) {
	owner, err := a.queryOwner(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	jobs, err := a.Videos.List(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []domain.VideoJob{}
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": jobs})
}

type videoCancelRequest struct {
	OwnerID   string `json:"ownerId"`
	SubjectID string `json:"subjectId" validate:"required"`
}

func (a *App) VideoCancel(w http.ResponseWriter, r *http.Request) {
	var req videoCancelRequest
	if err := a.decode(r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	owner, err := a.owner(r, req.OwnerID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	job, err := a.Videos.Cancel(r.Context(), owner, req.SubjectID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Video generation cancelled successfully",
		"job":     job,
	})
}

// HeyGenAvatars and HeyGenVoices proxy the provider catalog uncached.
func (a *App) HeyGenAvatars(w http.ResponseWriter, r *http.Request) {
	avatars, err := a.Catalog.ListAvatars(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if avatars == nil {
		avatars = []domain.Avatar{}
	}
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, map[string]any{"avatars": avatars})
}

func (a *App) HeyGenVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := a.Catalog.ListVoices(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if voices == nil {
		voices = []domain.Voice{}
	}
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, map[string]any{"voices": voices})
}
