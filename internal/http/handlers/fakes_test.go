package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"brandkit/internal/domain"
	"brandkit/internal/providers/content"
	"brandkit/internal/providers/video"
	"brandkit/internal/videojob"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeVideos struct {
	submitted []string
	submitErr error
	statusErr error
	cancelErr error
	report    videojob.StatusReport
	recorded  []videojob.RecordInput
	jobs      []domain.VideoJob
}

func (f *fakeVideos) Submit(_ context.Context, owner, subject, characterID, voiceID string) (domain.VideoJob, error) {
	if f.submitErr != nil {
		return domain.VideoJob{}, f.submitErr
	}
	f.submitted = append(f.submitted, fmt.Sprintf("%s/%s/%s/%s", owner, subject, characterID, voiceID))
	return domain.NewInProgressJob(owner, subject, "v1", fixedNow), nil
}

func (f *fakeVideos) CheckStatus(_ context.Context, owner, subject string) (videojob.StatusReport, error) {
	if f.statusErr != nil {
		return videojob.StatusReport{}, f.statusErr
	}
	return f.report, nil
}

func (f *fakeVideos) Cancel(_ context.Context, owner, subject string) (domain.VideoJob, error) {
	if f.cancelErr != nil {
		return domain.VideoJob{}, f.cancelErr
	}
	return domain.NewInProgressJob(owner, subject, "v1", fixedNow).Failed(domain.FailureCancelled, fixedNow), nil
}

func (f *fakeVideos) Record(_ context.Context, in videojob.RecordInput) (domain.VideoJob, error) {
	f.recorded = append(f.recorded, in)
	return domain.VideoJob{OwnerID: in.OwnerID, SubjectID: in.SubjectID, Phase: in.Phase}, nil
}

func (f *fakeVideos) List(_ context.Context, owner string) ([]domain.VideoJob, error) {
	var out []domain.VideoJob
	for _, j := range f.jobs {
		if j.OwnerID == owner {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeProvider struct {
	asked  []string
	status video.StatusResult
	err    error
}

func (f *fakeProvider) Submit(context.Context, string, string, string) (string, error) {
	return "", fmt.Errorf("not used")
}

func (f *fakeProvider) Status(_ context.Context, id string) (video.StatusResult, error) {
	f.asked = append(f.asked, id)
	return f.status, f.err
}

type fakeCatalog struct{}

func (fakeCatalog) ListAvatars(context.Context) ([]domain.Avatar, error) {
	return []domain.Avatar{{ID: "a1", Name: "Anna"}}, nil
}

func (fakeCatalog) ListVoices(context.Context) ([]domain.Voice, error) {
	return []domain.Voice{{ID: "v1", Name: "Warm", Language: "English"}}, nil
}

type fakeProfiles struct {
	byUser map[string]domain.Profile
}

func (f *fakeProfiles) Upsert(_ context.Context, p domain.Profile) (domain.Profile, error) {
	if f.byUser == nil {
		f.byUser = map[string]domain.Profile{}
	}
	f.byUser[p.UserID] = p
	return p, nil
}

func (f *fakeProfiles) Patch(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	cur, ok := f.byUser[p.UserID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	if p.Tone != "" {
		cur.Tone = p.Tone
	}
	return f.Upsert(ctx, cur)
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (domain.Profile, error) {
	p, ok := f.byUser[userID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

type fakeTopics struct {
	mu    sync.Mutex
	items map[string]domain.Topic
	seq   int
}

func (f *fakeTopics) Create(_ context.Context, userID, topic string, status domain.TopicStatus) (domain.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.items == nil {
		f.items = map[string]domain.Topic{}
	}
	f.seq++
	t := domain.Topic{ID: fmt.Sprintf("t%d", f.seq), UserID: userID, Topic: topic, Status: status}
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTopics) List(_ context.Context, userID string, statuses ...domain.TopicStatus) ([]domain.Topic, error) {
	var out []domain.Topic
	for _, t := range f.items {
		if t.UserID == userID && (len(statuses) == 0 || slices.Contains(statuses, t.Status)) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTopics) Get(_ context.Context, id, userID string) (domain.Topic, error) {
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return domain.Topic{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeTopics) UpdateStatus(ctx context.Context, id, userID string, status domain.TopicStatus) (domain.Topic, error) {
	t, err := f.Get(ctx, id, userID)
	if err != nil {
		return domain.Topic{}, err
	}
	t.Status = status
	f.items[id] = t
	return t, nil
}

func (f *fakeTopics) Improve(ctx context.Context, id, userID string, rw domain.TopicRewrite) (domain.Topic, bool, error) {
	t, err := f.Get(ctx, id, userID)
	if errors.Is(err, domain.ErrNotFound) || t.Improved() {
		return domain.Topic{}, false, nil
	}
	t.Topic = rw.Topic
	if rw.TargetAudience != "" {
		t.TargetAudience = &rw.TargetAudience
	}
	if rw.Tone != "" {
		t.Tone = &rw.Tone
	}
	at := fixedNow
	t.ImprovedAt = &at
	f.items[id] = t
	return t, true, nil
}

func (f *fakeTopics) CountByStatus(_ context.Context, userID string) (map[domain.TopicStatus]int, error) {
	out := map[domain.TopicStatus]int{}
	for _, t := range f.items {
		if t.UserID == userID {
			out[t.Status]++
		}
	}
	return out, nil
}

type fakeTemplates struct {
	mu    sync.Mutex
	items []domain.ContentTemplate
}

func (f *fakeTemplates) VideoScript(context.Context, string, string) (string, error) {
	return "", domain.ErrContentNotFound
}

func (f *fakeTemplates) Create(_ context.Context, t domain.ContentTemplate) (domain.ContentTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.ID = fmt.Sprintf("ct%d", len(f.items)+1)
	t.UpdatedAt = fixedNow
	f.items = append(f.items, t)
	return t, nil
}

func (f *fakeTemplates) List(_ context.Context, userID, topicID string) ([]domain.ContentTemplate, error) {
	var out []domain.ContentTemplate
	for _, t := range f.items {
		if t.UserID == userID && (topicID == "" || t.TopicID == topicID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTemplates) Get(_ context.Context, id, userID string) (domain.ContentTemplate, error) {
	for _, t := range f.items {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return domain.ContentTemplate{}, domain.ErrNotFound
}

func (f *fakeTemplates) Patch(_ context.Context, id, userID string, patch domain.TemplatePatch) (domain.ContentTemplate, error) {
	for i, t := range f.items {
		if t.ID == id && t.UserID == userID {
			if patch.Title != nil {
				t.Title = *patch.Title
			}
			if patch.Status != nil {
				t.Status = *patch.Status
			}
			f.items[i] = t
			return t, nil
		}
	}
	return domain.ContentTemplate{}, domain.ErrNotFound
}

type fakeSchedule struct {
	posts []domain.ScheduledPost
}

func (f *fakeSchedule) Create(_ context.Context, p domain.ScheduledPost) (domain.ScheduledPost, error) {
	p.ID = fmt.Sprintf("p%d", len(f.posts)+1)
	f.posts = append(f.posts, p)
	return p, nil
}

func (f *fakeSchedule) List(context.Context, string) ([]domain.ScheduledPost, error) {
	return f.posts, nil
}

func (f *fakeSchedule) Patch(_ context.Context, id, userID string, patch domain.PostPatch) (domain.ScheduledPost, error) {
	for i, p := range f.posts {
		if p.ID == id && p.UserID == userID {
			if patch.ScheduledAt != nil {
				p.ScheduledAt = *patch.ScheduledAt
			}
			f.posts[i] = p
			return p, nil
		}
	}
	return domain.ScheduledPost{}, domain.ErrNotFound
}

func (f *fakeSchedule) Delete(_ context.Context, id, userID string) error {
	for i, p := range f.posts {
		if p.ID == id && p.UserID == userID {
			f.posts = append(f.posts[:i], f.posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakePreferences struct {
	prefs map[string]domain.AIPreferences
}

func (f *fakePreferences) Get(_ context.Context, userID string) (domain.AIPreferences, error) {
	if p, ok := f.prefs[userID]; ok {
		return p, nil
	}
	return domain.AIPreferences{UserID: userID}, nil
}

func (f *fakePreferences) Upsert(_ context.Context, p domain.AIPreferences) (domain.AIPreferences, error) {
	if f.prefs == nil {
		f.prefs = map[string]domain.AIPreferences{}
	}
	f.prefs[p.UserID] = p
	return p, nil
}

type fakeStats struct{}

func (fakeStats) Summary(context.Context, string) (domain.StatsSummary, error) {
	return domain.StatsSummary{TopicsTotal: 4, VideosCompleted: 1}, nil
}

// failingGenerator fails one platform so fallback content is exercised.
type failingGenerator struct {
	content.StaticGenerator
	failPlatform domain.Platform
}

func (g *failingGenerator) Template(ctx context.Context, req content.TemplateRequest) (*content.Template, error) {
	if req.Platform == g.failPlatform {
		return nil, fmt.Errorf("model unavailable")
	}
	return g.StaticGenerator.Template(ctx, req)
}

type testDeps struct {
	videos    *fakeVideos
	provider  *fakeProvider
	profiles  *fakeProfiles
	topics    *fakeTopics
	templates *fakeTemplates
	schedule  *fakeSchedule
	prefs     *fakePreferences
}

func newTestApp(mutate ...func(*App)) (*App, *testDeps) {
	d := &testDeps{
		videos:    &fakeVideos{},
		provider:  &fakeProvider{},
		profiles:  &fakeProfiles{},
		topics:    &fakeTopics{},
		templates: &fakeTemplates{},
		schedule:  &fakeSchedule{},
		prefs:     &fakePreferences{},
	}
	base := App{
		Logger:      zerolog.Nop(),
		Videos:      d.videos,
		Provider:    d.provider,
		Catalog:     fakeCatalog{},
		Profiles:    d.profiles,
		Topics:      d.topics,
		Templates:   d.templates,
		Schedule:    d.schedule,
		Preferences: d.prefs,
		Stats:       fakeStats{},
		Now:         func() time.Time { return fixedNow },
	}
	for _, m := range mutate {
		m(&base)
	}
	return NewApp(base), d
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
