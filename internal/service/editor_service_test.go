package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystudio/internal/editor"
	"surveystudio/internal/model"
)

type fakeSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.Survey
	updates int
}

func newFakeSurveyRepo(surveys ...*model.Survey) *fakeSurveyRepo {
	r := &fakeSurveyRepo{surveys: make(map[string]*model.Survey)}
	for _, s := range surveys {
		r.surveys[s.ID] = s
	}
	return r
}

func (r *fakeSurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surveys[survey.ID] = survey
	return survey.ID, nil
}

func (r *fakeSurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surveys[id], nil
}

func (r *fakeSurveyRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.Survey, error) {
	return nil, nil
}

func (r *fakeSurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surveys[survey.ID] = survey
	r.updates++
	return nil
}

func (r *fakeSurveyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surveys, id)
	return nil
}

type fakeSurveyCache struct{}

func (fakeSurveyCache) Set(ctx context.Context, survey *model.Survey) error { return nil }
func (fakeSurveyCache) Get(ctx context.Context, id string) (*model.Survey, error) {
	return nil, nil
}
func (fakeSurveyCache) Delete(ctx context.Context, id string) error { return nil }

type fakeLockCache struct {
	mu      sync.Mutex
	holders map[string]string
}

func newFakeLockCache() *fakeLockCache {
	return &fakeLockCache{holders: make(map[string]string)}
}

func (c *fakeLockCache) Acquire(ctx context.Context, surveyID, sessionID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.holders[surveyID]; held {
		return false, nil
	}
	c.holders[surveyID] = sessionID
	return true, nil
}

func (c *fakeLockCache) Renew(ctx context.Context, surveyID, sessionID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holders[surveyID] == sessionID, nil
}

func (c *fakeLockCache) Release(ctx context.Context, surveyID, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holders[surveyID] == sessionID {
		delete(c.holders, surveyID)
	}
	return nil
}

func (c *fakeLockCache) Holder(ctx context.Context, surveyID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holders[surveyID], nil
}

type fakeBroadcaster struct {
	mu          sync.Mutex
	messages    []string
	disconnects []string
}

func (b *fakeBroadcaster) BroadcastToSurvey(surveyID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msgType)
}

func (b *fakeBroadcaster) DisconnectSurvey(surveyID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.disconnects = append(b.disconnects, surveyID)
}

func (b *fakeBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

func (b *fakeBroadcaster) disconnected() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.disconnects...)
}

func editorFixture(t *testing.T) (*EditorService, *fakeSurveyRepo, *fakeLockCache, *fakeBroadcaster) {
	t.Helper()
	repo := newFakeSurveyRepo(&model.Survey{
		ID:      "s1",
		OwnerID: "author_1",
		Name:    "Check-in",
		Type:    model.SurveyAssessLearner,
		Pages:   []model.Page{{Name: "Page 1"}},
	})
	locks := newFakeLockCache()
	broadcaster := &fakeBroadcaster{}
	surveys := NewSurveyService(repo, fakeSurveyCache{})
	svc := NewEditorService(surveys, locks, broadcaster, time.Minute)
	return svc, repo, locks, broadcaster
}

func TestEditorServiceOpenTakesLock(t *testing.T) {
	svc, _, locks, broadcaster := editorFixture(t)
	ctx := context.Background()

	session, err := svc.Open(ctx, "s1", "author_1")
	require.NoError(t, err)
	require.NotNil(t, session)

	holder, err := locks.Holder(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, holder)

	// opening again returns the same live session
	again, err := svc.Open(ctx, "s1", "author_1")
	require.NoError(t, err)
	assert.Same(t, session, again)

	require.NoError(t, svc.Close(ctx, "s1"))
	holder, err = locks.Holder(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, holder)

	// closing tells the watchers and drops their connections
	assert.Contains(t, broadcaster.types(), "session_closed")
	assert.Equal(t, []string{"s1"}, broadcaster.disconnected())
}

func TestEditorServiceOpenErrors(t *testing.T) {
	svc, _, locks, _ := editorFixture(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, "missing", "author_1")
	assert.ErrorIs(t, err, ErrSurveyNotFound)

	_, err = svc.Open(ctx, "s1", "author_2")
	assert.ErrorIs(t, err, ErrNotOwner)

	// a lock held by another process blocks the open
	locks.holders["s1"] = "someone-else"
	_, err = svc.Open(ctx, "s1", "author_1")
	assert.ErrorIs(t, err, ErrSurveyLocked)
}

func TestEditorServiceLockLostEvictsSession(t *testing.T) {
	repo := newFakeSurveyRepo(&model.Survey{
		ID:      "s1",
		OwnerID: "author_1",
		Type:    model.SurveyAssessLearner,
		Pages:   []model.Page{{Name: "Page 1"}},
	})
	locks := newFakeLockCache()
	broadcaster := &fakeBroadcaster{}
	svc := NewEditorService(NewSurveyService(repo, fakeSurveyCache{}), locks, broadcaster, 30*time.Millisecond)

	_, err := svc.Open(context.Background(), "s1", "author_1")
	require.NoError(t, err)

	// another process takes the lock after an expiry
	locks.mu.Lock()
	locks.holders["s1"] = "intruder"
	locks.mu.Unlock()

	require.Eventually(t, func() bool {
		for _, id := range broadcaster.disconnected() {
			if id == "s1" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, broadcaster.types(), "lock_lost")
	assert.ErrorIs(t, svc.Do("s1", func(*editor.Session) error { return nil }), ErrNoOpenSession)
}

func TestEditorServiceDoAndBroadcast(t *testing.T) {
	svc, _, _, broadcaster := editorFixture(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", "author_1")
	require.NoError(t, err)

	err = svc.Do("s1", func(s *editor.Session) error {
		_, err := s.AddElement(0, model.ElementTrueFalse)
		return err
	})
	require.NoError(t, err)

	assert.Contains(t, broadcaster.types(), "score_changed")

	assert.ErrorIs(t, svc.Do("other", func(*editor.Session) error { return nil }), ErrNoOpenSession)
}

func TestEditorServiceSavePersists(t *testing.T) {
	svc, repo, _, _ := editorFixture(t)
	ctx := context.Background()

	_, err := svc.Open(ctx, "s1", "author_1")
	require.NoError(t, err)

	require.NoError(t, svc.Do("s1", func(s *editor.Session) error {
		return s.SelectAttributes([]model.Attribute{model.AttributeKnowledge})
	}))
	require.NoError(t, svc.Save(ctx, "s1"))

	assert.Equal(t, 1, repo.updates)
	saved, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, saved.Scorer)
	assert.Len(t, saved.Scorer.TotalScorer.AttributeScorers, 1)

	assert.ErrorIs(t, svc.Save(ctx, "other"), ErrNoOpenSession)
}
