package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"surveystudio/internal/cache"
	"surveystudio/internal/editor"
)

var (
	ErrSurveyNotFound = errors.New("survey not found")
	ErrNotOwner       = errors.New("survey belongs to another author")
	ErrSurveyLocked   = errors.New("survey is being edited in another session")
	ErrNoOpenSession  = errors.New("no open editing session for that survey")
)

// EditorService manages open editing sessions. Each open survey holds a
// Redis edit lock for as long as its session lives; the lock is renewed in
// the background and the session is torn down if renewal ever fails.
type EditorService struct {
	surveys     *SurveyService
	locks       cache.LockCache
	broadcaster Broadcaster
	lockTTL     time.Duration

	mu   sync.Mutex
	open map[string]*openSession // keyed by survey id
}

type openSession struct {
	id       string // lock holder id
	surveyID string
	session  *editor.Session

	mu        sync.Mutex
	stopRenew chan struct{}
}

// NewEditorService creates a new editor service
func NewEditorService(surveys *SurveyService, locks cache.LockCache, broadcaster Broadcaster, lockTTL time.Duration) *EditorService {
	return &EditorService{
		surveys:     surveys,
		locks:       locks,
		broadcaster: broadcaster,
		lockTTL:     lockTTL,
		open:        make(map[string]*openSession),
	}
}

// Open loads a survey into a new editing session and takes its edit lock.
// Opening a survey that this service already has open returns the existing
// session.
func (s *EditorService) Open(ctx context.Context, surveyID, authorID string) (*editor.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if os, ok := s.open[surveyID]; ok {
		return os.session, nil
	}

	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	if survey.OwnerID != "" && survey.OwnerID != authorID {
		return nil, ErrNotOwner
	}

	holderID := uuid.New().String()
	acquired, err := s.locks.Acquire(ctx, surveyID, holderID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSurveyLocked
	}

	session, err := editor.NewSession(survey)
	if err != nil {
		if relErr := s.locks.Release(context.Background(), surveyID, holderID); relErr != nil {
			log.Printf("release edit lock %s: %v", surveyID, relErr)
		}
		return nil, err
	}

	os := &openSession{
		id:        holderID,
		surveyID:  surveyID,
		session:   session,
		stopRenew: make(chan struct{}),
	}
	session.Events().OnScoreChanged(func() {
		s.broadcaster.BroadcastToSurvey(surveyID, "score_changed", session.Totals())
	})
	session.Events().OnScrollTo(func(elementID string) {
		s.broadcaster.BroadcastToSurvey(surveyID, "scroll_to_element", map[string]string{"elementId": elementID})
	})
	s.open[surveyID] = os

	go s.renewLoop(os)
	return session, nil
}

// Do runs one authoring operation against an open session. Operations on
// the same survey are serialized.
func (s *EditorService) Do(surveyID string, fn func(*editor.Session) error) error {
	s.mu.Lock()
	os, ok := s.open[surveyID]
	s.mu.Unlock()
	if !ok {
		return ErrNoOpenSession
	}

	os.mu.Lock()
	defer os.mu.Unlock()
	return fn(os.session)
}

// Save persists the session's survey. Incomplete scoring conditions are
// dropped from the saved document but stay live in the session.
func (s *EditorService) Save(ctx context.Context, surveyID string) error {
	s.mu.Lock()
	os, ok := s.open[surveyID]
	s.mu.Unlock()
	if !ok {
		return ErrNoOpenSession
	}

	os.mu.Lock()
	survey := os.session.Save()
	os.mu.Unlock()
	return s.surveys.Update(ctx, survey)
}

// Close tears down an open session and releases its edit lock.
func (s *EditorService) Close(ctx context.Context, surveyID string) error {
	s.mu.Lock()
	os, ok := s.open[surveyID]
	if ok {
		delete(s.open, surveyID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNoOpenSession
	}

	close(os.stopRenew)
	if err := s.locks.Release(ctx, surveyID, os.id); err != nil {
		log.Printf("release edit lock %s: %v", surveyID, err)
	}
	s.broadcaster.BroadcastToSurvey(surveyID, "session_closed", nil)
	s.broadcaster.DisconnectSurvey(surveyID)
	return nil
}

// Shutdown closes every open session.
func (s *EditorService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.open))
	for id := range s.open {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		if err := s.Close(ctx, id); err != nil {
			log.Printf("close session %s: %v", id, err)
		}
	}
}

func (s *EditorService) renewLoop(os *openSession) {
	ticker := time.NewTicker(s.lockTTL / 3)
	defer ticker.Stop()

	for {
		select {
		case <-os.stopRenew:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			renewed, err := s.locks.Renew(ctx, os.surveyID, os.id, s.lockTTL)
			cancel()
			if err != nil {
				log.Printf("renew edit lock %s: %v", os.surveyID, err)
				continue
			}
			if !renewed {
				// someone else took the lock after an expiry
				log.Printf("edit lock lost for survey %s", os.surveyID)
				s.broadcaster.BroadcastToSurvey(os.surveyID, "lock_lost", nil)
				s.mu.Lock()
				if cur, ok := s.open[os.surveyID]; ok && cur == os {
					delete(s.open, os.surveyID)
				}
				s.mu.Unlock()
				s.broadcaster.DisconnectSurvey(os.surveyID)
				return
			}
		}
	}
}
