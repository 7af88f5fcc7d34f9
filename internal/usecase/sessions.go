package usecase

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"FinSight/internal/domain/models"
)

// DefaultSessionID names the session used when a caller provides none.
const DefaultSessionID = "default"

// OrchestratorFactory builds a fresh pipeline instance for a session.
type OrchestratorFactory func(sessionID string, prior models.Distribution) *Orchestrator

// SessionRegistry keeps one Orchestrator per logical session.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Orchestrator
	factory  OrchestratorFactory
}

func NewSessionRegistry(factory OrchestratorFactory) *SessionRegistry {
	r := &SessionRegistry{
		sessions: make(map[string]*Orchestrator),
		factory:  factory,
	}
	r.sessions[DefaultSessionID] = factory(DefaultSessionID, models.PriorDistribution)
	return r
}

// Create starts a session. An empty prior means the standard prior;
// otherwise the labels must be exactly hold, buy and sell and the values
// are normalised.
func (r *SessionRegistry) Create(prior map[string]float64) (string, error) {
	start := models.PriorDistribution
	if len(prior) > 0 {
		d, err := models.DistributionFromMap(prior)
		if err != nil {
			return "", err
		}
		if d.Sum() == 0 {
			return "", fmt.Errorf("%w: prior sums to zero", models.ErrInvalidInput)
		}
		start = d.Normalized()
	}

	id := uuid.NewString()
	o := r.factory(id, start)

	r.mu.Lock()
	r.sessions[id] = o
	r.mu.Unlock()
	return id, nil
}

// Get returns the session's orchestrator; "" selects the default session.
func (r *SessionRegistry) Get(id string) (*Orchestrator, error) {
	if id == "" {
		id = DefaultSessionID
	}
	r.mu.RLock()
	o, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: session %q", models.ErrNotFound, id)
	}
	return o, nil
}

// Delete drops a session. The default session cannot be deleted.
func (r *SessionRegistry) Delete(id string) error {
	if id == "" || id == DefaultSessionID {
		return fmt.Errorf("%w: the default session cannot be deleted", models.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: session %q", models.ErrNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Len reports the number of live sessions, the default one included.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
