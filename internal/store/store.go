// Package store owns the single source of truth for session and inventory
// data visible to the presentation layer. All mutation goes through the
// closed transition vocabulary; no other code path may alter the state.
package store

import (
	"sync"
	"time"

	"github.com/Dnicola11/repuestos/internal/models"
)

// State is the application state snapshot.
type State struct {
	User              *models.User      `json:"user,omitempty"`
	Parts             []models.Part     `json:"parts"`
	Categories        []models.Category `json:"categories"`
	Loading           bool              `json:"loading"`
	LoadingParts      bool              `json:"loading_parts"`
	LoadingCategories bool              `json:"loading_categories"`
	Err               *string           `json:"error,omitempty"`
}

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Parts != nil {
		out.Parts = make([]models.Part, len(s.Parts))
		copy(out.Parts, s.Parts)
	}
	if s.Categories != nil {
		out.Categories = make([]models.Category, len(s.Categories))
		copy(out.Categories, s.Categories)
	}
	if s.Err != nil {
		e := *s.Err
		out.Err = &e
	}
	return out
}

// Store serializes all state mutation. Actions may overlap; within the store
// each Apply is atomic and last write wins.
type Store struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

// New returns an empty store: no user, empty collections, no error.
func New() *Store {
	return &Store{now: time.Now}
}

// Apply runs one transition against the current state.
func (s *Store) Apply(t Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, t, s.now)
}

// Snapshot returns a deep copy of the current state. Callers never alias the
// store's internal slices.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// CurrentUser returns a copy of the session subject, or nil when signed out.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// Parts returns a copy of the current part list.
func (s *Store) Parts() []models.Part {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Part, len(s.state.Parts))
	copy(out, s.state.Parts)
	return out
}

// Categories returns a copy of the current category list.
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, len(s.state.Categories))
	copy(out, s.state.Categories)
	return out
}

// PartByID looks up a part in the current list.
func (s *Store) PartByID(id string) (models.Part, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Parts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Part{}, false
}

// LastError returns the current error slot content, or "" when clear.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.Err == nil {
		return ""
	}
	return *s.state.Err
}

// reduce is a pure state-to-state function. Unrecognized transitions fall
// through to the default branch and leave the state unchanged.
func reduce(st State, t Transition, now func() time.Time) State {
	switch t := t.(type) {
	case SetLoading:
		st.Loading = t.Value
	case SetPartsLoading:
		st.LoadingParts = t.Value
	case SetCategoriesLoading:
		st.LoadingCategories = t.Value
	case SetUser:
		st.User = t.User
	case SetParts:
		parts := make([]models.Part, len(t.Parts))
		copy(parts, t.Parts)
		st.Parts = parts
	case SetCategories:
		categories := make([]models.Category, len(t.Categories))
		copy(categories, t.Categories)
		st.Categories = categories
	case AddPart:
		parts := make([]models.Part, len(st.Parts), len(st.Parts)+1)
		copy(parts, st.Parts)
		st.Parts = append(parts, t.Part)
	case AddCategory:
		categories := make([]models.Category, len(st.Categories), len(st.Categories)+1)
		copy(categories, st.Categories)
		st.Categories = append(categories, t.Category)
	case UpdatePart:
		parts := make([]models.Part, len(st.Parts))
		copy(parts, st.Parts)
		for i := range parts {
			if parts[i].ID == t.ID {
				t.Fields.ApplyTo(&parts[i])
				parts[i].UpdatedAt = now()
			}
		}
		st.Parts = parts
	case UpdateCategory:
		categories := make([]models.Category, len(st.Categories))
		copy(categories, st.Categories)
		for i := range categories {
			if categories[i].ID == t.ID {
				t.Fields.ApplyTo(&categories[i])
			}
		}
		st.Categories = categories
	case RemovePart:
		parts := make([]models.Part, 0, len(st.Parts))
		for _, p := range st.Parts {
			if p.ID != t.ID {
				parts = append(parts, p)
			}
		}
		st.Parts = parts
	case RemoveCategory:
		categories := make([]models.Category, 0, len(st.Categories))
		for _, c := range st.Categories {
			if c.ID != t.ID {
				categories = append(categories, c)
			}
		}
		st.Categories = categories
	case SetError:
		msg := t.Message
		st.Err = &msg
	case ClearError:
		st.Err = nil
	default:
		// Unknown transitions are a defensive no-op, not an error path.
	}
	return st
}
