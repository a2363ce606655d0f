package store

import "github.com/Dnicola11/repuestos/internal/models"

// Transition is one edge of the state machine. The set is closed: only the
// types in this file satisfy it, and the reducer ignores anything else.
// Transitions never perform I/O.
type Transition interface {
	isTransition()
}

// SetLoading toggles the general loading flag.
type SetLoading struct{ Value bool }

// SetPartsLoading toggles the parts-list loading flag.
type SetPartsLoading struct{ Value bool }

// SetCategoriesLoading toggles the category-list loading flag.
type SetCategoriesLoading struct{ Value bool }

// SetUser replaces the session subject. Nil means no active session.
type SetUser struct{ User *models.User }

// SetParts replaces the whole part list.
type SetParts struct{ Parts []models.Part }

// SetCategories replaces the whole category list.
type SetCategories struct{ Categories []models.Category }

// AddPart appends one part to the list.
type AddPart struct{ Part models.Part }

// AddCategory appends one category to the list.
type AddCategory struct{ Category models.Category }

// UpdatePart merges the given fields into the matching part and stamps its
// modification time to now. Parts with a different ID are untouched.
type UpdatePart struct {
	ID     string
	Fields models.PartUpdate
}

// UpdateCategory merges the given fields into the matching category. No
// timestamp is stamped: categories only carry a creation time.
type UpdateCategory struct {
	ID     string
	Fields models.CategoryUpdate
}

// RemovePart drops the matching part. A no-op when the ID is absent.
type RemovePart struct{ ID string }

// RemoveCategory drops the matching category. A no-op when the ID is absent.
type RemoveCategory struct{ ID string }

// SetError stores a user-facing message in the single error slot, overwriting
// whatever was there. Last error wins; there is no queue.
type SetError struct{ Message string }

// ClearError empties the error slot.
type ClearError struct{}

func (SetLoading) isTransition()           {}
func (SetPartsLoading) isTransition()      {}
func (SetCategoriesLoading) isTransition() {}
func (SetUser) isTransition()              {}
func (SetParts) isTransition()             {}
func (SetCategories) isTransition()        {}
func (AddPart) isTransition()              {}
func (AddCategory) isTransition()          {}
func (UpdatePart) isTransition()           {}
func (UpdateCategory) isTransition()       {}
func (RemovePart) isTransition()           {}
func (RemoveCategory) isTransition()       {}
func (SetError) isTransition()             {}
func (ClearError) isTransition()           {}
