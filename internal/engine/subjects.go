package engine

import (
	"slices"
	"strings"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
)

type subjectName struct {
	Name string `json:"name" validate:"required"`
}

// AddCustomSubject appends a custom subject to the year and class. The caller
// selects the returned subject as current.
func (e *Engine) AddCustomSubject(st model.State, authorized bool, scope model.Scope, name string) (model.State, model.CustomSubjectDefinition, error) {
	if err := authorize(authorized, "add subject"); err != nil {
		return st, model.CustomSubjectDefinition{}, err
	}

	name = strings.TrimSpace(name)
	if err := e.check(subjectName{Name: name}); err != nil {
		return st, model.CustomSubjectDefinition{}, err
	}

	def := model.CustomSubjectDefinition{
		ID:       "CUSTOM_" + e.newID() + "_" + model.ClassNumber(scope.Class),
		BaseName: name,
	}
	custom := append(slices.Clone(st.Custom(scope)), def)
	return st.WithCustom(scope, custom), def, nil
}

// DeleteCustomSubject removes a custom subject and its score sheet. It returns the
// subject to select next: current, or the first built-in subject when current was
// the one deleted.
func (e *Engine) DeleteCustomSubject(st model.State, authorized bool, scope model.Scope, subjectID, current string) (model.State, string, error) {
	if err := authorize(authorized, "delete subject"); err != nil {
		return st, current, err
	}
	if model.IsBuiltinSubject(subjectID) {
		return st, current, common.Invalidf("built-in subject %s cannot be deleted", subjectID)
	}

	custom := st.Custom(scope)
	idx := slices.IndexFunc(custom, func(c model.CustomSubjectDefinition) bool { return c.ID == subjectID })
	if idx < 0 {
		return st, current, common.NotFoundf("custom subject %s in %s %s", subjectID, scope.Class, scope.Year)
	}

	st = st.WithCustom(scope, slices.Delete(slices.Clone(custom), idx, idx+1))
	st = st.WithoutSubject(scope, subjectID)

	next := current
	if current == subjectID {
		next = model.DefaultSubjectID
	}
	return st, next, nil
}
