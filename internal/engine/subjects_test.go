package engine

import (
	"testing"

	"github.com/Veraticus/khru/internal/common"
	"github.com/Veraticus/khru/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndDeleteCustomSubject(t *testing.T) {
	e := newTestEngine()
	st := seeded(t, e)

	st, def, err := e.AddCustomSubject(st, true, testScope, "  ดนตรี ")
	require.NoError(t, err)
	assert.Equal(t, "ดนตรี", def.BaseName)
	assert.Equal(t, "CUSTOM_id1_1", def.ID)

	list := CombinedSubjectList(st, testScope)
	require.Len(t, list, 7)
	assert.Equal(t, def.ID, list[6].ID)

	st, err = e.InitializeSubjectData(st, testScope, def.ID)
	require.NoError(t, err)
	data, ok := st.Subject(testScope, def.ID)
	require.True(t, ok)
	assert.Equal(t, "ดนตรี 1", data.SubjectName)

	st, next, err := e.DeleteCustomSubject(st, true, testScope, def.ID, def.ID)
	require.NoError(t, err)
	assert.Equal(t, "S1", next)
	assert.Len(t, CombinedSubjectList(st, testScope), 6)
	_, ok = st.Subject(testScope, def.ID)
	assert.False(t, ok)
}

func TestAddCustomSubject_UniqueIDs(t *testing.T) {
	e := New()
	st := model.State{}
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		var def model.CustomSubjectDefinition
		var err error
		st, def, err = e.AddCustomSubject(st, true, testScope, "วิชาเลือก")
		require.NoError(t, err)
		require.False(t, seen[def.ID], "duplicate id %s", def.ID)
		seen[def.ID] = true
	}
	assert.Len(t, st.Custom(testScope), 50)
}

func TestAddCustomSubject_Rejects(t *testing.T) {
	e := newTestEngine()

	_, _, err := e.AddCustomSubject(model.State{}, true, testScope, "   ")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	_, _, err = e.AddCustomSubject(model.State{}, false, testScope, "ดนตรี")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestDeleteCustomSubject(t *testing.T) {
	e := newTestEngine()
	st, a, err := e.AddCustomSubject(model.State{}, true, testScope, "ดนตรี")
	require.NoError(t, err)
	st, b, err := e.AddCustomSubject(st, true, testScope, "ศิลปะ")
	require.NoError(t, err)

	t.Run("keeps selection when another subject is current", func(t *testing.T) {
		next, sel, err := e.DeleteCustomSubject(st, true, testScope, a.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, sel)
		require.Len(t, next.Custom(testScope), 1)
		assert.Equal(t, b.ID, next.Custom(testScope)[0].ID)
		assert.Len(t, st.Custom(testScope), 2, "previous snapshot untouched")
	})

	tests := []struct {
		wantErr error
		name    string
		id      string
		auth    bool
	}{
		{name: "built-in", id: "S3", auth: true, wantErr: common.ErrInvalidInput},
		{name: "unknown", id: "CUSTOM_nope", auth: true, wantErr: common.ErrNotFound},
		{name: "not authorized", id: a.ID, auth: false, wantErr: common.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, sel, err := e.DeleteCustomSubject(st, tt.auth, testScope, tt.id, "S2")
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, "S2", sel)
			assert.Equal(t, st, next)
		})
	}
}
