package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	profiles := NewBuilder(t).
		WithFixture(FixtureSmallClass).
		InClass("ป.2").
		AtSchool("โรงเรียนวัดใหม่").
		WithStudent("มานี", "มีตา").
		Build()

	require.Len(t, profiles, 4)
	assert.Equal(t, "1100000000001", profiles[0].ID)
	assert.Equal(t, profiles[0].ID, profiles[0].NationalID)
	assert.Equal(t, "10001", profiles[0].StudentSchoolID)
	assert.Equal(t, "เด็กชายปิติ พากเพียร", profiles[0].FullName)
	assert.Equal(t, "ป.1", profiles[2].ClassName)
	assert.Equal(t, DefaultSchool, profiles[2].SchoolName)

	last := profiles[3]
	assert.Equal(t, "1100000000004", last.ID)
	assert.Equal(t, "ป.2", last.ClassName)
	assert.Equal(t, "โรงเรียนวัดใหม่", last.SchoolName)
	assert.Equal(t, "มานี มีตา", last.FullName)
}

func TestBuilder_BuildCopies(t *testing.T) {
	b := NewBuilder(t).WithStudent("มานี", "มีตา")
	first := b.Build()
	first[0].FirstName = "changed"
	assert.Equal(t, "มานี", b.Build()[0].FirstName)
}
