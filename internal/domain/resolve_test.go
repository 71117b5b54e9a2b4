package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	columns := []string{"번호", "발생시각", "규모", "위치", "위도", "경도"}
	suggested := NewClassifier(nil).Classify(columns)

	t.Run("suggestions become defaults", func(t *testing.T) {
		got, err := Resolve(columns, suggested, nil)
		require.NoError(t, err)
		assert.Equal(t, RoleMapping{
			RoleTime: "발생시각", RoleMagnitude: "규모", RoleRegion: "위치",
			RoleLatitude: "위도", RoleLongitude: "경도",
		}, got)
	})

	t.Run("override wins over suggestion", func(t *testing.T) {
		got, err := Resolve(columns, suggested, RoleMapping{RoleRegion: "번호", RoleLatitude: NoColumn})
		require.NoError(t, err)
		assert.Equal(t, "번호", got[RoleRegion])
		assert.Equal(t, NoColumn, got[RoleLatitude])
		assert.Equal(t, "규모", got[RoleMagnitude])
	})

	t.Run("empty override is ignored", func(t *testing.T) {
		got, err := Resolve(columns, suggested, RoleMapping{RoleTime: ""})
		require.NoError(t, err)
		assert.Equal(t, "발생시각", got[RoleTime])
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := Resolve(columns, suggested, RoleMapping{RoleMagnitude: "Mag"})
		require.ErrorIs(t, err, ErrUnknownColumn)
		assert.Contains(t, err.Error(), "magnitude")
	})

	t.Run("none for mandatory role", func(t *testing.T) {
		_, err := Resolve(columns, suggested, RoleMapping{RoleTime: NoColumn})
		require.ErrorIs(t, err, ErrRoleRequired)
	})
}

func TestResolve_Fallbacks(t *testing.T) {
	columns := []string{"a", "b", "c"}
	got, err := Resolve(columns, RoleMapping{}, nil)
	require.NoError(t, err)
	assert.Equal(t, RoleMapping{
		RoleTime: "a", RoleMagnitude: "a", RoleRegion: "a",
		RoleLatitude: NoColumn, RoleLongitude: NoColumn,
	}, got)
}

func TestResolve_NoColumns(t *testing.T) {
	_, err := Resolve(nil, nil, nil)
	require.ErrorIs(t, err, ErrNoColumns)
}

func TestChoices(t *testing.T) {
	columns := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b"}, Choices(columns, RoleTime))
	assert.Equal(t, []string{NoColumn, "a", "b"}, Choices(columns, RoleLongitude))

	// The returned slice must not alias the input.
	c := Choices(columns, RoleMagnitude)
	c[0] = "z"
	assert.Equal(t, "a", columns[0])
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("latitude")
	require.NoError(t, err)
	assert.Equal(t, RoleLatitude, r)
	assert.True(t, r.Optional())
	assert.False(t, RoleRegion.Optional())

	_, err = ParseRole("depth")
	require.Error(t, err)
}
