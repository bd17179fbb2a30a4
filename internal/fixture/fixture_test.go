package fixture_test

import (
	"testing"

	"github.com/fadilmartias/grant-portal/internal/fixture"
	"github.com/fadilmartias/grant-portal/internal/lifecycle"
	"github.com/fadilmartias/grant-portal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	data, err := fixture.Load()
	require.NoError(t, err)
	require.NotEmpty(t, data.Users)
	require.NotEmpty(t, data.Applications)

	for _, u := range data.Users {
		assert.NotEmpty(t, u.UID)
		assert.NotEmpty(t, u.Email)
		assert.NotEmpty(t, u.Password, "fixture user %s needs a password", u.UID)
		assert.True(t, u.Role.Valid(), u.UID)
		if u.Role == model.RoleCommittee {
			assert.True(t, model.ValidArea(u.Area), "committee member %s needs an area", u.UID)
		}
	}
	for _, a := range data.Applications {
		assert.True(t, lifecycle.ValidReference(a.Ref), a.Ref)
		assert.True(t, lifecycle.ValidStatus(a.Status), a.ID)
		assert.True(t, model.ValidArea(a.Area), a.ID)
	}
}

func TestProfilesStripPasswords(t *testing.T) {
	data, err := fixture.Parse([]byte(`
users:
  - uid: u1
    email: one@example.org
    displayName: One
    role: applicant
    password: secret
`))
	require.NoError(t, err)
	profiles := data.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "u1", profiles[0].UID)
	assert.Equal(t, model.RoleApplicant, profiles[0].Role)
}

func TestParseInvalid(t *testing.T) {
	_, err := fixture.Parse([]byte("users: [:"))
	assert.Error(t, err)
}
