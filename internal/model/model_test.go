package model

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2005-04-12")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2005-04-12"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Time().Equal(d.Time()))
	assert.Equal(t, time.April, back.Time().Month())

	assert.Error(t, json.Unmarshal([]byte(`"12/04/2005"`), &back))
	_, err = ParseDate("2005-02-30")
	assert.Error(t, err)
}

func TestPrincipalProfileID(t *testing.T) {
	acc := &Account{ID: 1}

	student := StudentPrincipal(acc, &Student{ID: 7})
	require.NotNil(t, student.ProfileID())
	assert.Equal(t, 7, *student.ProfileID())

	teacher := TeacherPrincipal(acc, &Teacher{ID: 9})
	require.NotNil(t, teacher.ProfileID())
	assert.Equal(t, 9, *teacher.ProfileID())

	assert.Nil(t, AdminPrincipal(acc).ProfileID())

	var none *Principal
	assert.Nil(t, none.ProfileID())
}

func TestAccountIsElevated(t *testing.T) {
	assert.False(t, (&Account{}).IsElevated())
	assert.True(t, (&Account{IsStaff: true}).IsElevated())
	assert.True(t, (&Account{IsSuperuser: true}).IsElevated())

	var none *Account
	assert.False(t, none.IsElevated())
}

func TestAccountHidesSecrets(t *testing.T) {
	b, err := json.Marshal(Account{Username: "alice", PasswordHash: "hash", IsStaff: true})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")
	assert.NotContains(t, string(b), "is_staff")
}

func TestPrincipalContext(t *testing.T) {
	assert.Nil(t, PrincipalFrom(context.Background()))

	p := AdminPrincipal(&Account{ID: 3})
	ctx := WithPrincipal(context.Background(), p)
	assert.Same(t, p, PrincipalFrom(ctx))
}
