package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityKind(t *testing.T) {
	cases := []struct {
		in   string
		want EntityKind
		ok   bool
	}{
		{"student", KindStudent, true},
		{"SUPERVISOR", KindSupervisor, true},
		{" topic ", KindTopic, true},
		{"Role", KindRole, true},
		{"course", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseEntityKind(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrUnknownEntityKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEntityIdentity(t *testing.T) {
	entities := []struct {
		e    Entity
		kind EntityKind
		id   int64
	}{
		{StudentRecord{UserID: 1}, KindStudent, 1},
		{SupervisorRecord{UserID: 2}, KindSupervisor, 2},
		{TopicRecord{TopicID: 3}, KindTopic, 3},
		{RoleRecord{RoleID: 4}, KindRole, 4},
	}
	for _, tc := range entities {
		assert.Equal(t, tc.kind, tc.e.Kind())
		assert.Equal(t, tc.id, tc.e.EntityID())
	}
}
