package postgres

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietRepo() *candidateRepo {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &candidateRepo{log: l}
}

func TestNormalizeTargetRole(t *testing.T) {
	r := quietRepo()

	cases := []struct {
		in   string
		want string
	}{
		{"student", "student"},
		{"supervisor", "supervisor"},
		{" Supervisor ", "supervisor"},
		{"STUDENT", "student"},
		{"", "student"},
		{"mentor", "student"},
		{"banana", "student"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, r.normalizeTargetRole(tc.in))
		})
	}
}

func TestScoreFromDistance(t *testing.T) {
	t.Run("similarity is one minus distance", func(t *testing.T) {
		d := 0.25
		s := scoreFromDistance(&d)
		require.NotNil(t, s)
		assert.InDelta(t, 0.75, *s, 1e-9)
	})

	t.Run("null distance stays null", func(t *testing.T) {
		assert.Nil(t, scoreFromDistance(nil))
	})

	t.Run("distance above one yields negative score", func(t *testing.T) {
		d := 1.4
		s := scoreFromDistance(&d)
		require.NotNil(t, s)
		assert.InDelta(t, -0.4, *s, 1e-9)
	})
}
