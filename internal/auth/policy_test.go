package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/taskvault/internal/model"
)

func TestSelfOrSuperuser(t *testing.T) {
	t.Parallel()

	alice := model.User{ID: 1}
	bob := model.User{ID: 2}
	admin := model.User{ID: 3, IsSuperuser: true}

	tests := []struct {
		name     string
		actor    model.User
		targetID uint64
		allowed  bool
	}{
		{"own resource", alice, 1, true},
		{"someone else's resource", alice, 2, false},
		{"superuser on own resource", admin, 3, true},
		{"superuser on any resource", admin, 1, true},
		{"regular user on superuser's resource", bob, 3, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := SelfOrSuperuser(tc.actor, tc.targetID)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestSuperuserOnly(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, SuperuserOnly(model.User{ID: 1}), ErrForbidden)
	require.NoError(t, SuperuserOnly(model.User{ID: 2, IsSuperuser: true}))
}
