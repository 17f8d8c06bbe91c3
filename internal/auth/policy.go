package auth

import "github.com/iliyamo/taskvault/internal/model"

// Authorization policy for account-scoped resources.  Callers resolve
// the actor and the target first, so lookup failures surface as
// not-found before any policy decision is made; only then does a denial
// become ErrForbidden.

// SelfOrSuperuser allows an actor to act on its own account or, with the
// superuser flag, on any account.
func SelfOrSuperuser(actor model.User, targetID uint64) error {
	if actor.ID == targetID || actor.IsSuperuser {
		return nil
	}
	return ErrForbidden
}

// SuperuserOnly allows only actors holding the superuser flag.
func SuperuserOnly(actor model.User) error {
	if actor.IsSuperuser {
		return nil
	}
	return ErrForbidden
}
