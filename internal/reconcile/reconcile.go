// Package reconcile merges the remote snapshot, the local cache snapshot,
// and a freshly-initialized default into exactly one authoritative state at
// sign-in. The decision of whether that result must be pushed back to the
// remote store is part of the output; performing the push is the session
// controller's job.
package reconcile

import (
	"strings"
	"time"

	"ethos/internal/userstate"
	"ethos/internal/userstate/store"
	id "ethos/pkg/domain"
)

// Identity is what the identity provider supplies at sign-in.
type Identity struct {
	UID         id.UserID
	Email       string
	DisplayName string
}

// Source records which input won the reconciliation, mostly for logging.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Result is the authoritative state plus follow-up instructions.
type Result struct {
	State userstate.State

	// PushRemote is set when the winning source was not the remote store:
	// a local-only state migrating up, or a brand-new default that needs
	// its first remote row.
	PushRemote bool

	// MirrorLocal is set when the local cache must be overwritten with the
	// result so it becomes a mirror, not a source.
	MirrorLocal bool

	Source Source
}

// Reconcile resolves the three inputs in priority order: a non-trivial
// remote snapshot wins outright; else the local cache snapshot wins and is
// migrated upward; else a zeroed default is created. Either snapshot may be
// nil. Inputs are assumed to have passed the userstate normalization
// boundary already.
func Reconcile(remote *store.Snapshot, local *userstate.State, ident Identity, now time.Time) Result {
	if remote != nil && remote.State.NonTrivial() {
		state := remote.State.Clone()
		state.Auth = remoteAuth(&state, remote, ident)
		return Result{State: state, MirrorLocal: true, Source: SourceRemote}
	}

	if local != nil {
		state := local.Clone()
		state.Auth = rebindAuth(&state, ident)
		return Result{State: state, PushRemote: true, MirrorLocal: true, Source: SourceLocal}
	}

	state := userstate.NewDefault(userstate.AuthData{
		UID:    ident.UID,
		Email:  ident.Email,
		Name:   fallbackName("", ident),
		Avatar: "⚡",
	}, now)
	return Result{State: state, PushRemote: true, MirrorLocal: true, Source: SourceDefault}
}

// remoteAuth derives the auth block when remote wins: uid and email always
// come from the identity provider; display name and avatar prefer the
// remote-stored values, then provider values, then the email local-part.
func remoteAuth(state *userstate.State, remote *store.Snapshot, ident Identity) *userstate.AuthData {
	name := remote.DisplayName
	if name == "" && state.Auth != nil {
		name = state.Auth.Name
	}
	name = fallbackName(name, ident)

	avatar := remote.Avatar
	if avatar == "" && state.Auth != nil {
		avatar = state.Auth.Avatar
	}
	if avatar == "" {
		avatar = "👤"
	}

	return &userstate.AuthData{
		UID:    ident.UID,
		Email:  ident.Email,
		Name:   name,
		Avatar: avatar,
		Level:  state.Level,
		XP:     state.XP,
		Tier:   state.Tier,
	}
}

// rebindAuth attaches the current identity-provider session to a state that
// originated in the local cache.
func rebindAuth(state *userstate.State, ident Identity) *userstate.AuthData {
	name := ident.DisplayName
	avatar := ""
	if state.Auth != nil {
		if name == "" {
			name = state.Auth.Name
		}
		avatar = state.Auth.Avatar
	}
	name = fallbackName(name, ident)

	return &userstate.AuthData{
		UID:    ident.UID,
		Email:  ident.Email,
		Name:   name,
		Avatar: avatar,
		Level:  state.Level,
		XP:     state.XP,
		Tier:   state.Tier,
	}
}

// fallbackName prefers the given name, then the provider display name, then
// the email local-part.
func fallbackName(name string, ident Identity) string {
	if name != "" {
		return name
	}
	if ident.DisplayName != "" {
		return ident.DisplayName
	}
	if at := strings.Index(ident.Email, "@"); at > 0 {
		return ident.Email[:at]
	}
	return ident.Email
}
