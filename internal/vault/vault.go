// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vault holds one set of directory-source credentials in memory and
// enforces a time-boxed validity window. Credentials are never persisted;
// they live for the engine's lifetime at most.
package vault

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/company-research/pkg/types"
)

// Credential is one set of directory-source authentication material.
type Credential struct {
	Identity string
	Secret   string
	IssuedAt time.Time
}

// present reports whether all fields are populated.
func (c Credential) present() bool {
	return c.Identity != "" && c.Secret != "" && !c.IssuedAt.IsZero()
}

// Prompter obtains identity and secret from outside the engine (terminal
// prompt, secrets file). Implementations validate their own input.
type Prompter interface {
	Prompt(ctx context.Context) (identity, secret string, err error)
}

// Authenticator confirms a credential against the directory source. The
// directory client implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, identity, secret string) error
}

// Vault caches at most one authenticated credential. All methods are safe
// for concurrent use; acquisition is serialized so racing fetches never
// trigger two authentication prompts.
type Vault struct {
	ttl      time.Duration
	prompter Prompter
	auth     Authenticator
	log      *zap.Logger

	mu   chan struct{} // buffered-channel mutex; acquirable with ctx
	cred Credential

	// now is replaceable in tests.
	now func() time.Time
}

// New builds a Vault. A zero ttl falls back to 30 days.
func New(ttl time.Duration, prompter Prompter, auth Authenticator, log *zap.Logger) *Vault {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	v := &Vault{
		ttl:      ttl,
		prompter: prompter,
		auth:     auth,
		log:      log,
		mu:       make(chan struct{}, 1),
		now:      time.Now,
	}
	v.mu <- struct{}{}
	return v
}

// lock acquires the vault mutex, or fails when ctx is done first.
func (v *Vault) lock(ctx context.Context) error {
	select {
	case <-v.mu:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *Vault) unlock() { v.mu <- struct{}{} }

// IsValid reports whether the stored credential is complete and within its
// validity window. An expired credential is wiped as a side effect, so a
// false result guarantees no stale material remains readable.
func (v *Vault) IsValid() bool {
	<-v.mu
	defer v.unlock()
	return v.validLocked()
}

func (v *Vault) validLocked() bool {
	if !v.cred.present() {
		return false
	}
	if v.now().Sub(v.cred.IssuedAt) > v.ttl {
		v.log.Info("directory credential expired, clearing")
		v.cred = Credential{}
		return false
	}
	return true
}

// Acquire returns the cached credential when valid, otherwise obtains a
// fresh one: prompt, authenticate once against the directory, store on
// success with IssuedAt set to now. On authentication failure any partial
// state is cleared and AuthenticationFailed is returned. The vault mutex is
// held for the whole acquisition.
func (v *Vault) Acquire(ctx context.Context) (Credential, error) {
	if err := v.lock(ctx); err != nil {
		return Credential{}, types.NewError(types.KindCancelled, "credential acquisition interrupted", err)
	}
	defer v.unlock()

	if v.validLocked() {
		return v.cred, nil
	}

	identity, secret, err := v.prompter.Prompt(ctx)
	if err != nil {
		v.cred = Credential{}
		return Credential{}, types.NewError(types.KindAuthenticationFailed,
			"could not obtain directory credentials", err)
	}

	if err := v.auth.Authenticate(ctx, identity, secret); err != nil {
		v.cred = Credential{}
		v.log.Warn("directory authentication failed", zap.String("identity", identity))
		return Credential{}, types.NewError(types.KindAuthenticationFailed,
			fmt.Sprintf("directory rejected credentials for %s", identity), err)
	}

	v.cred = Credential{Identity: identity, Secret: secret, IssuedAt: v.now()}
	v.log.Info("directory credential validated", zap.Time("issued_at", v.cred.IssuedAt))
	return v.cred, nil
}

// Clear unconditionally wipes the stored credential. It is idempotent and
// is called on engine shutdown and after authentication failures.
func (v *Vault) Clear() {
	<-v.mu
	defer v.unlock()
	v.cred = Credential{}
}
