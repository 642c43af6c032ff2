package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rogerio-castellano/admin-console/internal/auth"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/rs/zerolog"
)

// PlaceholderToken is stored when no token issuer is configured. Only its
// presence is ever checked.
const PlaceholderToken = "fake-jwt-token"

// Authenticator looks up the active users matching a credential pair.
type Authenticator interface {
	Login(ctx context.Context, username, password string) ([]models.User, error)
}

// State is the observable session state.
type State struct {
	LoggedIn    bool
	CurrentUser *models.User
}

// Options configure every Store opened with them.
type Options struct {
	Users Authenticator
	// Tokens signs the stored token. Nil stores PlaceholderToken.
	Tokens *auth.TokenIssuer
	// VerifyToken makes rehydration discard sessions whose token does not
	// parse. Off by default: presence of the stored user is enough.
	VerifyToken bool
	Logger      zerolog.Logger
}

// Store is the single writer of one session's state.
type Store struct {
	opts    Options
	storage Storage
	log     zerolog.Logger

	mu      sync.RWMutex
	state   State
	subs    map[int]chan State
	nextSub int
}

// Open builds a Store and rehydrates it from storage.
func Open(ctx context.Context, storage Storage, opts Options) (*Store, error) {
	s := &Store{
		opts:    opts,
		storage: storage,
		log:     opts.Logger,
		subs:    map[int]chan State{},
	}
	if err := s.rehydrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// rehydrate restores state: a stored user means logged in, whatever the
// token holds; without a user the flag follows the token's presence.
func (s *Store) rehydrate(ctx context.Context) error {
	token, hasToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("reading session token: %w", err)
	}
	raw, hasUser, err := s.storage.Get(ctx, KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("reading current user: %w", err)
	}

	state := State{LoggedIn: hasToken}
	if hasUser {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			s.log.Warn().Err(err).Msg("discarding unreadable stored user")
		} else {
			state.CurrentUser = &user
			state.LoggedIn = true
		}
	}

	if state.LoggedIn && s.opts.VerifyToken && !s.tokenValid(token, hasToken) {
		s.log.Info().Msg("stored session token rejected")
		if err := s.storage.Delete(ctx, KeyCurrentUser, KeyToken); err != nil {
			return fmt.Errorf("clearing rejected session: %w", err)
		}
		state = State{}
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return nil
}

func (s *Store) tokenValid(token string, present bool) bool {
	if !present || s.opts.Tokens == nil {
		return false
	}
	_, err := s.opts.Tokens.Parse(token)
	return err == nil
}

// Login authenticates against the user resource. Exactly one match logs the
// user in; no match, several matches or a backend failure return false and
// leave the state untouched.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	users, err := s.opts.Users.Login(ctx, username, password)
	if err != nil {
		s.log.Error().Err(err).Str("username", username).Msg("login lookup failed")
		return false
	}
	if len(users) != 1 {
		s.log.Info().Str("username", username).Int("matches", len(users)).Msg("login rejected")
		return false
	}

	user := users[0]
	user.Password = ""

	token := PlaceholderToken
	if s.opts.Tokens != nil {
		token, err = s.opts.Tokens.Issue(user)
		if err != nil {
			s.log.Error().Err(err).Msg("issuing session token")
			return false
		}
	}

	data, err := json.Marshal(user)
	if err != nil {
		s.log.Error().Err(err).Msg("encoding current user")
		return false
	}
	if err := s.storage.Set(ctx, KeyCurrentUser, string(data)); err != nil {
		s.log.Error().Err(err).Msg("persisting current user")
		return false
	}
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		s.log.Error().Err(err).Msg("persisting session token")
		_ = s.storage.Delete(ctx, KeyCurrentUser)
		return false
	}

	s.publish(State{LoggedIn: true, CurrentUser: &user})
	s.log.Info().Str("username", user.Username).Msg("user logged in")
	return true
}

// Logout clears the persisted keys and the in-memory state. The state is
// cleared even when the storage fails; the error is returned for logging.
func (s *Store) Logout(ctx context.Context) error {
	err := s.storage.Delete(ctx, KeyCurrentUser, KeyToken)
	s.publish(State{})
	if err != nil {
		return fmt.Errorf("clearing session storage: %w", err)
	}
	return nil
}

// LoggedIn is the last-known flag. It never touches storage or the backend.
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LoggedIn
}

// CurrentUser returns a copy of the current user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.state.CurrentUser)
}

// IsAdmin reports whether the current user is the hardcoded administrator.
func (s *Store) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.IsAdmin()
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{LoggedIn: s.state.LoggedIn, CurrentUser: copyUser(s.state.CurrentUser)}
}

// Subscribe returns a channel that first yields the current state and then
// every later change. Slow subscribers only see the latest value.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- State{LoggedIn: s.state.LoggedIn, CurrentUser: copyUser(s.state.CurrentUser)}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) watched() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs) > 0
}

func (s *Store) publish(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- State{LoggedIn: state.LoggedIn, CurrentUser: copyUser(state.CurrentUser)}
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Activo != nil {
		c.Activo = models.Bool(*u.Activo)
	}
	return &c
}
