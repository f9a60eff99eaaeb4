package domain

// SessionState identifies which side of the cabinet menu is active.
type SessionState int

const (
	StateLoggedOut SessionState = iota
	StateLoggedIn
)

func (s SessionState) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Session tracks the active state and the currently selected account.
// Invariant: Current is non-nil exactly when State is StateLoggedIn; all
// mutation goes through LogIn and LogOut to preserve it.
type Session struct {
	State   SessionState
	Current *Account
}

// NewSession returns a session in the logged-out state.
func NewSession() *Session {
	return &Session{State: StateLoggedOut}
}

// LogIn transitions to the logged-in state carrying the authenticated account.
func (s *Session) LogIn(account *Account) {
	s.State = StateLoggedIn
	s.Current = account
}

// LogOut transitions to the logged-out state and clears the current account.
func (s *Session) LogOut() {
	s.State = StateLoggedOut
	s.Current = nil
}

// LoggedIn reports whether an account is currently selected.
func (s *Session) LoggedIn() bool {
	return s.State == StateLoggedIn
}
