package domain

// SessionEventKind identifies what happened to the stored credentials.
type SessionEventKind string

// Session event kinds.
const (
	// SessionWritten is published after login or any credentials write.
	SessionWritten SessionEventKind = "written"
	// SessionRefreshed is published after a successful token refresh.
	SessionRefreshed SessionEventKind = "refreshed"
	// SessionCleared is published after logout or a terminal refresh failure.
	SessionCleared SessionEventKind = "cleared"
)

// SessionEvent is broadcast whenever the credential store changes so that
// session-holding state stays consistent without polling.
type SessionEvent struct {
	Kind    SessionEventKind `json:"kind"`
	Access  string           `json:"access,omitempty"`
	Refresh string           `json:"refresh,omitempty"`
}

// Profile is the authenticated user's account info.
type Profile struct {
	ID      int64          `json:"id"`
	Email   string         `json:"email"`
	Details map[string]any `json:"profile,omitempty"`
}
