package domain

// Session attribute keys shared between the auth core and the transport
// layer. A session with SessionKeyLoggedIn set to "true" refers to an
// existing, non-deleted user via SessionKeyUserID, or it is cleared.
const (
	SessionKeyLoggedIn = "loggedIn"
	SessionKeyUserID   = "id"
	SessionKeyEmail    = "email"
	SessionKeyUsername = "username"
)
