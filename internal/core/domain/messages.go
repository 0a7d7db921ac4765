package domain

// MessageKey is a stable identifier resolved to localized text only at the
// presentation boundary. The core never deals in rendered strings.
type MessageKey string

const (
	MsgLoginFailedEmail      MessageKey = "loginFailedEmail"
	MsgLoginFailedUsername   MessageKey = "loginFailedUsername"
	MsgLoginFailedAll        MessageKey = "loginFailedAll"
	MsgLoginAttemptsExceeded MessageKey = "loginAttemptsExceeded"
	MsgNotFoundUser          MessageKey = "notFoundUser"
	MsgInvalidUserBanned     MessageKey = "invalidUserBanned"
	MsgNotVerified           MessageKey = "notVerified"
	MsgInvalidEmail          MessageKey = "invalidEmail"
	MsgInvalidPassword       MessageKey = "invalidPassword"
	MsgInvalidUsername       MessageKey = "invalidUsername"
	MsgExistsAlreadyEmail    MessageKey = "existsAlreadyEmail"
	MsgExistsAlreadyUsername MessageKey = "existsAlreadyUsername"

	MsgInfoCreateSuccess MessageKey = "infoCreateSuccess"
	MsgInfoUpdateSuccess MessageKey = "infoUpdateSuccess"
	MsgInfoLoginSuccess  MessageKey = "infoLoginSuccess"
	MsgInfoLogoutSuccess MessageKey = "infoLogoutSuccess"
)
