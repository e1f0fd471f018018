package web

const (
	MsgInvalidRequest        = "Invalid request. Please try again."
	MsgLoginWrongCredentials = "Invalid username or password."
	MsgLoginUserDisabled     = "This account has been disabled."
	MsgSessionExpiredFlash   = "Session expired due to inactivity. Please login again."
	MsgLoggedOutFlash        = "You have been logged out."
	MsgCodeTaken             = "That code is already in use."
	MsgPeriodReported        = "A report for that period has already been filed."
)

// mapFlash resolves a flash code carried on the login redirect into its
// human-readable message. Unknown codes render nothing.
func mapFlash(code string) string {
	switch code {
	case "session_expired":
		return MsgSessionExpiredFlash
	case "logged_out":
		return MsgLoggedOutFlash
	default:
		return ""
	}
}
