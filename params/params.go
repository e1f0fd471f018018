package params

import "time"

const (
	ServerBodyLimit    = 1048576 // 1 MiB
	ServerIdleTimeout  = 30 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 10 * time.Second

	HealthCheckServerAddr = ":3001" // health check server address

	SessionTimeout       = 15 * time.Minute        // inactivity duration after which a session expires
	SessionWarningLead   = 2 * time.Minute         // how long before expiry the idle monitor warns the user
	SessionCheckInterval = 30 * time.Second        // idle monitor poll interval
	SessionLogoutGrace   = 2 * time.Second         // delay between the idle-logout notice and the logout call
	ActivityWriteWindow  = 5 * time.Minute         // minimum gap between persisted last-activity updates
	SlowQueryThreshold   = 1000 * time.Millisecond // queries slower than this are audited
	SessionCookieMaxAge  = 7 * 24 * time.Hour      // session cookie lifetime; liveness is enforced separately
)
