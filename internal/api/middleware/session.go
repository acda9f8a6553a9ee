package middleware

import (
	"log/slog"
	"net/http"

	"github.com/autoscheduler/autoscheduler/internal/api/shared"
	"github.com/autoscheduler/autoscheduler/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionCookieName is the name of the signed session cookie.
const SessionCookieName = "autoscheduler_session"

// NewSessionMiddleware loads the caller's cookie session, assigns a session
// ID on first visit and stores the session in the request context. A
// cookie that fails verification is replaced by a fresh session.
func NewSessionMiddleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContextOrDefault(r.Context(), slog.Default())

			sess, err := store.Get(r, SessionCookieName)
			if err != nil {
				log.Debug("discarding unreadable session cookie", slog.Any("error", err))
			}

			if id, _ := sess.Values[shared.SessionIDValue].(string); id == "" {
				sess.Values[shared.SessionIDValue] = uuid.NewString()
				if err := sess.Save(r, w); err != nil {
					shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
						"Failed to start session", err)
					return
				}
			}

			sessionID, _ := sess.Values[shared.SessionIDValue].(string)
			ctx := shared.WithSession(r.Context(), sess)
			ctx = logger.WithLogger(ctx, log.With(slog.String("session_id", sessionID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewCookieStore builds the signed cookie store used for sessions.
func NewCookieStore(secret []byte, maxAge int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(maxAge)
	return store
}
