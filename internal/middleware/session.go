package middleware

import (
	"net/http"

	"bumpbox-be/internal/auth"
	"bumpbox-be/internal/logger"
	"bumpbox-be/internal/utils"

	"go.uber.org/zap"
)

// Session resolves the caller's session from its token. A request with no
// token, or one that fails verification, starts a fresh session and the
// new token is returned in the X-Session-Token response header.
func Session(tm *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			minted := false
			if tokenStr := auth.ExtractSessionToken(r); tokenStr != "" {
				id, err := tm.Parse(tokenStr)
				if err != nil {
					logger.FromCtx(ctx).Info("session token rejected, starting new session",
						zap.String("layer", "middleware"),
						zap.Error(err),
					)
				}
				sessionID = id
			}

			if sessionID == "" {
				id, token, err := tm.NewSession()
				if err != nil {
					logger.FromCtx(ctx).Error("failed to issue session token", zap.Error(err))
					utils.WriteJSONError(w, "could not start session", http.StatusInternalServerError)
					return
				}
				sessionID = id
				minted = true
				w.Header().Set(auth.SessionTokenHeader, token)
			}

			ctx = utils.SetSessionContext(ctx, sessionID)
			if minted {
				ctx = utils.MarkNewSession(ctx)
			}
			ctx = logger.WithSessionID(ctx, sessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
