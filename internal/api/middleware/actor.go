package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	actorIDKey    contextKey = "actorID"
	actorEmailKey contextKey = "actorEmail"
)

// Actor extracts the authenticated caller's identity from the X-Actor-ID
// and X-Actor-Email headers set by the upstream auth layer. This service
// does not validate sessions itself; it only requires a well-formed actor.
func Actor(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get("X-Actor-ID")
			if rawID == "" {
				http.Error(w, "Actor identity required", http.StatusUnauthorized)
				return
			}

			actorID, err := uuid.Parse(rawID)
			if err != nil {
				log.WithField("actorId", rawID).Warn("malformed actor id header")
				http.Error(w, "Invalid actor ID", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), actorIDKey, actorID)
			ctx = context.WithValue(ctx, actorEmailKey, r.Header.Get("X-Actor-Email"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetActorID(ctx context.Context) (uuid.UUID, bool) {
	actorID, ok := ctx.Value(actorIDKey).(uuid.UUID)
	return actorID, ok
}

func GetActorEmail(ctx context.Context) string {
	email, _ := ctx.Value(actorEmailKey).(string)
	return email
}
