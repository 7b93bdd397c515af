package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

type ContextKey string

const ActiveTournamentKey ContextKey = "activeTournament"

const activeTournamentSessionKey = "activeTournamentID"

// LoadActiveTournament puts the tournament remembered in the session, if
// any, into the request context. It must run inside sessionManager.LoadAndSave.
func LoadActiveTournament(sessionManager *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idStr := sessionManager.GetString(r.Context(), activeTournamentSessionKey)
			if idStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := uuid.Parse(idStr)
			if err != nil {
				sessionManager.Remove(r.Context(), activeTournamentSessionKey)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ActiveTournamentKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireActiveTournament sends requests without an active tournament to
// the tournament list.
func RequireActiveTournament(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetActiveTournamentID(r.Context()); !ok {
			http.Redirect(w, r, "/tournaments", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetActiveTournamentID(ctx context.Context) (uuid.UUID, bool) {
	val := ctx.Value(ActiveTournamentKey)
	if val == nil {
		return uuid.Nil, false
	}

	id, ok := val.(uuid.UUID)
	return id, ok
}

func SetActiveTournament(ctx context.Context, sessionManager *scs.SessionManager, id uuid.UUID) error {
	if err := sessionManager.RenewToken(ctx); err != nil {
		return err
	}
	sessionManager.Put(ctx, activeTournamentSessionKey, id.String())
	return nil
}

func ClearActiveTournament(ctx context.Context, sessionManager *scs.SessionManager) {
	sessionManager.Remove(ctx, activeTournamentSessionKey)
}
