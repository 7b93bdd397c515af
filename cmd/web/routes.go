package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/AdamBeresnev/swiss-chess/internal/httputil"
	"github.com/AdamBeresnev/swiss-chess/internal/metrics"
	"github.com/AdamBeresnev/swiss-chess/internal/middleware"
	"github.com/AdamBeresnev/swiss-chess/internal/service"
	"github.com/AdamBeresnev/swiss-chess/internal/swiss"
	"github.com/AdamBeresnev/swiss-chess/internal/utils"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// playerRequest carries an optional TournamentID that enrols a new player
// straight away.
type playerRequest struct {
	FamilyName   string `json:"family_name"`
	FirstName    string `json:"first_name"`
	BirthDate    string `json:"birthdate"`
	Sex          int    `json:"sex"`
	Elo          int    `json:"elo"`
	TournamentID string `json:"tournament_id"`
}

type tournamentRequest struct {
	Name        string   `json:"name"`
	Place       string   `json:"place"`
	Dates       []string `json:"dates"`
	TimeControl string   `json:"time_control"`
	NbRounds    *int     `json:"nb_rounds"`
	Description string   `json:"description"`
}

type registrationRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

type scoreRequest struct {
	Score1 int `json:"score1"`
	Score2 int `json:"score2"`
}

func newRouter(manager *service.Manager, sessionManager *scs.SessionManager, metricsManager *metrics.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadActiveTournament(sessionManager))

	r.Handle("/metrics", metricsManager.Handler())

	r.Get("/players", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("sort") {
		case "name":
			httputil.WriteJSON(w, http.StatusOK, manager.PlayersByName())
		case "elo":
			httputil.WriteJSON(w, http.StatusOK, manager.PlayersByElo())
		case "":
			httputil.WriteJSON(w, http.StatusOK, manager.Players())
		default:
			httputil.BadRequest(w, "Sort must be name or elo", nil)
		}
	})

	r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, "Invalid player", err)
			return
		}
		birthDate, err := swiss.ParseDate(req.BirthDate)
		if err != nil {
			httputil.BadRequest(w, "Birth date must be DD/MM/YYYY or DD/MM/YY", err)
			return
		}

		var enrolIn *uuid.UUID
		if idStr := utils.TrimmedOrNil(req.TournamentID); idStr != nil {
			id, err := uuid.Parse(*idStr)
			if err != nil {
				httputil.BadRequest(w, "Invalid tournament ID", err)
				return
			}
			enrolIn = &id
		}

		player, err := manager.CreatePlayer(service.PlayerInput{
			FamilyName: req.FamilyName,
			FirstName:  req.FirstName,
			BirthDate:  birthDate,
			Sex:        swiss.SexFromIndex(req.Sex),
			Elo:        req.Elo,
		}, enrolIn)
		if err != nil {
			respondError(w, "Failed to create player", err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, player)
	})

	r.Get("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}
		player, err := manager.Player(id)
		if err != nil {
			respondError(w, "Failed to get player", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, player)
	})

	r.Put("/players/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := uuidParam(w, r, "id")
		if !ok {
			return
		}
		var req playerRequest
		if err := httputil.DecodeJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, "Invalid player", err)
			return
		}

		player, err := manager.UpdatePlayer(id, service.PlayerInput{
			FamilyName: req.FamilyName,
			FirstName:  req.FirstName,
			Sex:        swiss.SexFromIndex(req.Sex),
			Elo:        req.Elo,
		})
		if err != nil {
			respondError(w, "Failed to update player", err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, player)
	})

	r.Route("/tournaments", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			httputil.WriteJSON(w, http.StatusOK, manager.Tournaments())
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req tournamentRequest
			if err := httputil.DecodeJSON(w, r, &req); err != nil {
				httputil.BadRequest(w, "Invalid tournament", err)
				return
			}
			dates := make([]time.Time, 0, len(req.Dates))
			for _, s := range req.Dates {
				d, err := swiss.ParseDate(s)
				if err != nil {
					httputil.BadRequest(w, "Dates must be DD/MM/YYYY or DD/MM/YY", err)
					return
				}
				dates = append(dates, d)
			}

			tournament, err := manager.CreateTournament(service.TournamentInput{
				Name:        req.Name,
				Place:       req.Place,
				Dates:       dates,
				TimeControl: swiss.ParseTimeControl(req.TimeControl),
				MaxRounds:   utils.OrZero(req.NbRounds),
				Description: req.Description,
			})
			if err != nil {
				respondError(w, "Failed to create tournament", err)
				return
			}
			httputil.WriteJSON(w, http.StatusCreated, tournament)
		})

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				tournament, err := manager.Tournament(id)
				if err != nil {
					respondError(w, "Failed to get tournament", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, tournament)
			})

			r.Get("/available-players", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				players, err := manager.AvailablePlayers(id)
				if err != nil {
					respondError(w, "Failed to list available players", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, players)
			})

			r.Post("/players", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				var req registrationRequest
				if err := httputil.DecodeJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, "Invalid registration", err)
					return
				}
				if err := manager.RegisterPlayer(id, req.PlayerID); err != nil {
					respondError(w, "Failed to register player", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Get("/standings", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				standings, err := manager.Standings(id)
				if err != nil {
					respondError(w, "Failed to get standings", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, standings)
			})

			r.Post("/rounds", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				round, err := manager.LaunchNewRound(id)
				if err != nil {
					respondError(w, "Failed to launch round", err)
					return
				}
				httputil.WriteJSON(w, http.StatusCreated, round)
			})

			r.Get("/rounds/current", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				round, err := manager.CurrentRound(id)
				if err != nil {
					respondError(w, "Failed to get current round", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, round)
			})

			r.Post("/rounds/current/matches/{n}/score", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				n, err := strconv.Atoi(chi.URLParam(r, "n"))
				if err != nil || n < 1 {
					httputil.BadRequest(w, "Match number must be a positive integer", err)
					return
				}
				var req scoreRequest
				if err := httputil.DecodeJSON(w, r, &req); err != nil {
					httputil.BadRequest(w, "Scores must be integers", err)
					return
				}

				round, err := manager.RecordScore(id, n-1, req.Score1, req.Score2)
				if err != nil {
					respondError(w, "Failed to record score", err)
					return
				}
				httputil.WriteJSON(w, http.StatusOK, round)
			})

			r.Post("/open", func(w http.ResponseWriter, r *http.Request) {
				id, ok := uuidParam(w, r, "id")
				if !ok {
					return
				}
				if _, err := manager.Tournament(id); err != nil {
					respondError(w, "Failed to open tournament", err)
					return
				}
				if err := middleware.SetActiveTournament(r.Context(), sessionManager, id); err != nil {
					httputil.InternalServerError(w, "Failed to remember tournament", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	r.With(middleware.RequireActiveTournament).Get("/active", func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.GetActiveTournamentID(r.Context())
		http.Redirect(w, r, fmt.Sprintf("/tournaments/%s", id), http.StatusFound)
	})

	r.Post("/exit", func(w http.ResponseWriter, r *http.Request) {
		middleware.ClearActiveTournament(r.Context(), sessionManager)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/save", func(w http.ResponseWriter, r *http.Request) {
		if err := manager.Save(r.Context()); err != nil {
			respondError(w, "Failed to save", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	r.Post("/load", func(w http.ResponseWriter, r *http.Request) {
		if err := manager.Load(r.Context()); err != nil {
			respondError(w, "Failed to load", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.BadRequest(w, "Invalid "+name, err)
		return uuid.Nil, false
	}
	return id, true
}

// conflicts are domain errors caused by the tournament's current state.
var conflicts = []error{
	swiss.ErrRoundInProgress,
	swiss.ErrRoundClosed,
	swiss.ErrTournamentOver,
	swiss.ErrAlreadyRegistered,
	swiss.ErrUnpairablePlayer,
}

func respondError(w http.ResponseWriter, msg string, err error) {
	switch {
	case service.IsNotFound(err):
		httputil.NotFound(w, msg, err)
	case errors.Is(err, service.ErrInvalidInput):
		httputil.BadRequest(w, msg, err)
	case isConflict(err):
		httputil.Conflict(w, msg, err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

func isConflict(err error) bool {
	for _, target := range conflicts {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
