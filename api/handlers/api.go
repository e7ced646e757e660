package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/miralles/wedding-rsvp-api/api"
	"github.com/miralles/wedding-rsvp-api/api/scheduler"
	"github.com/miralles/wedding-rsvp-api/config"
	"github.com/miralles/wedding-rsvp-api/databases"
	"github.com/miralles/wedding-rsvp-api/invites"
	"github.com/miralles/wedding-rsvp-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for the operator routes
	m := api.MiddlewareDB{DB: databases.NewAdminDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.TimeoutMiddleware(30 * time.Second))

	codes := databases.NewInviteCodeDatabase(a.dbHelper)
	rsvps := databases.NewRSVPDatabase(a.dbHelper)
	ledger := invites.NewLedger(codes)
	recorder := invites.NewRecorder(codes, rsvps, a.dbHelper.Client())
	hub := NewHub()

	ic := InviteCode{DB: codes, Ledger: ledger, Recorder: recorder, Secret: a.Config.SecretKey}
	rv := RSVP{Recorder: recorder, RSVPs: rsvps, Hub: hub, Conf: &a.Config, Secret: a.Config.SecretKey}
	st := Stats{Codes: codes, RSVPs: rsvps}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	// public invitation flow, no operator auth
	apiCreate.Handle("/invitation/validate", http.HandlerFunc(ic.ValidateInviteCodeHandler)).Methods("POST")
	apiCreate.Handle("/rsvp", http.HandlerFunc(rv.SubmitRSVPHandler)).Methods("POST")
	apiCreate.Handle("/rsvp/exists", http.HandlerFunc(rv.CheckExistingHandler)).Methods("GET")

	// operator surface
	apiCreate.Handle("/invitation-codes", api.Middleware(http.HandlerFunc(ic.CreateInviteCodeHandler))).Methods("POST")
	apiCreate.Handle("/invitation-codes", api.Middleware(http.HandlerFunc(ic.InviteCodesHandler))).Methods("GET")
	apiCreate.Handle("/invitation-codes/{code_id}", api.Middleware(http.HandlerFunc(ic.InviteCodeByIDHandler))).Methods("GET")
	apiCreate.Handle("/invitation-codes/{code_id}", api.Middleware(http.HandlerFunc(ic.UpdateInviteCodeHandler))).Methods("PATCH")
	apiCreate.Handle("/invitation-codes/{code_id}", api.Middleware(http.HandlerFunc(ic.DeleteInviteCodeHandler))).Methods("DELETE")
	apiCreate.Handle("/invitation-codes/{code_id}/toggle", api.Middleware(http.HandlerFunc(ic.ToggleInviteCodeHandler))).Methods("PUT")

	apiCreate.Handle("/rsvps", api.Middleware(http.HandlerFunc(rv.RSVPsHandler))).Methods("GET")
	apiCreate.Handle("/rsvps/{rsvp_id}", api.Middleware(http.HandlerFunc(rv.DeleteRSVPHandler))).Methods("DELETE")

	apiCreate.Handle("/stats", api.Middleware(http.HandlerFunc(st.StatsHandler))).Methods("GET")
	apiCreate.Handle("/live", api.Middleware(http.HandlerFunc(hub.LiveHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("wedding-rsvp-api has connected to the database")

	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()
	if err := databases.EnsureRSVPIndexes(ctx, a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to ensure rsvp indexes")
		return err
	}

	if err := databases.EnsureHeadAdmin(a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to bootstrap operator account")
		return err
	}

	a.scheduler = scheduler.NewScheduler(
		databases.NewInviteCodeDatabase(a.dbHelper),
		databases.NewRSVPDatabase(a.dbHelper),
		a.Config,
	)
	a.scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
