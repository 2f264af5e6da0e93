package route

import (
	"net/http"

	"ganak-service/src/config"
	"ganak-service/src/handler"
	"ganak-service/src/middleware"
	"ganak-service/src/models"

	"github.com/go-chi/chi/v5"
)

// Group names in registration order.
const (
	GroupUser          = "user"
	GroupPasswordReset = "password-reset"
	GroupChat          = "chat"
	GroupReport        = "report"
	GroupClinic        = "clinic-lookup"
	GroupSystem        = "system"
)

const (
	TagUserCRUD      = "User CRUD Routes"
	TagUserAuth      = "User Authentication Routes"
	TagPasswordReset = "Password Reset Routes"
	TagChat          = "Chat Routes"
	TagReport        = "Report Routes"
	TagClinic        = "Clinic Lookup Routes"
	TagSystem        = "System Routes"
)

// Tags is the documentation metadata served at /docs. It has no effect on routing.
func Tags() []models.Tag {
	return []models.Tag{
		{Name: TagUserCRUD, Description: "Operations with users: create a user, read, update (except the password) or delete the currently authenticated user."},
		{Name: TagUserAuth, Description: "Authenticate with email and password and receive a bearer token for the protected routes."},
		{Name: TagPasswordReset, Description: "Request a one-time code for a registered email, verify it, then set a new password."},
		{Name: TagChat, Description: "Conversations of the authenticated user and their message history."},
		{Name: TagReport, Description: "Health reports of the authenticated user, with PDF export."},
		{Name: TagClinic, Description: "Find clinics by city, specialty or distance from a point."},
		{Name: TagSystem, Description: "Service health and API documentation."},
	}
}

type Routes struct {
	Config     *config.Config
	Middleware *middleware.Middleware
	Users      *handler.UserHandler
	Resets     *handler.PasswordResetHandler
	Chats      *handler.ChatHandler
	Reports    *handler.ReportHandler
	Clinics    *handler.ClinicHandler
	System     *handler.SystemHandler
}

// Groups returns the route groups in registration order. The operational
// endpoints come last so an application group can never be shadowed by them.
func (r *Routes) Groups() []Group {
	return []Group{
		r.userGroup(),
		r.passwordResetGroup(),
		r.chatGroup(),
		r.reportGroup(),
		r.clinicGroup(),
		r.systemGroup(),
	}
}

func (r *Routes) userGroup() Group {
	return Group{
		Name: GroupUser,
		Endpoints: []Endpoint{
			{Method: http.MethodPost, Pattern: "/users", Tag: TagUserCRUD, Handler: r.Users.CreateUserHandler},
			{Method: http.MethodGet, Pattern: "/users/me", Tag: TagUserCRUD, Auth: true, Handler: r.Users.GetCurrentUserHandler},
			{Method: http.MethodPut, Pattern: "/users/me", Tag: TagUserCRUD, Auth: true, Handler: r.Users.UpdateCurrentUserHandler},
			{Method: http.MethodDelete, Pattern: "/users/me", Tag: TagUserCRUD, Auth: true, Handler: r.Users.DeleteCurrentUserHandler},
			{Method: http.MethodPost, Pattern: "/auth/login", Tag: TagUserAuth, Handler: r.Users.LoginHandler},
		},
	}
}

func (r *Routes) passwordResetGroup() Group {
	return Group{
		Name:        GroupPasswordReset,
		Middlewares: []func(http.Handler) http.Handler{r.Middleware.StrictRateLimiter()},
		Endpoints: []Endpoint{
			{Method: http.MethodPost, Pattern: "/password-reset/request", Tag: TagPasswordReset, Handler: r.Resets.RequestCodeHandler},
			{Method: http.MethodPost, Pattern: "/password-reset/verify", Tag: TagPasswordReset, Handler: r.Resets.VerifyCodeHandler},
			{Method: http.MethodPost, Pattern: "/password-reset/confirm", Tag: TagPasswordReset, Handler: r.Resets.ConfirmResetHandler},
		},
	}
}

func (r *Routes) chatGroup() Group {
	return Group{
		Name: GroupChat,
		Endpoints: []Endpoint{
			{Method: http.MethodPost, Pattern: "/chats", Tag: TagChat, Auth: true, Handler: r.Chats.CreateChatHandler},
			{Method: http.MethodGet, Pattern: "/chats", Tag: TagChat, Auth: true, Handler: r.Chats.ListChatsHandler},
			{Method: http.MethodGet, Pattern: "/chats/{chatID}", Tag: TagChat, Auth: true, Handler: r.Chats.GetChatHandler},
			{Method: http.MethodPost, Pattern: "/chats/{chatID}/messages", Tag: TagChat, Auth: true, Handler: r.Chats.PostMessageHandler},
			{Method: http.MethodDelete, Pattern: "/chats/{chatID}", Tag: TagChat, Auth: true, Handler: r.Chats.DeleteChatHandler},
		},
	}
}

func (r *Routes) reportGroup() Group {
	return Group{
		Name: GroupReport,
		Endpoints: []Endpoint{
			{Method: http.MethodPost, Pattern: "/reports", Tag: TagReport, Auth: true, Handler: r.Reports.CreateReportHandler},
			{Method: http.MethodGet, Pattern: "/reports", Tag: TagReport, Auth: true, Handler: r.Reports.ListReportsHandler},
			{Method: http.MethodGet, Pattern: "/reports/{reportID}", Tag: TagReport, Auth: true, Handler: r.Reports.GetReportHandler},
			{Method: http.MethodGet, Pattern: "/reports/{reportID}/pdf", Tag: TagReport, Auth: true, Handler: r.Reports.DownloadReportPDFHandler},
			{Method: http.MethodDelete, Pattern: "/reports/{reportID}", Tag: TagReport, Auth: true, Handler: r.Reports.DeleteReportHandler},
		},
	}
}

func (r *Routes) clinicGroup() Group {
	return Group{
		Name: GroupClinic,
		Endpoints: []Endpoint{
			{Method: http.MethodGet, Pattern: "/clinics", Tag: TagClinic, Handler: r.Clinics.SearchClinicsHandler},
			{Method: http.MethodGet, Pattern: "/clinics/{clinicID}", Tag: TagClinic, Handler: r.Clinics.GetClinicHandler},
		},
	}
}

func (r *Routes) systemGroup() Group {
	return Group{
		Name: GroupSystem,
		Endpoints: []Endpoint{
			{Method: http.MethodGet, Pattern: "/health", Tag: TagSystem, Handler: r.System.HealthHandler},
			{Method: http.MethodGet, Pattern: "/docs", Tag: TagSystem, Handler: r.System.DocsHandler},
		},
	}
}

// Mount registers the resolved table on mux. Conflicts are logged, never mounted.
func (r *Routes) Mount(mux chi.Router, table *Table) {
	logger := r.Config.Logger
	for _, c := range table.Conflicts {
		logger.Warn("⚠️ Route conflict: " + c.String())
	}

	for _, g := range table.Groups {
		g := g
		mux.Group(func(gr chi.Router) {
			for _, mw := range g.Middlewares {
				gr.Use(mw)
			}
			for _, e := range g.Endpoints {
				var h http.Handler = e.Handler
				if e.Auth {
					h = r.Middleware.Authenticate(h)
				}
				gr.Method(e.Method, e.Pattern, h)
			}
		})
		logger.Debug("Route group registered: " + g.Name)
	}
	logger.Info("✅ Routes endpoints initialized successfully")
}
