package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))

	mux := pat.New()

	// Service requests
	mux.Post("/requests", authMiddleware.ThenFunc(app.requestHandler.CreateRequest))
	mux.Get("/requests/:id", authMiddleware.ThenFunc(app.requestHandler.GetRequest))
	mux.Del("/requests/:id", authMiddleware.ThenFunc(app.requestHandler.CancelRequest))

	// Matching
	mux.Post("/requests/:id/match", authMiddleware.ThenFunc(app.matchHandler.Match))

	// Offers
	mux.Post("/requests/:id/offers", authMiddleware.ThenFunc(app.offerHandler.CreateOffer))
	mux.Get("/requests/:id/offers", authMiddleware.ThenFunc(app.offerHandler.GetOffersByRequest))
	mux.Put("/offers/:id", authMiddleware.ThenFunc(app.offerHandler.UpdateOffer))
	mux.Get("/offers/company/:company_id", authMiddleware.ThenFunc(app.offerHandler.GetOffersByCompany))

	// Projects
	mux.Get("/projects", authMiddleware.ThenFunc(app.projectHandler.GetProjects))
	mux.Get("/projects/:id", authMiddleware.ThenFunc(app.projectHandler.GetProject))
	mux.Put("/projects/:id", authMiddleware.ThenFunc(app.projectHandler.UpdateProject))

	// Notifications
	mux.Get("/notifications", authMiddleware.ThenFunc(app.notificationHandler.GetNotifications))
	mux.Put("/notifications/:id/read", authMiddleware.ThenFunc(app.notificationHandler.MarkRead))

	mux.Get("/ws", authMiddleware.ThenFunc(app.WebSocketHandler))

	return standardMiddleware.Then(mux)
}
