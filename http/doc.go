// Package http exposes the task API over HTTP.
//
// Routes:
//
//	GET    /todos                       list the caller's tasks
//	POST   /todos                       create a task
//	PATCH  /todos/{taskId}              update a task
//	DELETE /todos/{taskId}              delete a task
//	POST   /todos/{taskId}/attachment   mint a pre-signed upload URL
//	GET    /healthz                     liveness, no auth
//
// Every /todos route runs behind AuthMiddleware, which asks an Authorizer for
// a decision on the Authorization header. A Deny decision ends the request
// with 403; an Allow decision stores the principal in the request context
// where handlers read it with auth.UserIDFromContext.
//
// Routes under /todos/{taskId} first check that the task exists for the
// caller and answer 404 otherwise.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    Authorizer: auth.NewAuthorizer(verifier, logger),
//	    CORS:       http.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
//	    Metrics:    http.NewMetrics(),
//	}, service)
//	srv := &nethttp.Server{Addr: ":8080", Handler: handler.Router()}
//
// Errors are JSON bodies of the form {"error": "...", "message": "..."}.
package http
