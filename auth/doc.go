// Package auth turns an inbound authorization header into an access decision.
//
// The flow has three steps, each usable on its own:
//
//   - ExtractBearerToken: pulls the token out of a "Bearer <token>" header
//   - Verifier: checks the RS256 signature and expiry against a trusted key
//   - Authorizer: runs both and produces an Allow or Deny Decision
//
// The Authorizer never returns an error. Every failure collapses into a Deny
// decision for the placeholder principal "user"; the cause is only logged.
//
//	verifier, err := auth.NewVerifier([]byte(certPEM))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	authorizer := auth.NewAuthorizer(verifier, slog.Default())
//
//	decision := authorizer.Authorize(ctx, r.Header.Get("Authorization"))
//	if decision.Allowed() {
//	    userID := decision.PrincipalID
//	}
package auth
