// Command authorizer is the API Gateway custom authorizer for tasker.
//
// It reads the same TASKER_* environment variables as the server, typically
// TASKER_AUTH_CERTIFICATE with the identity provider's PEM, and answers every
// invocation with an Allow or Deny policy. It never returns an error to API
// Gateway.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/sagarc03/tasker/auth"
	"github.com/sagarc03/tasker/config"
)

// decider is satisfied by *auth.Authorizer.
type decider interface {
	Authorize(ctx context.Context, header string) auth.Decision
}

type handler struct {
	authorizer decider
}

func (h handler) handle(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	return toResponse(h.authorizer.Authorize(ctx, req.AuthorizationToken)), nil
}

func toResponse(d auth.Decision) events.APIGatewayCustomAuthorizerResponse {
	statements := make([]events.IAMPolicyStatement, 0, len(d.PolicyDocument.Statement))
	for _, s := range d.PolicyDocument.Statement {
		statements = append(statements, events.IAMPolicyStatement{
			Action:   []string{s.Action},
			Effect:   string(s.Effect),
			Resource: []string{s.Resource},
		})
	}

	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: d.PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version:   d.PolicyDocument.Version,
			Statement: statements,
		},
	}
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(nil, nil)
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	authorizer, err := cfg.Auth.NewAuthorizer(logger)
	if err != nil {
		logger.Error("configure auth", "err", err)
		os.Exit(1)
	}

	lambda.Start(handler{authorizer: authorizer}.handle)
}
