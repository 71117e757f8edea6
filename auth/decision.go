package auth

import (
	"context"
	"log/slog"
)

// Effect is the outcome carried by a policy statement.
type Effect string

const (
	Allow Effect = "Allow"
	Deny  Effect = "Deny"
)

const (
	// PolicyVersion is the IAM policy language version emitted in decisions.
	PolicyVersion = "2012-10-17"
	// InvokeAction is the action every decision statement grants or denies.
	InvokeAction = "execute-api:Invoke"
	// DeniedPrincipal is the principal reported when authorization fails.
	DeniedPrincipal = "user"
)

// Statement is a single policy statement.
type Statement struct {
	Action   string `json:"Action" yaml:"Action"`
	Effect   Effect `json:"Effect" yaml:"Effect"`
	Resource string `json:"Resource" yaml:"Resource"`
}

// PolicyDocument is the policy attached to a Decision.
type PolicyDocument struct {
	Version   string      `json:"Version" yaml:"Version"`
	Statement []Statement `json:"Statement" yaml:"Statement"`
}

// Decision is the result of authorizing one request.
type Decision struct {
	PrincipalID    string         `json:"principalId" yaml:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument" yaml:"policyDocument"`
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	for _, s := range d.PolicyDocument.Statement {
		if s.Effect != Allow {
			return false
		}
	}
	return len(d.PolicyDocument.Statement) > 0
}

func newDecision(principal string, effect Effect) Decision {
	return Decision{
		PrincipalID: principal,
		PolicyDocument: PolicyDocument{
			Version: PolicyVersion,
			Statement: []Statement{{
				Action:   InvokeAction,
				Effect:   effect,
				Resource: "*",
			}},
		},
	}
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Authorizer turns an authorization header into a Decision.
type Authorizer struct {
	verifier TokenVerifier
	logger   *slog.Logger
}

// NewAuthorizer creates an Authorizer. A nil logger falls back to slog.Default().
func NewAuthorizer(verifier TokenVerifier, logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{verifier: verifier, logger: logger}
}

// NewAuthorizerFromPEM builds an Authorizer backed by a Verifier for the
// trusted certificate in pemData.
func NewAuthorizerFromPEM(pemData []byte, logger *slog.Logger, opts ...VerifierOption) (*Authorizer, error) {
	verifier, err := NewVerifier(pemData, opts...)
	if err != nil {
		return nil, err
	}
	return NewAuthorizer(verifier, logger), nil
}

// Authorize never fails: any extraction or verification problem yields a
// Deny decision for DeniedPrincipal, with the cause logged.
func (a *Authorizer) Authorize(ctx context.Context, header string) Decision {
	a.logger.InfoContext(ctx, "authorizing a user", "authorization", header)

	claims, err := a.verify(header)
	if err != nil {
		a.logger.ErrorContext(ctx, "user not authorized", "error", err)
		return newDecision(DeniedPrincipal, Deny)
	}

	a.logger.InfoContext(ctx, "user was authorized", "sub", claims.Subject)
	return newDecision(claims.Subject, Allow)
}

func (a *Authorizer) verify(header string) (*Claims, error) {
	token, err := ExtractBearerToken(header)
	if err != nil {
		return nil, err
	}
	if a.verifier == nil {
		return nil, ErrInvalidToken
	}
	return a.verifier.Verify(token)
}
