// Package config provides configuration loading and validation for tasker.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (TASKER_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with TASKER_ prefix:
//   - server.port → TASKER_SERVER_PORT
//   - auth.certificate_file → TASKER_AUTH_CERTIFICATE_FILE
//   - attachments.bucket → TASKER_ATTACHMENTS_BUCKET
//
// # Configuration Structure
//
//   - Env: dev (colored logs) or prod (JSON logs)
//   - Server: port and timeouts
//   - Database: type, DSN, table names and auto_migrate
//   - Auth: trusted certificate (inline or file), optional issuer and audience
//   - Attachments: object store backend (s3, stowry, local), bucket and URL expiry
//   - CORS: cross-origin resource sharing settings
//   - Metrics: Prometheus endpoint
//   - Log: logging level
//
// The trusted certificate is not validated here because only the serving
// commands need it; call AuthConfig.CertificatePEM when it is required.
package config
