// Package tasker provides the business logic of a personal task tracker with
// pluggable storage backends and pre-signed attachment uploads.
//
// Tasker keeps each user's task items in a repository and hands out short-lived
// upload URLs so clients can attach files without holding storage credentials.
//
// # Key Components
//
//   - TaskService: Façade combining a task repository and an upload URL signer
//   - TaskRepo: Interface for task persistence (PostgreSQL, SQLite)
//   - URLSigner: Interface for pre-signed object store URLs (S3, Stowry)
//
// Identity verification lives in the auth package; the http package exposes
// the service as a JSON API.
//
// # Example Usage
//
//	service, err := tasker.NewTaskService(repo, signer, tasker.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create a task
//	task, err := service.CreateTask(ctx, userID, tasker.CreateTaskRequest{Description: "buy milk"})
//
//	// Ask for an attachment upload URL
//	uploadURL, err := service.GetUploadURL(ctx, task.TaskID, userID)
package tasker
