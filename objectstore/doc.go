// Package objectstore mints pre-signed upload URLs for task attachments.
//
// Two signers implement tasker.URLSigner:
//
//   - S3Signer: AWS SigV4 query signing through aws-sdk-go-v2. Works against
//     AWS S3 and any S3 compatible endpoint, including the local blobstore.
//   - StowrySigner: the native stowry signing scheme through stowry-go.
//
// New picks one from a Config:
//
//	signer, err := objectstore.New(ctx, objectstore.Config{
//	    Backend: "s3",
//	    Bucket:  "tasker-attachments",
//	    Region:  "us-east-1",
//	})
//	url, err := signer.PresignPut(ctx, taskID, 300*time.Second)
package objectstore
