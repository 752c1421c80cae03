// Package api contains the HTTP handlers, request/response models and error
// mapping for the REST surface. Handlers translate between the wire format
// and the application services; business rules live in the services.
package api
