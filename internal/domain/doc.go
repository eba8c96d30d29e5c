// Package domain holds the core entity types shared across services,
// repositories, and the API layer. Types here carry no behavior beyond
// small predicates; business rules live in the service packages.
package domain
