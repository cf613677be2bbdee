// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Normaliser: Transforms raw documents into indexed form
//   - NormaliserRegistry: Selects appropriate normaliser
//   - PostProcessor: Produces chunks from normalised documents
//   - DocumentStore: Document and chunk persistence
//   - ConfigStore: Application configuration
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Vector storage and similarity search
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
