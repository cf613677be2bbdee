// Package services implements the core application logic behind the
// driving ports: document ingestion and temporally aware querying.
// Services depend only on the driven port interfaces, never on
// concrete adapters.
package services
