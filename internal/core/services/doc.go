// Package services implements the driving ports: the ingestion pipeline
// and the retrieval-augmented query engine. Services depend only on the
// driven ports; adapters are injected at startup.
package services
