// Package driving provides interfaces for the application's entry points (primary/inbound ports).
//
// The UI is an external caller: it invokes these ports with a question or
// a set of files and renders whatever structured result comes back.
package driving
