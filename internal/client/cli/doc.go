// Package cli implements the feedhub inbox tool: it logs in with a
// prompted password and runs one inbox command (inbox, unread or purge).
package cli
