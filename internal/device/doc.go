// Package device implements the device registry and its ownership model.
//
// Every device belongs to exactly one account and carries a globally
// unique serial number. Access control is expressed as a Scope: nil for
// superusers (unrestricted), or pinned to a single owner for everyone
// else. The scope is threaded through the repository so the owner filter
// is applied inside the SQL, never left to handler discipline.
//
// The package also owns the topic template table: a fixed mapping from
// device type to the MQTT-style topic names derived from a serial number.
// Resolution is a pure string computation; this service never connects
// to a broker.
package device
