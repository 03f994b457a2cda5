// Package domain contains the core types of the navigation engine:
// sessions, chat updates, inline keyboards, hierarchical tree nodes,
// notifications and view content records.
//
// The package has no dependencies on transports or stores; adapters and
// the scene runtime both speak in these types.
package domain
