// Package session tracks per-conversation state across turns and process
// restarts: request counters, idle-gap epochs and the visible message list.
package session
