package gamebot

// Version is the release version. It is overridden at build time via
// -ldflags "-X github.com/gamebase54/gamebot.Version=...".
var Version = "0.1.0-dev"
