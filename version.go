package leangym

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/PatrickMassot/lean-gym.Version=...".
var Version = "0.1.0-dev"
