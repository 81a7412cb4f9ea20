package version

// AppVersion is the semantic version shown in the status bar and
// `partyline --version`. Overridable at build time via -ldflags.
var AppVersion = "0.3.1"
