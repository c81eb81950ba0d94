package precheck

// Commands holds the argv for each build-system step the precheck runs.
// Defaults match a dx-based toolchain and are overridable via config.
type Commands struct {
	CacheClear []string
	Lint       []string
	Build      []string
}

// DefaultCommands returns the stock dx command set.
func DefaultCommands() Commands {
	return Commands{
		CacheClear: []string{"dx", "cache", "clear"},
		Lint:       []string{"dx", "lint"},
		Build:      []string{"dx", "build", "all"},
	}
}
