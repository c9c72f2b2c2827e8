package debug

import "os"

const (
	DebugShowSetupKey      = "DEBUG_SHOW_SETUP"
	DebugHeadfulBrowserKey = "DEBUG_HEADFUL_BROWSER"
)

func isDebugShowSetupSet() bool {
	return os.Getenv(DebugShowSetupKey) == "true"
}

func isDebugHeadfulBrowserSet() bool {
	return os.Getenv(DebugHeadfulBrowserKey) == "true"
}
