package debug

const (
	Debug = true
)

func IsDebug() bool {
	return Debug
}

// IsDebugShowSetup logs the resolved setup, secrets redacted.
func IsDebugShowSetup() bool {
	return Debug && isDebugShowSetupSet()
}

// IsDebugHeadfulBrowser opens a visible browser window regardless of
// BROWSER_HEADLESS.
func IsDebugHeadfulBrowser() bool {
	return Debug && isDebugHeadfulBrowserSet()
}
