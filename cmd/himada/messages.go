package main

// LogLineMsg carries one line written by the running download.
type LogLineMsg struct {
	Line string
}

// RunFinishedMsg signals that the download returned.
type RunFinishedMsg struct {
	Err error
}

// SettingsErrorMsg reports a failure to persist the form.
type SettingsErrorMsg struct {
	Err error
}
