package ctl

// StartOptions controls the start command.
type StartOptions struct {
	Minutes int
	Profile string
	JSON    bool
}

// Start asks the console to begin a recording. A rejection is printed with
// its reason; it is not an error.
func Start(baseURL string, opts StartOptions) error {
	body := map[string]any{
		"minutes": opts.Minutes,
		"profile": opts.Profile,
	}
	var d decision
	if err := postJSON(baseURL, "/api/start", body, &d); err != nil {
		return err
	}
	return printDecision(d, "START DISPATCHED", opts.JSON)
}

// Stop asks the console to end the current recording.
func Stop(baseURL string, jsonOut bool) error {
	var d decision
	if err := postJSON(baseURL, "/api/stop", map[string]any{}, &d); err != nil {
		return err
	}
	return printDecision(d, "STOP DISPATCHED", jsonOut)
}

// Refresh asks the console to request a fresh recordings listing.
func Refresh(baseURL string, jsonOut bool) error {
	var d decision
	if err := postJSON(baseURL, "/api/refresh", map[string]any{}, &d); err != nil {
		return err
	}
	return printDecision(d, "REFRESH DISPATCHED", jsonOut)
}
