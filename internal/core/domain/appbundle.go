package domain

// AppBundle is a packaged plugin registered with the Design Automation
// service and referenced by activities.
type AppBundle struct {
	ID          string `json:"id"`
	Engine      string `json:"engine"`
	Description string `json:"description,omitempty"`
}

// UploadParameters describe the one-shot upload target returned by the
// app-bundle registration endpoint.
type UploadParameters struct {
	EndpointURL string            `json:"endpointURL"`
	FormData    map[string]string `json:"formData"`
}

// Alias points a stable name at a specific app-bundle or activity version.
type Alias struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// Activity is a named remote job template that work items instantiate.
type Activity struct {
	ID          string                       `json:"id"`
	Engine      string                       `json:"engine"`
	CommandLine []string                     `json:"commandline"`
	Parameters  map[string]ActivityParameter `json:"parameters"`
	AppBundles  []string                     `json:"appbundles"`
	Settings    map[string]interface{}       `json:"settings"`
	Description string                       `json:"description"`
}

// ActivityParameter declares one argument accepted by an activity.
type ActivityParameter struct {
	Verb        string `json:"verb"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// DefaultActivityParameters is the argument block the toolkit's activities
// declare: the parameter document as an optional string and the personal
// access token as a required one.
func DefaultActivityParameters() map[string]ActivityParameter {
	return map[string]ActivityParameter{
		"TaskParameters": {
			Verb:        "read",
			Description: "the parameters for the script",
			Required:    false,
		},
		"PersonalAccessToken": {
			Verb:        "read",
			Description: "the personal access token to use",
			Required:    true,
		},
	}
}
