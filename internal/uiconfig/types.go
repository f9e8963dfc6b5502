package uiconfig

import "time"

// ServerStatus is the status code the UI shows for the backing server.
type ServerStatus string

// ServerStatusOK reports a healthy server.
const ServerStatusOK ServerStatus = "OK"

// AuthType selects the login flow rendered by the UI.
type AuthType string

// AuthTypeOAuth is the default login flow.
const AuthTypeOAuth AuthType = "oauth"

// Default values for the display strings.
const (
	DefaultEdition        = "OSS"
	DefaultWhiteLabelURL  = "dremio"
	DefaultSupportEmailTo = "noreply@dremio.com"
)

// Settings keys.
const (
	KeyServerStatus                       = "serverStatus"
	KeyEdition                            = "edition"
	KeyIntercomAppID                      = "intercomAppId"
	KeyShouldEnableBugFiling              = "shouldEnableBugFiling"
	KeyShouldEnableRSOD                   = "shouldEnableRSOD"
	KeyShowUserAndUserProperties          = "showUserAndUserProperties"
	KeySupportEmailTo                     = "supportEmailTo"
	KeySupportEmailSubjectForJobs         = "supportEmailSubjectForJobs"
	KeyOutsideCommunicationDisabled       = "outsideCommunicationDisabled"
	KeyLowerProvisioningSettingsEnabled   = "lowerProvisioningSettingsEnabled"
	KeyAllowFileUploads                   = "allowFileUploads"
	KeyAllowSpaceManagement               = "allowSpaceManagement"
	KeyAuthType                           = "authType"
	KeySubhourAccelerationPoliciesEnabled = "subhourAccelerationPoliciesEnabled"
	KeyVersionInfo                        = "versionInfo"
	KeyIsReleaseBuild                     = "isReleaseBuild"
	KeyLogErrorsToSentry                  = "logErrorsToSentry"
	KeyTS                                 = "ts"
	KeyWhiteLabelURL                      = "whiteLabelUrl"
)

// Settings is the flat key/value form of a configuration. Values are
// strings, booleans, numbers, nil or nested Settings-shaped maps.
type Settings map[string]any

// CommitInfo describes the commit the UI was built from.
type CommitInfo struct {
	// Time is the commit time in Unix milliseconds.
	Time int64 `json:"time"`
}

// VersionInfo carries build metadata. Zero values mean the epoch.
type VersionInfo struct {
	// BuildTime is the build time in Unix milliseconds.
	BuildTime int64      `json:"buildTime"`
	Commit    CommitInfo `json:"commit"`
}

// Configuration is the typed record of every default key.
type Configuration struct {
	ServerStatus                       ServerStatus `json:"serverStatus"`
	Edition                            string       `json:"edition"`
	IntercomAppID                      *string      `json:"intercomAppId"`
	ShouldEnableBugFiling              bool         `json:"shouldEnableBugFiling"`
	ShouldEnableRSOD                   bool         `json:"shouldEnableRSOD"`
	ShowUserAndUserProperties          bool         `json:"showUserAndUserProperties"`
	SupportEmailTo                     string       `json:"supportEmailTo"`
	SupportEmailSubjectForJobs         string       `json:"supportEmailSubjectForJobs"`
	OutsideCommunicationDisabled       bool         `json:"outsideCommunicationDisabled"`
	LowerProvisioningSettingsEnabled   bool         `json:"lowerProvisioningSettingsEnabled"`
	AllowFileUploads                   bool         `json:"allowFileUploads"`
	AllowSpaceManagement               bool         `json:"allowSpaceManagement"`
	AuthType                           AuthType     `json:"authType"`
	SubhourAccelerationPoliciesEnabled bool         `json:"subhourAccelerationPoliciesEnabled"`
	VersionInfo                        VersionInfo  `json:"versionInfo"`
	IsReleaseBuild                     bool         `json:"isReleaseBuild"`
	LogErrorsToSentry                  bool         `json:"logErrorsToSentry"`
	TS                                 time.Time    `json:"ts"`
	WhiteLabelURL                      string       `json:"whiteLabelUrl"`
}
