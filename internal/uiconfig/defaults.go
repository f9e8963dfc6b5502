package uiconfig

import "time"

// Defaults returns the static default configuration with the flags derived
// from be and ts set to now.
func Defaults(be BuildEnv, now time.Time) Configuration {
	production := be.IsProduction()

	return Configuration{
		ServerStatus:                       ServerStatusOK,
		Edition:                            DefaultEdition,
		IntercomAppID:                      nil,
		ShouldEnableBugFiling:              !production,
		ShouldEnableRSOD:                   !production,
		ShowUserAndUserProperties:          true,
		SupportEmailTo:                     DefaultSupportEmailTo,
		SupportEmailSubjectForJobs:         "",
		OutsideCommunicationDisabled:       false,
		LowerProvisioningSettingsEnabled:   false,
		AllowFileUploads:                   true,
		AllowSpaceManagement:               false,
		AuthType:                           AuthTypeOAuth,
		SubhourAccelerationPoliciesEnabled: false,
		VersionInfo:                        VersionInfo{},
		IsReleaseBuild:                     be.IsReleaseBuild(),
		LogErrorsToSentry:                  be.LogErrorsToSentry(),
		TS:                                 now,
		WhiteLabelURL:                      DefaultWhiteLabelURL,
	}
}

// Settings converts c to its flat mapping form. Nested records become
// nested maps so that overrides can address them by key.
func (c Configuration) Settings() Settings {
	var intercom any
	if c.IntercomAppID != nil {
		intercom = *c.IntercomAppID
	}

	return Settings{
		KeyServerStatus:                       string(c.ServerStatus),
		KeyEdition:                            c.Edition,
		KeyIntercomAppID:                      intercom,
		KeyShouldEnableBugFiling:              c.ShouldEnableBugFiling,
		KeyShouldEnableRSOD:                   c.ShouldEnableRSOD,
		KeyShowUserAndUserProperties:          c.ShowUserAndUserProperties,
		KeySupportEmailTo:                     c.SupportEmailTo,
		KeySupportEmailSubjectForJobs:         c.SupportEmailSubjectForJobs,
		KeyOutsideCommunicationDisabled:       c.OutsideCommunicationDisabled,
		KeyLowerProvisioningSettingsEnabled:   c.LowerProvisioningSettingsEnabled,
		KeyAllowFileUploads:                   c.AllowFileUploads,
		KeyAllowSpaceManagement:               c.AllowSpaceManagement,
		KeyAuthType:                           string(c.AuthType),
		KeySubhourAccelerationPoliciesEnabled: c.SubhourAccelerationPoliciesEnabled,
		KeyVersionInfo: map[string]any{
			"buildTime": c.VersionInfo.BuildTime,
			"commit": map[string]any{
				"time": c.VersionInfo.Commit.Time,
			},
		},
		KeyIsReleaseBuild:    c.IsReleaseBuild,
		KeyLogErrorsToSentry: c.LogErrorsToSentry,
		KeyTS:                c.TS,
		KeyWhiteLabelURL:     c.WhiteLabelURL,
	}
}
