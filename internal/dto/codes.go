package dto

// Response codes carried in Envelope.Code. The HTTP status stays 200 for all of them.
const (
	CodeSuccess = 200
	CodeSystem  = 400

	CodeInvalidOTP      = 1001
	CodeCreateUser      = 1002
	CodeSendOTP         = 1003
	CodeMissingToken    = 1004
	CodeInvalidToken    = 1005
	CodeGoogleAuth      = 1006
	CodeInvalidAPIKey   = 1101
	CodeInvalidSettings = 1102
	CodeInvalidEndpoint = 1103
	CodePromptQuota     = 1201
	// CodeHistoryQuota is reserved. The basic history window truncates the
	// listing instead of refusing it, so nothing returns this code.
	CodeHistoryQuota       = 1202
	CodeCreateOrder        = 2001
	CodeCreatePortal       = 2002
	CodeCreateSuite        = 3001
	CodeSuiteNameEmpty     = 3002
	CodeUpdateSuite        = 3003
	CodeUpdateSuiteDenied  = 3004
	CodeRemoveSuite        = 3005
	CodeRemoveSuiteDenied  = 3006
	CodeListPrompts        = 3007
	CodeGetPromptDenied    = 3008
	CodeCreatePrompt       = 3009
	CodeCreatePromptDenied = 3010
	CodeDuplicatePrompt    = 3011
	CodeRemovePrompt       = 3012
	CodeGetPrompt          = 3013
	CodeUpdatePrompt       = 3014
	CodeUpdatePromptDenied = 3015
	CodeAddHistoryDenied   = 3016
	CodeLabelHistoryDenied = 3017
	CodeLabelHistory       = 3018
	CodeClearHistory       = 3019
	CodeAddHistory         = 3020
	CodeClearHistoryDenied = 3021
	CodeListHistory        = 3022
	CodeListHistoryDenied  = 3023
)

var messages = map[int]string{
	CodeSuccess: "Success",
	CodeSystem:  "System error",

	CodeInvalidOTP:      "Invalid verification code. Please enter the correct one and try again.",
	CodeCreateUser:      "Failed to create user",
	CodeSendOTP:         "Failed to send Email verification code",
	CodeMissingToken:    "Missing authentication token",
	CodeInvalidToken:    "Invalid authentication token",
	CodeGoogleAuth:      "Failed to authenticate Google user",
	CodeInvalidAPIKey:   "Invalid API key",
	CodeInvalidSettings: "Invalid settings. Please check it",
	CodeInvalidEndpoint: "Invalid custom API endpoint",
	CodePromptQuota:     "Please upgrade to Plus Plan to create more prompts",
	CodeHistoryQuota:    "Please upgrade to Plus Plan to get more history records",

	CodeCreateOrder:  "Failed to create order",
	CodeCreatePortal: "Failed to create portal URL",

	CodeCreateSuite:        "Failed to create project",
	CodeSuiteNameEmpty:     "Project name is empty",
	CodeUpdateSuite:        "Failed to update project",
	CodeUpdateSuiteDenied:  "No permission to update project",
	CodeRemoveSuite:        "Failed to remove project",
	CodeRemoveSuiteDenied:  "No permission to remove project",
	CodeListPrompts:        "Failed to get prompts",
	CodeGetPromptDenied:    "No permission to get prompt",
	CodeCreatePrompt:       "Failed to create prompt",
	CodeCreatePromptDenied: "No permission to create prompt",
	CodeDuplicatePrompt:    "Failed to duplicate prompt",
	CodeRemovePrompt:       "Failed to remove prompt",
	CodeGetPrompt:          "Failed to get prompt detail",
	CodeUpdatePrompt:       "Failed to update prompt",
	CodeUpdatePromptDenied: "No permission to update prompt",
	CodeAddHistoryDenied:   "No permission to add history record",
	CodeLabelHistoryDenied: "No permission to label history record",
	CodeLabelHistory:       "Failed to label history",
	CodeClearHistory:       "Failed to remove history records",
	CodeAddHistory:         "Failed to add history record",
	CodeClearHistoryDenied: "No permission to remove history",
	CodeListHistory:        "Failed to get history records",
	CodeListHistoryDenied:  "No permission to get history records",
}

// Message returns the text for code, falling back to the system error text.
func Message(code int) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return messages[CodeSystem]
}
