// ABOUTME: Pure routing of inline keyboard callback payloads
// ABOUTME: Profile selections are matched before menu payloads and their token recovered verbatim

package bot

import "strings"

// CallbackKind identifies what a button click asks for.
type CallbackKind int

const (
	// CallbackUnknown is an unrecognized payload (stale or foreign keyboard).
	CallbackUnknown CallbackKind = iota
	// CallbackAccountList shows the PPPoE account list.
	CallbackAccountList
	// CallbackStats shows online/offline statistics.
	CallbackStats
	// CallbackAddUser starts the provisioning flow.
	CallbackAddUser
	// CallbackProfile selects a profile for the in-progress flow.
	CallbackProfile
)

const profilePrefix = "profile_"

// routeCallback classifies a callback payload. The profile prefix is
// checked before the menu payloads so a profile token can never be
// mistaken for a menu click. The returned argument is the profile name
// with the prefix stripped verbatim; embedded underscores survive.
func routeCallback(data string) (CallbackKind, string) {
	// telebot prefixes unique-button payloads with \f; ours are raw,
	// but strip it defensively.
	data = strings.TrimPrefix(data, "\f")

	if name, ok := strings.CutPrefix(data, profilePrefix); ok {
		return CallbackProfile, name
	}

	switch data {
	case "cekuser":
		return CallbackAccountList, ""
	case "cekstats":
		return CallbackStats, ""
	case "tambahuser":
		return CallbackAddUser, ""
	}
	return CallbackUnknown, ""
}
