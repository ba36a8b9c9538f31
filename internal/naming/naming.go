// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package naming derives directory and resource names from the group and
// login names supplied by callers.
//
// Every lookup against the directory or the resource manager uses the
// normalised form of a group name, so that " AI 2024L ", "AI_2024L" and
// "AI-2024L" all refer to the same group.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// ResourceGroupPrefix is prepended to a normalised group name to form
	// the name of the resource group created for it.
	ResourceGroupPrefix = "rg-"

	fallbackPassword  = "TempPassw0rd"
	passwordPadding   = "Group"
	passwordSuffix    = "A1!"
	minPasswordPrefix = 6
)

// polishLetters holds the letters that do not decompose into a base letter
// plus a combining mark, together with those that do, so the result does
// not depend on the normalisation tables.
var polishLetters = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n",
	"ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N",
	"Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

var semesterName = regexp.MustCompile(`^(.+)-(\d{4}[ZL])$`)

// NormalizeName returns the canonical form of a group name: surrounding
// whitespace trimmed, diacritics transliterated to ASCII, and spaces and
// underscores replaced with dashes.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = polishLetters.Replace(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, name); err == nil {
		name = stripped
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '_' {
			return '-'
		}
		return r
	}, name)
}

// MailNickname returns the mail nickname the directory requires for a
// security group with the given normalised name.
func MailNickname(normalized string) string {
	return strings.ToLower(strings.ReplaceAll(normalized, " ", "-"))
}

// UserLogin returns the login of a user belonging to the given group.
// Logins are suffixed with the group so that the same person can be a
// member of several groups.
func UserLogin(login, group string) string {
	return strings.TrimSpace(login) + "-" + NormalizeName(group)
}

// UserPrincipalName returns the principal name for login in the given
// directory domain. A login that already carries a domain is returned as-is.
func UserPrincipalName(login, domain string) string {
	if strings.Contains(login, "@") {
		return login
	}
	return login + "@" + strings.TrimPrefix(domain, "@")
}

// InitialPassword derives the first password handed to users of a group.
func InitialPassword(group string) string {
	base := NormalizeName(group)
	if base == "" {
		base = fallbackPassword
	}
	if len(base) < minPasswordPrefix {
		base += passwordPadding
	}
	return base + passwordSuffix
}

// ResourceGroupName returns the name of the resource group holding the
// resources of the group with the given normalised name.
func ResourceGroupName(normalized string) string {
	return ResourceGroupPrefix + normalized
}

// DenormalizeGroupName converts a normalised group name back into its
// display form. Only names ending in a semester suffix ("-2024L",
// "-2023Z") are converted; anything else may legitimately contain dashes
// and is returned unchanged.
func DenormalizeGroupName(normalized string) string {
	m := semesterName.FindStringSubmatch(normalized)
	if m == nil {
		return normalized
	}
	return strings.ReplaceAll(m[1], "-", " ") + " " + m[2]
}

// StripGroupSuffix recovers the plain login from the local part of a user
// principal name created by UserLogin for the given group.
func StripGroupSuffix(principalName, group string) string {
	local, _, _ := strings.Cut(principalName, "@")
	return strings.TrimSuffix(local, "-"+NormalizeName(group))
}
