// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notify

import (
	"net/mail"
	"strings"

	"github.com/taibuivan/campus/internal/platform/constants"
)

// CollectTokens merges device tokens, dropping blanks, tokens shorter than
// [constants.MinDeviceTokenLength] and case-insensitive duplicates.
// The first spelling of a token wins and input order is preserved.
func CollectTokens(tokens ...string) []string {
	seen := make(map[string]struct{}, len(tokens))
	collected := make([]string, 0, len(tokens))

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if len(token) < constants.MinDeviceTokenLength {
			continue
		}

		key := strings.ToLower(token)
		if _, duplicate := seen[key]; duplicate {
			continue
		}

		seen[key] = struct{}{}
		collected = append(collected, token)
	}

	return collected
}

// TokensOf collects every device token of the given recipients.
func TokensOf(recipients []Recipient) []string {
	var tokens []string
	for _, recipient := range recipients {
		tokens = append(tokens, recipient.DeviceTokens...)
		tokens = append(tokens, recipient.FCMToken)
	}
	return CollectTokens(tokens...)
}

// CollectAddresses keeps parseable addresses, lowercased and de-duplicated.
func CollectAddresses(addresses ...string) []string {
	seen := make(map[string]struct{}, len(addresses))
	collected := make([]string, 0, len(addresses))

	for _, address := range addresses {
		address = strings.ToLower(strings.TrimSpace(address))
		if address == "" {
			continue
		}
		if _, err := mail.ParseAddress(address); err != nil {
			continue
		}
		if _, duplicate := seen[address]; duplicate {
			continue
		}
		seen[address] = struct{}{}
		collected = append(collected, address)
	}

	return collected
}
