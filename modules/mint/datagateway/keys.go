package datagateway

import "fmt"

// Ledger key schema. Addresses are lowercased before they reach these
// helpers, so every backend sees the same keys.
func MintedKey(eventId, address string) string {
	return fmt.Sprintf("minted:%s:%s", eventId, address)
}

func CounterKey(eventId string) string {
	return fmt.Sprintf("minted_count:%s", eventId)
}

func LockKey(eventId, address string) string {
	return fmt.Sprintf("mint_in_progress:%s:%s", eventId, address)
}
