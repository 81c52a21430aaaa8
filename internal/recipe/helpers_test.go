package recipe

import "github.com/hammamikhairi/aichef/internal/domain"

func domainEntry(id, raw, ingredients string) domain.HistoryEntry {
	return domain.HistoryEntry{ID: id, RawText: raw, Ingredients: ingredients, MaxMinutes: 30}
}
