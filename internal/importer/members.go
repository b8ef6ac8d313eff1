// Package importer normalizes uploaded data into entity records: member
// lists from JSON and bank statements from spreadsheet grids. Both paths
// deduplicate against already-stored records before anything is inserted.
package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kasa/internal/core"
)

// Accepted member field keys. Canonical names come first; the alternate
// set matches the column labels of exported Turkish member lists.
var memberNameKeys = []string{"full_name", "isim", "ad soyad", "ad"}
var memberTeamKeys = []string{"team", "takım", "takim"}

// NormalizedMember is a member candidate ready for insertion.
type NormalizedMember struct {
	FullName string
	Team     string
	JoinDate time.Time
	Notes    string
}

// MemberImportResult reports what a normalization run produced.
type MemberImportResult struct {
	Members        []NormalizedMember
	Skipped        int // duplicates dropped, against existing names or within the batch
	DefaultedDates int // rows whose join_date did not parse and fell back to the run date
}

// NormalizeMembers turns raw key-value records into member candidates,
// dropping duplicates by case-insensitive full name. It is a pure function
// over (existing names, raw records, run date); when the input repeats a
// name, the first occurrence wins. Records without a join date default to
// runDate; a join date that does not parse also defaults but is counted,
// so bad import data stays visible.
func NormalizeMembers(existingNames []string, raws []map[string]any, runDate time.Time) MemberImportResult {
	seen := make(map[string]bool, len(existingNames))
	for _, name := range existingNames {
		seen[normalizeName(name)] = true
	}

	result := MemberImportResult{}
	for _, raw := range raws {
		name := firstString(raw, memberNameKeys)
		if name == "" {
			result.Skipped++
			continue
		}
		key := normalizeName(name)
		if seen[key] {
			result.Skipped++
			continue
		}
		seen[key] = true

		m := NormalizedMember{
			FullName: name,
			Team:     firstString(raw, memberTeamKeys),
			JoinDate: runDate,
			Notes:    stringField(raw, "notes"),
		}
		if v := stringField(raw, "join_date"); v != "" {
			if d, err := time.Parse("2006-01-02", v); err == nil {
				m.JoinDate = d
			} else {
				result.DefaultedDates++
			}
		}
		result.Members = append(result.Members, m)
	}
	return result
}

// DecodeMemberFile parses an uploaded member list: a JSON array of objects
// or a single object.
func DecodeMemberFile(data []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("decode member file: %w", core.ErrEmptyDescription)
	}
	if strings.HasPrefix(trimmed, "[") {
		var raws []map[string]any
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("decode member array: %w", err)
		}
		return raws, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode member object: %w", err)
	}
	return []map[string]any{raw}, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if v := stringField(raw, k); v != "" {
			return v
		}
	}
	return ""
}

func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
