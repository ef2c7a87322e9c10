package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// SnapshotVersion tags snapshots written by this service. Untagged objects
// carrying a contentHtml key predate the tag and are read as structured too.
const SnapshotVersion = 2

type SnapshotFormat string

const (
	SnapshotStructured SnapshotFormat = "structured"
	SnapshotLegacy     SnapshotFormat = "legacy"
)

// Snapshot is the content-bearing part of an article kept for one-level undo
type Snapshot struct {
	Version         int      `json:"version"`
	ContentHTML     string   `json:"contentHtml"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	Tags            []string `json:"tags"`
}

// SnapshotOf captures the tracked fields of a.
func SnapshotOf(a *Article) Snapshot {
	tags := make([]string, len(a.Tags))
	copy(tags, a.Tags)
	return Snapshot{
		Version:         SnapshotVersion,
		ContentHTML:     a.ContentHTML,
		Title:           a.Title,
		MetaDescription: a.MetaDescription,
		Tags:            tags,
	}
}

// Encode serializes s into the value stored in previousContentHtml.
func (s Snapshot) Encode() (string, error) {
	s.Version = SnapshotVersion
	if s.Tags == nil {
		s.Tags = []string{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSnapshot reads a stored previousContentHtml value. Anything that is
// not a structured snapshot is returned as a legacy snapshot whose
// ContentHTML is the raw value.
func DecodeSnapshot(raw string) (Snapshot, SnapshotFormat) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &fields); err == nil {
			_, tagged := fields["version"]
			_, hasContent := fields["contentHtml"]
			if tagged || hasContent {
				return decodeStructured(fields), SnapshotStructured
			}
		}
	}
	return Snapshot{ContentHTML: raw}, SnapshotLegacy
}

func decodeStructured(fields map[string]json.RawMessage) Snapshot {
	var s Snapshot
	_ = json.Unmarshal(fields["version"], &s.Version)
	s.ContentHTML = decodeString(fields["contentHtml"])
	s.Title = decodeString(fields["title"])
	s.MetaDescription = decodeString(fields["metaDescription"])
	s.Tags = DecodeTags(fields["tags"])
	return s
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 {
		return ""
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// DecodeTags accepts a JSON array, a JSON string holding a JSON array
// (how the first structured snapshots stored the tags column verbatim),
// or a JSON string with comma separated tags.
func DecodeTags(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []string{}
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err == nil {
		return tags
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return []string{}
	}
	return ParseTagList(s)
}

// ParseTagList parses "a, b" or `["a","b"]` into a tag slice.
func ParseTagList(s string) []string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(s), &tags); err == nil {
			return tags
		}
	}

	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
