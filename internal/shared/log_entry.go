package shared

import (
	"encoding/json"
	"strings"
)

// LogEntry is one semi-structured application log record. The four
// well-known fields are lifted out; everything else the application
// wrote lands in Extra and survives re-serialization.
type LogEntry struct {
	Time    string
	Level   string
	Msg     string
	Service string
	Extra   map[string]any
}

func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Time = popString(raw, "time")
	e.Level = popString(raw, "level")
	e.Msg = popString(raw, "msg")
	e.Service = popString(raw, "service")
	if len(raw) > 0 {
		e.Extra = raw
	} else {
		e.Extra = nil
	}
	return nil
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+4)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["time"] = e.Time
	out["level"] = e.Level
	out["msg"] = e.Msg
	if e.Service != "" {
		out["service"] = e.Service
	}
	return json.Marshal(out)
}

// MatchesLevel reports whether the entry passes a level filter.
// The filter value "all" (or empty) passes everything.
func (e LogEntry) MatchesLevel(level string) bool {
	if level == "" || strings.EqualFold(level, "all") {
		return true
	}
	return strings.EqualFold(e.Level, level)
}

// MatchesSearch does a case-insensitive substring match against the
// fully serialized record, so values in Extra are searchable too.
func (e LogEntry) MatchesSearch(query string) bool {
	if query == "" {
		return true
	}
	serialized, err := json.Marshal(e)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(serialized)), strings.ToLower(query))
}

func popString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	delete(m, key)
	s, _ := v.(string)
	return s
}
