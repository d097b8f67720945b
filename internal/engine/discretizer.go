package engine

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
)

// missingValueSentinel is what an unresolved name is assigned after
// every parsing stage has been tried (§4.2 step 5).
const missingValueSentinel = "Error: Value not found or parsed."

// Discretize maps raw LLM text to a mapping name -> string, guaranteeing
// every entry in names is present in the result. The parsing ladder
// stops at the first stage that assigns a value for a given name;
// later stages only fill in names still missing (§4.2).
func Discretize(logger *slog.Logger, text string, names []string) map[string]string {
	result := make(map[string]string, len(names))

	assignFromJSONObject(text, names, result)
	assignFromJSONArray(text, names, result)
	assignFromEmbeddedJSON(text, names, result)
	assignFromLines(text, names, result)
	assignSingletonFallback(text, names, result)

	for _, name := range names {
		if _, ok := result[name]; !ok {
			if logger != nil {
				logger.Warn("discretizer: value not found or parsed", "name", name)
			}
			result[name] = missingValueSentinel
		}
	}
	return result
}

func assignFromJSONObject(text string, names []string, result map[string]string) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return
	}
	for _, name := range names {
		if _, done := result[name]; done {
			continue
		}
		if value, ok := obj[name]; ok {
			result[name] = stringify(value)
		}
	}
}

func assignFromJSONArray(text string, names []string, result map[string]string) {
	var arr []any
	if err := json.Unmarshal([]byte(text), &arr); err != nil {
		return
	}
	if len(arr) != len(names) {
		return
	}
	for i, name := range names {
		if _, done := result[name]; done {
			continue
		}
		result[name] = stringify(arr[i])
	}
}

// assignFromEmbeddedJSON handles an object embedded in surrounding
// prose (LLMs routinely wrap the JSON reply in an explanation or
// markdown fence). encoding/json rejects trailing data after the
// top-level value, so this stage locates the outermost braces and
// probes it with gjson instead of requiring the whole text to parse.
func assignFromEmbeddedJSON(text string, names []string, result map[string]string) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return
	}
	blob := text[start : end+1]
	if !gjson.Valid(blob) {
		return
	}
	for _, name := range names {
		if _, done := result[name]; done {
			continue
		}
		if v := gjson.Get(blob, name); v.Exists() {
			result[name] = v.String()
		}
	}
}

func assignFromLines(text string, names []string, result map[string]string) {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, done := result[name]; !done {
			wanted[name] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if _, ok := wanted[key]; !ok {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		result[key] = value
	}
}

func assignSingletonFallback(text string, names []string, result map[string]string) {
	if len(names) != 1 {
		return
	}
	name := names[0]
	if _, done := result[name]; done {
		return
	}
	result[name] = strings.TrimSpace(text)
}
