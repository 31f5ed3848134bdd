package hostdb

import "strings"

// RewriteGenericNotation converts raw descriptor generic spellings
// into engine display names:
//
//	Array`1 + Generic<[[Foo, Core]]>  →  Array[Foo]
//	Dictionary`2[[K, …],[V, …]]       →  Dictionary[K, V]
//
// Names without a backtick pass through untouched.
func RewriteGenericNotation(raw string) string {
	tick := strings.IndexByte(raw, '`')
	if tick < 0 {
		return raw
	}
	head := raw[:tick]
	open := strings.Index(raw, "[[")
	if open < 0 {
		return head
	}
	close := strings.LastIndex(raw, "]]")
	if close < open {
		return head
	}
	inner := raw[open+2 : close]
	// inner is "Foo, Core],[Bar, Core" for two arguments.
	var args []string
	for _, group := range strings.Split(inner, "],[") {
		name := group
		if comma := strings.IndexByte(group, ','); comma >= 0 {
			name = group[:comma]
		}
		name = strings.TrimSpace(name)
		// Assembly-qualified names carry namespaces; the display
		// layer keeps only the simple name.
		if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
			name = name[dot+1:]
		}
		if name != "" {
			args = append(args, name)
		}
	}
	if len(args) == 0 {
		return head
	}
	return head + "[" + strings.Join(args, ", ") + "]"
}
