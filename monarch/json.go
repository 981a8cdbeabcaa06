package monarch

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
)

// MarshalJSON renders the definition in the shape web editors expect from a
// Monarch language: lists and patterns as top level attributes, a brackets
// array and a tokenizer object of rule arrays. Key order follows the
// definition so cases keep their meaning.
func (d *Definition) MarshalJSON() ([]byte, error) {
	var top object
	if d.TokenPostfix != "" {
		top.set("tokenPostfix", d.TokenPostfix)
	}
	if d.DefaultToken != "" {
		top.set("defaultToken", d.DefaultToken)
	}
	if d.IgnoreCase {
		top.set("ignoreCase", true)
	}
	if d.Start != "" {
		top.set("start", d.Start)
	}

	for _, name := range sortedKeys(d.Lists) {
		top.set(name, d.Lists[name])
	}
	for _, name := range sortedKeys(d.Patterns) {
		top.set(name, d.Patterns[name])
	}

	if len(d.Brackets) > 0 {
		brackets := make([]object, len(d.Brackets))
		for i, b := range d.Brackets {
			brackets[i].set("open", b.Open)
			brackets[i].set("close", b.Close)
			brackets[i].set("token", b.Token)
		}
		top.set("brackets", brackets)
	}

	start := d.Start
	if start == "" {
		start = "root"
	}
	var tokenizer object
	if rules, ok := d.States[start]; ok {
		tokenizer.set(start, jsonRules(rules))
	}
	for _, name := range sortedKeys(d.States) {
		if name != start {
			tokenizer.set(name, jsonRules(d.States[name]))
		}
	}
	top.set("tokenizer", tokenizer)

	return marshal(top)
}

// WriteJSON writes def as indented JSON.
func WriteJSON(w io.Writer, def *Definition, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	return enc.Encode(def)
}

func jsonRules(rules []Rule) []any {
	out := make([]any, len(rules))
	for i, r := range rules {
		if r.Include != "" {
			var inc object
			inc.set("include", r.Include)
			out[i] = inc
			continue
		}
		a := r.Action
		if len(a.Cases) == 0 && len(a.Group) == 0 {
			if a.Next != "" {
				out[i] = []any{r.Regex, a.Token, a.Next}
			} else {
				out[i] = []any{r.Regex, a.Token}
			}
			continue
		}
		out[i] = []any{r.Regex, jsonAction(a)}
	}
	return out
}

func jsonAction(a Action) any {
	switch {
	case len(a.Group) > 0:
		group := make([]any, len(a.Group))
		for i, g := range a.Group {
			group[i] = jsonAction(g)
		}
		return group
	case len(a.Cases) > 0:
		var cases object
		for _, c := range a.Cases {
			cases.set(c.Guard, jsonAction(c.Action))
		}
		var obj object
		obj.set("cases", cases)
		if a.Next != "" {
			obj.set("next", a.Next)
		}
		return obj
	case a.Next != "":
		var obj object
		obj.set("token", a.Token)
		obj.set("next", a.Next)
		return obj
	}
	return a.Token
}

// object is a JSON object that keeps insertion order.
type object struct {
	keys []string
	vals []any
}

func (o *object) set(key string, val any) {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshal(o.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping; regexes are full of '<'
// and '&'.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
