package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sfc-tools/tsconf/internal/hostfs"
	"github.com/sfc-tools/tsconf/internal/tsc"
)

// parseRewrite parses a SUFFIX:EXT[,EXT] flag value, e.g. ".ts:.vue,.svelte".
func parseRewrite(value string) (hostfs.RewriteRule, error) {
	suffix, list, ok := strings.Cut(value, ":")
	if !ok || suffix == "" || list == "" {
		return hostfs.RewriteRule{}, fmt.Errorf("invalid rewrite rule %q: expected SUFFIX:EXT[,EXT]", value)
	}

	rule := hostfs.RewriteRule{Suffix: suffix}
	for _, ext := range strings.Split(list, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		rule.Extensions = append(rule.Extensions, ext)
	}
	if len(rule.Extensions) == 0 {
		return hostfs.RewriteRule{}, fmt.Errorf("invalid rewrite rule %q: no extensions", value)
	}
	return rule, nil
}

func parseRewrites(values []string) ([]hostfs.RewriteRule, error) {
	var rules []hostfs.RewriteRule
	for _, value := range values {
		rule, err := parseRewrite(value)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// parseCompilerOptions parses KEY=VALUE flag values. VALUE is decoded as
// JSON when it is valid JSON and kept as a plain string otherwise.
func parseCompilerOptions(values []string) (tsc.Options, error) {
	options := tsc.Options{}
	for _, value := range values {
		key, raw, ok := strings.Cut(value, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid compiler option %q: expected KEY=VALUE", value)
		}

		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			decoded = raw
		}
		options[key] = decoded
	}
	return options, nil
}
