//
// Copyright 2018-2025 Cristian Maglie. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//

// Package rcfile resolves the service endpoint and credentials from the
// environment and from the rc file (~/.cdsapirc by default).
//
// The rc file contains one "name: value" entry per line:
//
//	url: https://cds.example.org/api/v2
//	key: 1234:abcd-efgh
//	verify: 0
package rcfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.bug.st/retriever"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load
const (
	EnvURL = "CDSAPI_URL"
	EnvKey = "CDSAPI_KEY"
	EnvRC  = "CDSAPI_RC"
)

// Settings is the resolved configuration
type Settings struct {
	URL    string
	Key    string
	Verify bool
	// Path is the rc file that was consulted, if any
	Path string
}

// Options override the values found in the environment and in the rc file.
// Empty fields are ignored.
type Options struct {
	URL    string
	Key    string
	Verify *bool
	// Path of the rc file, defaults to $CDSAPI_RC or ~/.cdsapirc
	Path string
}

// DefaultPath returns the rc file path used when none is given
func DefaultPath() string {
	if p := os.Getenv(EnvRC); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cdsapirc"
	}
	return filepath.Join(home, ".cdsapirc")
}

// Load resolves the settings. Explicit options win over the environment,
// the environment wins over the rc file. The rc file is read only if the
// url or the key are still missing.
func Load(opts Options) (Settings, error) {
	s := Settings{
		URL:    opts.URL,
		Key:    opts.Key,
		Verify: true,
	}
	if s.URL == "" {
		s.URL = os.Getenv(EnvURL)
	}
	if s.Key == "" {
		s.Key = os.Getenv(EnvKey)
	}

	if s.URL == "" || s.Key == "" {
		s.Path = opts.Path
		if s.Path == "" {
			s.Path = DefaultPath()
		}
		entries, err := ReadFile(s.Path)
		if err != nil && !os.IsNotExist(err) {
			return s, err
		}
		if s.URL == "" {
			s.URL = entries["url"]
		}
		if s.Key == "" {
			s.Key = entries["key"]
		}
		if v, ok := entries["verify"]; ok {
			verify, err := parseFlag(v)
			if err != nil {
				return s, fmt.Errorf("%s: %w", s.Path, err)
			}
			s.Verify = verify
		}
	}
	if opts.Verify != nil {
		s.Verify = *opts.Verify
	}

	if s.URL == "" {
		return s, &retriever.ConfigurationError{Field: "url", Source: s.Path}
	}
	if s.Key == "" {
		return s, &retriever.ConfigurationError{Field: "key", Source: s.Path}
	}
	return s, nil
}

// Config returns a retriever.Config with Endpoint, APIKey and the TLS
// verification policy set from the settings.
func (s Settings) Config() retriever.Config {
	return retriever.Config{
		Endpoint:           s.URL,
		APIKey:             s.Key,
		InsecureSkipVerify: !s.Verify,
	}
}

// MaskedKey returns the key with the secret part hidden
func (s Settings) MaskedKey() string {
	user, secret, found := strings.Cut(s.Key, ":")
	if !found {
		return strings.Repeat("*", len(s.Key))
	}
	if len(secret) > 4 {
		secret = strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
	} else {
		secret = strings.Repeat("*", len(secret))
	}
	return user + ":" + secret
}

// ReadFile parses an rc file and returns its entries. Values are trimmed.
func ReadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes the content of an rc file. The file is read as a YAML
// mapping to locate the entries, but values are kept untyped: scalars are
// taken verbatim and anything else (comments, flow values) is the raw
// text after the first colon of the line. If the file is not a YAML
// mapping each line is split on its first colon.
func Parse(data []byte) (map[string]string, error) {
	lines := strings.Split(string(data), "\n")

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil {
		if len(doc.Content) == 0 {
			return map[string]string{}, nil
		}
		if m := doc.Content[0]; m.Kind == yaml.MappingNode {
			res := map[string]string{}
			for i := 0; i+1 < len(m.Content); i += 2 {
				key, value := m.Content[i], m.Content[i+1]
				if value.Kind == yaml.ScalarNode && value.LineComment == "" && key.LineComment == "" && value.Tag != "!!null" {
					res[key.Value] = strings.TrimSpace(value.Value)
					continue
				}
				res[key.Value] = rawValue(lines, key.Line)
			}
			return res, nil
		}
	}

	res := map[string]string{}
	for n, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, found := strings.Cut(line, ":")
		if !found {
			return nil, fmt.Errorf("line %d: missing ':' separator", n+1)
		}
		res[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return res, nil
}

// rawValue returns the text after the first colon of line n (1-based)
func rawValue(lines []string, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	_, v, _ := strings.Cut(lines[n-1], ":")
	return strings.TrimSpace(v)
}

// parseFlag decodes the verify entry: 1/0, true/false, yes/no, on/off.
func parseFlag(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n != 0, nil
	}
	return false, fmt.Errorf("invalid verify value %q", v)
}
