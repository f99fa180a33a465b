package envfile

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported env file formats. Keys end up in very different places in
// practice: dotenv files, direnv scripts, compose files, Kubernetes
// manifests, systemd units, and plain shell exports all count.
type format string

const (
	formatDotEnv  format = "dotenv"
	formatEnvrc   format = "envrc"
	formatCompose format = "compose"
	formatK8s     format = "k8s"
	formatSystemd format = "systemd"
	formatShell   format = "shell"
)

var exportRegex = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)

// detectFormat determines the format of an environment file from its name.
func detectFormat(path string) format {
	filename := filepath.Base(path)

	switch {
	case filename == ".envrc":
		return formatEnvrc
	case strings.HasPrefix(filename, ".env"):
		return formatDotEnv
	case strings.HasPrefix(filename, "docker-compose."):
		return formatCompose
	case strings.HasSuffix(filename, ".service"):
		return formatSystemd
	case strings.HasSuffix(filename, ".sh"), strings.HasSuffix(filename, ".bash"):
		return formatShell
	}

	if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		if strings.Contains(filename, "configmap") || strings.Contains(filename, "secret") {
			return formatK8s
		}
	}

	return formatDotEnv
}

// parseFile parses a single environment file with the parser for its format.
// A missing file yields an empty map, not an error.
func parseFile(path string) (map[string]string, error) {
	switch detectFormat(path) {
	case formatEnvrc, formatShell:
		return parseExportLines(path)
	case formatCompose:
		return parseCompose(path)
	case formatK8s:
		return parseK8s(path)
	case formatSystemd:
		return parseSystemd(path)
	default:
		return parseDotEnv(path)
	}
}

// forEachLine runs fn over the trimmed non-empty, non-comment lines of path.
func forEachLine(path string, fn func(line string)) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// parseDotEnv parses a standard KEY=value file
func parseDotEnv(path string) (map[string]string, error) {
	vars := make(map[string]string)

	err := forEachLine(path, func(line string) {
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			// Malformed line, possibly part of a multiline value
			return
		}
		key := strings.TrimSpace(strings.TrimPrefix(parts[0], "export "))
		value := trimQuotes(strings.TrimSpace(parts[1]))
		if key != "" {
			vars[key] = value
		}
	})

	return vars, err
}

// parseExportLines handles .envrc and shell scripts: export VAR=value
func parseExportLines(path string) (map[string]string, error) {
	vars := make(map[string]string)

	err := forEachLine(path, func(line string) {
		matches := exportRegex.FindStringSubmatch(line)
		if len(matches) == 3 {
			key := matches[1]
			value := trimQuotes(strings.TrimSpace(matches[2]))
			if key != "" {
				vars[key] = value
			}
		}
	})

	return vars, err
}

// parseCompose extracts service environment sections from docker-compose files
func parseCompose(path string) (map[string]string, error) {
	vars := make(map[string]string)

	doc, err := decodeYAMLFile(path)
	if doc == nil || err != nil {
		return vars, err
	}

	services, ok := doc["services"].(map[string]interface{})
	if !ok {
		return vars, nil
	}

	for _, service := range services {
		serviceMap, ok := service.(map[string]interface{})
		if !ok {
			continue
		}

		switch env := serviceMap["environment"].(type) {
		case map[string]interface{}:
			for k, v := range env {
				vars[k] = fmt.Sprintf("%v", v)
			}
		case []interface{}:
			for _, item := range env {
				if envStr, ok := item.(string); ok {
					parts := strings.SplitN(envStr, "=", 2)
					if len(parts) == 2 {
						vars[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
					}
				}
			}
		}
	}

	return vars, nil
}

// parseK8s extracts data entries from Kubernetes ConfigMap and Secret manifests
func parseK8s(path string) (map[string]string, error) {
	vars := make(map[string]string)

	doc, err := decodeYAMLFile(path)
	if doc == nil || err != nil {
		return vars, err
	}

	kind, _ := doc["kind"].(string)
	data, ok := doc["data"].(map[string]interface{})
	if !ok {
		return vars, nil
	}

	for k, v := range data {
		val, ok := v.(string)
		if !ok {
			continue
		}
		if kind == "Secret" {
			// Secret data is base64 encoded
			if decoded, err := base64.StdEncoding.DecodeString(val); err == nil {
				vars[k] = string(decoded)
				continue
			}
		}
		vars[k] = val
	}

	return vars, nil
}

// parseSystemd extracts Environment= directives from systemd unit files
func parseSystemd(path string) (map[string]string, error) {
	vars := make(map[string]string)
	envRegex := regexp.MustCompile(`^\s*Environment\s*=\s*(.+)$`)

	err := forEachLine(path, func(line string) {
		matches := envRegex.FindStringSubmatch(line)
		if len(matches) != 2 {
			return
		}
		envStr := trimQuotes(strings.TrimSpace(matches[1]))
		parts := strings.SplitN(envStr, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			if key != "" {
				vars[key] = strings.TrimSpace(parts[1])
			}
		}
	})

	return vars, err
}

// decodeYAMLFile decodes a single YAML document, returning nil for files
// that do not parse as YAML (they are skipped, not errors)
func decodeYAMLFile(path string) (map[string]interface{}, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var doc map[string]interface{}
	if err := yaml.NewDecoder(file).Decode(&doc); err != nil {
		return nil, nil
	}
	return doc, nil
}

// trimQuotes removes surrounding quotes from a string
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') ||
			(s[0] == '`' && s[len(s)-1] == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
