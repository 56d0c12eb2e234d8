// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes example configuration files from the defaults.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/launchpod/launchpod/config"
	"codeberg.org/launchpod/launchpod/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	tomlOutputFile = "deploy/config.toml.example"
	filePerm       = 0o644
	dirPerm        = 0o755

	generatedNote = "# This file was auto-generated using go run ./cmd/genconfig.\n"

	envFileHeader = `# Launchpod configuration (via environment variables)
#
# Copy this file to .env and customize the values below.
#
` + generatedNote + "\n"

	fileHeader = `# Launchpod configuration (via configuration file)
#
# Copy this file to config.%s and customize the values below.
# Generate a secret with: openssl rand -hex 64
#
` + generatedNote
)

// essentialEnv are written uncommented.
var essentialEnv = map[string]bool{"HOST": true, "PORT": true}

func main() {
	audit.SetDefaultLogger()

	if err := os.MkdirAll("deploy", dirPerm); err != nil {
		log.Fatal().Err(err).Msg("Failed to create deploy directory")
	}

	write(envOutputFile, envFile())
	write(yamlOutputFile, yamlFile())
	write(tomlOutputFile, tomlFile())
}

func write(path, content string) {
	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to write example file")
	}

	log.Info().Str("path", path).Msg("Generated example configuration")
}

func defaults() *config.ServerConfig {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()

	return cfg
}

// envFile lists every variable read by the env tags, grouped by section.
func envFile() string {
	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*defaults())
	typ := val.Type()

	for i := range typ.NumField() {
		structField := typ.Field(i)
		structValue := val.Field(i)

		if structValue.Kind() != reflect.Struct || structField.Name == "Build" {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n", structField.Name)

		innerTyp := structValue.Type()
		for j := range innerTyp.NumField() {
			tag, ok := innerTyp.Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			name := strings.Split(tag, ",")[0]
			value := structValue.Field(j)

			switch {
			case essentialEnv[name]:
				fmt.Fprintf(&sb, "%s%s=\"%v\"\n", config.EnvPrefix, name, value.Interface())
			case value.Kind() == reflect.Slice:
				fmt.Fprintf(&sb, "# %s%s=%s\n", config.EnvPrefix, name, joinSlice(value))
			case value.Kind() == reflect.String && value.Len() == 0:
				fmt.Fprintf(&sb, "# %s%s=\n", config.EnvPrefix, name)
			default:
				fmt.Fprintf(&sb, "# %s%s=%v\n", config.EnvPrefix, name, value.Interface())
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func joinSlice(v reflect.Value) string {
	parts := make([]string, v.Len())
	for i := range v.Len() {
		parts[i] = fmt.Sprint(v.Index(i).Interface())
	}

	return strings.Join(parts, ",")
}

func yamlFile() string {
	var content strings.Builder

	encoderOpts := []yaml.EncodeOption{
		config.GetDurationEncoderOption(),
		yaml.Indent(2),
	}
	if err := yaml.NewEncoder(&content, encoderOpts...).Encode(defaults()); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to YAML")
	}

	return fmt.Sprintf(fileHeader, "yaml") + commentValues(content.String(), ":")
}

func tomlFile() string {
	var content strings.Builder

	if err := toml.NewEncoder(&content).Encode(defaults()); err != nil {
		log.Fatal().Err(err).Msg("Failed to marshal config to TOML")
	}

	return fmt.Sprintf(fileHeader, "toml") + commentValues(content.String(), "=")
}

// commentValues keeps section headers and comments out every value line.
func commentValues(content, separator string) string {
	var sb strings.Builder

	for line := range strings.SplitSeq(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "[") || (!strings.HasPrefix(line, " ") && strings.HasSuffix(trimmed, separator)) {
			fmt.Fprintf(&sb, "\n%s\n", line)

			continue
		}

		indentSize := len(line) - len(strings.TrimLeft(line, " "))
		fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indentSize), trimmed)
	}

	return sb.String()
}
