package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .textlens.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to textlens! Let's configure the detector connection.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Detector URL.
	urlPrompt := promptui.Prompt{
		Label:   "Detection service URL",
		Default: cfg.APIURL,
		Validate: func(s string) error {
			probe := *cfg
			probe.APIURL = s
			return probe.Validate()
		},
	}
	apiURL, err := urlPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("api url: %w", err)
	}
	cfg.APIURL = strings.TrimRight(apiURL, "/")

	// 2. Request timeout.
	timeoutPrompt := promptui.Prompt{
		Label:    "Request timeout in seconds",
		Default:  strconv.Itoa(cfg.TimeoutSeconds),
		Validate: positiveInt,
	}
	timeoutStr, err := timeoutPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("timeout: %w", err)
	}
	cfg.TimeoutSeconds, _ = strconv.Atoi(timeoutStr)

	// 3. History storage.
	historyPrompt := promptui.Select{
		Label: "Keep a local history of analyses?",
		Items: []string{"yes", "no"},
	}
	historyIdx, _, err := historyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("history selection: %w", err)
	}
	cfg.SaveHistory = historyIdx == 0

	// 4. Dashboard port.
	portPrompt := promptui.Prompt{
		Label:    "Dashboard port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: positiveInt,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	// 5. Upload types.
	extPrompt := promptui.Prompt{
		Label:   "Allowed upload extensions (comma-separated)",
		Default: strings.Join(cfg.AllowedExtensions, ","),
	}
	extStr, err := extPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("extensions: %w", err)
	}
	cfg.AllowedExtensions = normalizeExtensions(splitAndTrim(extStr))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Save(DefaultPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultPath)
	return cfg, nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// normalizeExtensions lower-cases extensions and adds a missing leading dot.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// splitAndTrim splits a comma-separated string and trims whitespace from each element.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
