package copyright

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ConfigError is a fatal configuration problem; no processing is
// attempted once one is raised.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// License is the project license, parsed once per run. Identifier holds
// the short-form tag line (e.g. "SPDX-License-Identifier: MIT") when the
// license file contains one; Text holds the remaining license body with
// tag lines removed and leading/trailing blank lines stripped.
type License struct {
	Identifier string
	Text       []string
}

// LoadLicense reads and parses the license file at path. At most one line
// beginning with spdxPrefix may be present; a second is a ConfigError.
func LoadLicense(path, spdxPrefix string) (License, error) {
	f, err := os.Open(path)
	if err != nil {
		return License{}, fmt.Errorf("opening license file: %w", err)
	}
	defer f.Close()

	var lic License
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t")
		if strings.HasPrefix(strings.TrimSpace(line), spdxPrefix) {
			if lic.Identifier != "" {
				return License{}, &ConfigError{Message: fmt.Sprintf(
					"multiple %q lines in %s", spdxPrefix, path)}
			}
			lic.Identifier = strings.TrimSpace(line)
			continue
		}
		lic.Text = append(lic.Text, line)
	}
	if err := scanner.Err(); err != nil {
		return License{}, fmt.Errorf("reading license file: %w", err)
	}

	for len(lic.Text) > 0 && lic.Text[0] == "" {
		lic.Text = lic.Text[1:]
	}
	for len(lic.Text) > 0 && lic.Text[len(lic.Text)-1] == "" {
		lic.Text = lic.Text[:len(lic.Text)-1]
	}
	return lic, nil
}
