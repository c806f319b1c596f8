package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const module = "genoparse/"

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.." // module root
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// Parsers are a library: no application packages, no logging, no CLI.
	bans := map[string][]string{
		"genoparse/core/": {
			"genoparse/internal/", "genoparse/cmd/",
			"log", "log/slog", "github.com/alecthomas/kong",
		},
		"genoparse/internal/formats": {
			"genoparse/internal/app", "genoparse/internal/writers",
			"genoparse/internal/sqlitesink", "genoparse/cmd/",
		},
		"genoparse/internal/writers": {
			"genoparse/internal/app", "genoparse/internal/formats",
			"genoparse/internal/sqlitesink", "genoparse/cmd/",
		},
		"genoparse/internal/sqlitesink": {
			"genoparse/internal/app", "genoparse/internal/writers", "genoparse/cmd/",
		},
		"genoparse/internal/digest": {
			"genoparse/internal/app", "genoparse/internal/writers",
			"genoparse/internal/sqlitesink", "genoparse/cmd/",
		},
		"genoparse/internal/logging": {
			"genoparse/core/", "genoparse/internal/app", "genoparse/cmd/",
		},
	}

	var violations []string
	seen := 0
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, module) {
			continue
		}
		seen++
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(p.ImportPath, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				for _, ban := range forbidden {
					if dep == ban || (strings.HasSuffix(ban, "/") && strings.HasPrefix(dep, ban)) ||
						(strings.HasPrefix(ban, module) && strings.HasPrefix(dep, ban)) {
						violations = append(violations, p.ImportPath+" → "+dep)
					}
				}
			}
		}
	}

	if seen < 10 {
		t.Fatalf("go list saw only %d module packages; wrong working directory?", seen)
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
