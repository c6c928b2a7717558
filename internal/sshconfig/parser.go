// Package sshconfig reads host entries from an OpenSSH client config file.
package sshconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/utils"
)

const maxIncludeDepth = 16

// Load parses the config at path, following Include directives.
// Hosts keep the order they appear in, first definition wins.
func Load(path string) ([]models.Host, error) {
	p := &parser{seen: make(map[string]bool)}
	if err := p.parseFile(utils.ExpandPath(path), 0); err != nil {
		return nil, err
	}
	return p.hosts, nil
}

// Parse reads config content from r. Relative Include paths resolve against dir.
func Parse(r io.Reader, dir string) ([]models.Host, error) {
	p := &parser{seen: make(map[string]bool)}
	if err := p.parse(r, dir, 0); err != nil {
		return nil, err
	}
	return p.hosts, nil
}

type parser struct {
	hosts []models.Host
	seen  map[string]bool
}

func (p *parser) parseFile(path string, depth int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read ssh config at %s: %w", path, err)
	}
	defer f.Close()
	return p.parse(f, filepath.Dir(path), depth)
}

func (p *parser) parse(r io.Reader, dir string, depth int) error {
	var block []models.Host

	flush := func() {
		for _, h := range block {
			if p.seen[h.Name] {
				continue
			}
			p.seen[h.Name] = true
			p.hosts = append(p.hosts, h)
		}
		block = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keyword, value, ok := splitLine(line)
		if !ok {
			continue
		}

		switch strings.ToLower(keyword) {
		case "host":
			flush()
			for _, name := range hostNames(value) {
				block = append(block, models.Host{Name: name})
			}
		case "match":
			flush()
		case "include":
			flush()
			if depth < maxIncludeDepth {
				p.include(value, dir, depth+1)
			}
		default:
			for i := range block {
				apply(&block[i], strings.ToLower(keyword), value)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan ssh config: %w", err)
	}
	flush()
	return nil
}

// include splices in hosts from every file matched by the Include value.
// Files that can't be read are skipped.
func (p *parser) include(value, dir string, depth int) {
	for _, pattern := range strings.Fields(value) {
		pattern = utils.ResolvePath(pattern, dir)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, path := range matches {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			_ = p.parseFile(path, depth)
		}
	}
}

func apply(h *models.Host, keyword, value string) {
	switch keyword {
	case "hostname":
		h.HostName = value
	case "user":
		h.User = value
	case "port":
		if port, err := strconv.Atoi(value); err == nil && port > 0 && port <= 65535 {
			h.Port = port
		}
	case "identityfile":
		h.IdentityFile = utils.ExpandPath(unquote(value))
	case "proxyjump":
		h.ProxyJump = value
	}
}

// splitLine splits "Keyword value" or "Keyword=value".
func splitLine(line string) (string, string, bool) {
	i := strings.IndexFunc(line, func(r rune) bool {
		return r == '=' || r == ' ' || r == '\t'
	})
	if i <= 0 {
		return "", "", false
	}
	keyword := line[:i]
	rest := strings.TrimLeft(line[i:], " \t")
	rest = strings.TrimPrefix(rest, "=")
	value := strings.TrimSpace(rest)
	if value == "" {
		return "", "", false
	}
	return keyword, value, true
}

// hostNames returns the concrete aliases of a Host line. Wildcard and
// negated patterns are not connectable and are dropped.
func hostNames(value string) []string {
	var names []string
	for _, pattern := range strings.Fields(value) {
		if strings.HasPrefix(pattern, "!") || strings.ContainsAny(pattern, "*?") {
			continue
		}
		names = append(names, unquote(pattern))
	}
	return names
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
