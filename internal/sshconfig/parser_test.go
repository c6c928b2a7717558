package sshconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sshTunnelManager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicBlocks(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	content := `
# global defaults
Host *
    User nobody

Host prod
    HostName 10.0.0.5
    User deploy
    Port 2222
    IdentityFile ~/.ssh/prod_ed25519

host staging
  hostname=staging.example.com
  PORT = 22
  ProxyJump bastion

Host web1 web2 *.internal !blocked
  User www
`
	hosts, err := Parse(strings.NewReader(content), "/home/tester/.ssh")
	require.NoError(t, err)

	require.Len(t, hosts, 4)
	assert.Equal(t, models.Host{
		Name:         "prod",
		HostName:     "10.0.0.5",
		User:         "deploy",
		Port:         2222,
		IdentityFile: "/home/tester/.ssh/prod_ed25519",
	}, hosts[0])
	assert.Equal(t, models.Host{
		Name:      "staging",
		HostName:  "staging.example.com",
		Port:      22,
		ProxyJump: "bastion",
	}, hosts[1])
	assert.Equal(t, "web1", hosts[2].Name)
	assert.Equal(t, "www", hosts[2].User)
	assert.Equal(t, "web2", hosts[3].Name)
	assert.Equal(t, "www", hosts[3].User)
}

func TestParseIgnoresMatchBodyAndBadPort(t *testing.T) {
	content := `
Host a
  Port notaport
Match host a
  User shouldnotapply
Host b
  Port 70000
`
	hosts, err := Parse(strings.NewReader(content), "")
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	assert.Equal(t, 0, hosts[0].Port)
	assert.Empty(t, hosts[0].User)
	assert.Equal(t, 0, hosts[1].Port)
}

func TestParseFirstDefinitionWins(t *testing.T) {
	content := "Host dup\n  User first\nHost dup\n  User second\n"
	hosts, err := Parse(strings.NewReader(content), "")
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "first", hosts[0].User)
}

func TestLoadFollowsIncludes(t *testing.T) {
	dir := t.TempDir()
	confd := filepath.Join(dir, "conf.d")
	require.NoError(t, os.MkdirAll(confd, 0o700))

	require.NoError(t, os.WriteFile(filepath.Join(confd, "a.conf"), []byte("Host alpha\n  HostName alpha.local\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(confd, "b.conf"), []byte("Host beta\n"), 0o600))
	// directories matched by the glob are skipped
	require.NoError(t, os.MkdirAll(filepath.Join(confd, "c.conf"), 0o700))

	main := filepath.Join(dir, "config")
	content := `
Host first
  User me
  Include conf.d/*.conf
Host last
`
	require.NoError(t, os.WriteFile(main, []byte(content), 0o600))

	hosts, err := Load(main)
	require.NoError(t, err)

	var names []string
	for _, h := range hosts {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"first", "alpha", "beta", "last"}, names)
	assert.Equal(t, "me", hosts[0].User)
	assert.Equal(t, "alpha.local", hosts[1].HostName)
}

func TestLoadRecursiveIncludeTerminates(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(main, []byte("Include config\nHost loop\n"), 0o600))

	hosts, err := Load(main)
	require.NoError(t, err)
	require.Len(t, hosts, 1)
	assert.Equal(t, "loop", hosts[0].Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
