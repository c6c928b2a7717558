package cli

import (
	"fmt"
	"strconv"

	"sshTunnelManager/internal/history"
	"sshTunnelManager/internal/models"
	"sshTunnelManager/internal/ui"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHostsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hosts",
		Short: "List hosts from the ssh config with their usage history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := loadEnv(root, cmd.ErrOrStderr())
			defer e.Close()

			if len(e.hosts) == 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No hosts found in %s\n", e.cfg.General.SSHConfigPath)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), hostsTable(e.hosts, e.history))
			return nil
		},
	}
}

// hostsTable lists recently used hosts first, then the rest in config order.
func hostsTable(hosts []models.Host, h history.History) string {
	byName := make(map[string]models.Host, len(hosts))
	for _, host := range hosts {
		byName[host.Name] = host
	}

	var ordered []models.Host
	seen := make(map[string]bool)
	for _, name := range h.RecentHosts() {
		if host, ok := byName[name]; ok {
			ordered = append(ordered, host)
			seen[name] = true
		}
	}
	for _, host := range hosts {
		if !seen[host.Name] {
			ordered = append(ordered, host)
		}
	}

	rows := make([][]string, 0, len(ordered))
	for _, host := range ordered {
		uses, last, tunnels := "0", "never", "0"
		if entry, ok := h.Entry(host.Name); ok {
			uses = strconv.Itoa(entry.UseCount)
			last = humanize.Time(entry.LastUsed)
			tunnels = strconv.Itoa(len(entry.Tunnels))
		}
		addr := host.Target()
		if host.EffectivePort() != models.DefaultPort {
			addr += ":" + strconv.Itoa(host.EffectivePort())
		}
		rows = append(rows, []string{host.Name, addr, uses, last, tunnels})
	}
	return ui.CreateLipglossTable([]string{"Host", "Address", "Uses", "Last used", "Tunnels"}, rows)
}
