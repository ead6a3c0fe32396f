// Package nmcli implements wifi.Backend by spawning the nmcli helper binary
// and parsing its terse (-t) output. It satisfies the same contract as the
// D-Bus backend, so the rest of the system cannot tell them apart.
package nmcli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/airtui/airtui/wifi"
)

// Backend shells out to nmcli for every operation.
type Backend struct {
	// Path to the nmcli binary, resolved in New.
	path string
}

// New creates an nmcli backend, failing with ErrBackendUnavailable when the
// binary is not on PATH.
func New() (*Backend, error) {
	path, err := exec.LookPath("nmcli")
	if err != nil {
		return nil, fmt.Errorf("nmcli not found: %w", wifi.ErrBackendUnavailable)
	}
	return &Backend{path: path}, nil
}

func (b *Backend) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, b.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("nmcli %s: %w", args[0], wifi.ErrBackendTimeout)
		}
		return "", mapError(stderr.String(), err)
	}
	return stdout.String(), nil
}

// mapError translates nmcli stderr text into the shared error taxonomy.
// nmcli has no machine-readable error channel, so this is string matching,
// same as every other nmcli consumer.
func mapError(stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "secrets were required"),
		strings.Contains(lower, "no secrets provided"):
		return fmt.Errorf("%s: %w", msg, wifi.ErrAuthRejected)
	case strings.Contains(lower, "password") && strings.Contains(lower, "required"):
		return fmt.Errorf("%s: %w", msg, wifi.ErrAuthRequired)
	case strings.Contains(lower, "no network with ssid"),
		strings.Contains(lower, "not find"),
		strings.Contains(lower, "unknown connection"):
		return fmt.Errorf("%s: %w", msg, wifi.ErrNotFound)
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"):
		return fmt.Errorf("%s: %w", msg, wifi.ErrBackendTimeout)
	case strings.Contains(lower, "networkmanager is not running"):
		return fmt.Errorf("%s: %w", msg, wifi.ErrBackendUnavailable)
	case strings.Contains(lower, "activation failed"):
		return fmt.Errorf("%s: %w", msg, wifi.ErrUnreachable)
	}
	if msg == "" {
		return err
	}
	return fmt.Errorf("nmcli: %s", msg)
}

// splitFields splits one line of `nmcli -t` output on unescaped colons.
// nmcli escapes literal colons and backslashes with a backslash.
func splitFields(line string) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// parseSecurity maps nmcli's SECURITY column to a SecurityType.
func parseSecurity(s string) wifi.SecurityType {
	switch {
	case s == "" || s == "--":
		return wifi.SecurityOpen
	case strings.Contains(s, "802.1X"):
		return wifi.SecurityEnterprise
	case strings.Contains(s, "WPA3") || strings.Contains(s, "SAE"):
		return wifi.SecurityWPA3
	case strings.Contains(s, "WPA"):
		return wifi.SecurityWPA
	case strings.Contains(s, "WEP"):
		return wifi.SecurityWEP
	}
	return wifi.SecurityUnknown
}

// parseScan parses `nmcli -t -f IN-USE,SSID,SIGNAL,FREQ,SECURITY device wifi
// list` output, grouping duplicate SSIDs and keeping the strongest access
// point (the active one wins regardless of strength).
func parseScan(out string) []wifi.Network {
	byssid := make(map[string]wifi.Network)
	var order []string

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) < 5 {
			continue
		}
		inUse := strings.TrimSpace(fields[0]) == "*"
		ssid := fields[1]
		if ssid == "" {
			continue
		}
		signal, _ := strconv.Atoi(fields[2])
		freqStr := strings.TrimSuffix(strings.TrimSpace(fields[3]), " MHz")
		freq, _ := strconv.Atoi(freqStr)

		n := wifi.Network{
			SSID:      ssid,
			Strength:  uint8(signal),
			Frequency: uint(freq),
			Security:  parseSecurity(fields[4]),
			IsActive:  inUse,
		}

		prev, seen := byssid[ssid]
		if !seen {
			byssid[ssid] = n
			order = append(order, ssid)
			continue
		}
		// Same SSID from another AP: the active AP wins, else strongest.
		if n.IsActive || (!prev.IsActive && n.Strength > prev.Strength) {
			n.IsActive = n.IsActive || prev.IsActive
			byssid[ssid] = n
		}
	}

	networks := make([]wifi.Network, 0, len(order))
	for _, ssid := range order {
		networks = append(networks, byssid[ssid])
	}
	return networks
}

func (b *Backend) Scan(ctx context.Context, rescan bool) ([]wifi.Network, error) {
	rescanArg := "no"
	if rescan {
		rescanArg = "yes"
	}
	out, err := b.run(ctx, "-t", "-f", "IN-USE,SSID,SIGNAL,FREQ,SECURITY",
		"device", "wifi", "list", "--rescan", rescanArg)
	if err != nil {
		return nil, err
	}

	networks := parseScan(out)

	// Known/autoconnect flags come from the profile list.
	profiles, err := b.SavedProfiles(ctx)
	if err != nil {
		return nil, err
	}
	saved := make(map[string]wifi.Profile, len(profiles))
	for _, p := range profiles {
		saved[p.SSID] = p
	}
	for i := range networks {
		if p, ok := saved[networks[i].SSID]; ok {
			networks[i].IsKnown = true
			networks[i].AutoConnect = p.AutoConnect
		}
	}
	wifi.SortNetworks(networks)
	return networks, nil
}

func (b *Backend) SavedProfiles(ctx context.Context) ([]wifi.Profile, error) {
	out, err := b.run(ctx, "-t", "-f", "NAME,TYPE", "connection", "show")
	if err != nil {
		return nil, err
	}

	var profiles []wifi.Profile
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := splitFields(scanner.Text())
		if len(fields) < 2 || fields[1] != "802-11-wireless" {
			continue
		}
		name := fields[0]
		profiles = append(profiles, wifi.Profile{
			SSID:        name,
			AutoConnect: b.autoConnect(ctx, name),
		})
	}
	return profiles, nil
}

// autoConnect reads a single profile's autoconnect flag. Defaults to true,
// which is also NetworkManager's default for new profiles.
func (b *Backend) autoConnect(ctx context.Context, name string) bool {
	out, err := b.run(ctx, "-g", "connection.autoconnect", "connection", "show", "id", name)
	if err != nil {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(out)) {
	case "no", "false", "0":
		return false
	}
	return true
}

func (b *Backend) Connect(ctx context.Context, ssid, password string) error {
	profiles, err := b.SavedProfiles(ctx)
	if err != nil {
		return err
	}
	for _, p := range profiles {
		if p.SSID == ssid {
			_, err := b.run(ctx, "connection", "up", "id", ssid)
			return err
		}
	}

	args := []string{"device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	_, err = b.run(ctx, args...)
	return err
}

func (b *Backend) Disconnect(ctx context.Context, ssid string) error {
	_, err := b.run(ctx, "connection", "down", "id", ssid)
	return err
}

func (b *Backend) Forget(ctx context.Context, ssid string) error {
	_, err := b.run(ctx, "connection", "delete", "id", ssid)
	return err
}

func (b *Backend) SetAutoConnect(ctx context.Context, ssid string, enabled bool) error {
	value := "no"
	if enabled {
		value = "yes"
	}
	_, err := b.run(ctx, "connection", "modify", "id", ssid, "connection.autoconnect", value)
	return err
}

func (b *Backend) Secret(ctx context.Context, ssid string) (string, error) {
	// -s allows nmcli to reveal secrets; requires sufficient privileges.
	out, err := b.run(ctx, "-s", "-g", "802-11-wireless-security.psk",
		"connection", "show", "id", ssid)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// classifyMonitorLine maps one line of `nmcli monitor` output to an event.
// Returns false for chatter we do not care about.
func classifyMonitorLine(line string) (wifi.Event, bool) {
	lower := strings.ToLower(strings.TrimSpace(line))
	switch {
	case lower == "":
		return wifi.Event{}, false
	case strings.Contains(lower, "connection profile"):
		return wifi.Event{Kind: wifi.EventProfilesChanged}, true
	case strings.Contains(lower, "connected") ||
		strings.Contains(lower, "disconnected") ||
		strings.Contains(lower, "connectivity"):
		return wifi.Event{Kind: wifi.EventStateChanged}, true
	case strings.Contains(lower, "device") && strings.Contains(lower, "state"):
		return wifi.Event{Kind: wifi.EventStateChanged}, true
	}
	return wifi.Event{}, false
}

// Events spawns `nmcli monitor` and translates its line output into the
// shared event stream. The process is killed when ctx is cancelled; if it
// dies on its own the channel closes and the caller may resubscribe.
func (b *Backend) Events(ctx context.Context) (<-chan wifi.Event, error) {
	cmd := exec.CommandContext(ctx, b.path, "monitor")
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting nmcli monitor: %w", wifi.ErrBackendUnavailable)
	}

	ch := make(chan wifi.Event, 16)
	go func() {
		defer close(ch)
		defer cmd.Wait()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			ev, ok := classifyMonitorLine(scanner.Text())
			if !ok {
				continue
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

var _ wifi.Backend = (*Backend)(nil)
