package agent

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/droverhq/drover/pkg/types"
)

// ServiceManager controls and inspects the services managed on this
// host. The default implementation drives systemd; tests substitute a
// fake.
type ServiceManager interface {
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Restart(ctx context.Context, name string) error
	Status(ctx context.Context, name string) (types.ServiceStatus, error)
	List(ctx context.Context) ([]*types.Service, error)
}

// SystemdManager manages services through systemctl
type SystemdManager struct {
	// Timeout bounds each systemctl invocation
	Timeout time.Duration
}

// NewSystemdManager returns a manager with a 30s per-command timeout
func NewSystemdManager() *SystemdManager {
	return &SystemdManager{Timeout: 30 * time.Second}
}

func (m *SystemdManager) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "systemctl", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(out.String())
		}
		return out.String(), fmt.Errorf("systemctl %s: %w (%s)", strings.Join(args, " "), err, msg)
	}
	return out.String(), nil
}

func (m *SystemdManager) Start(ctx context.Context, name string) error {
	_, err := m.run(ctx, "start", name)
	return err
}

func (m *SystemdManager) Stop(ctx context.Context, name string) error {
	_, err := m.run(ctx, "stop", name)
	return err
}

func (m *SystemdManager) Restart(ctx context.Context, name string) error {
	_, err := m.run(ctx, "restart", name)
	return err
}

// Status maps systemd active-state onto the wire service status.
// is-active exits non-zero for anything but "active", so the output is
// inspected before the error.
func (m *SystemdManager) Status(ctx context.Context, name string) (types.ServiceStatus, error) {
	out, err := m.run(ctx, "is-active", name)
	state := strings.TrimSpace(out)
	switch state {
	case "active", "activating", "reloading":
		return types.ServiceStatusRunning, nil
	case "inactive", "deactivating":
		return types.ServiceStatusStopped, nil
	case "failed":
		return types.ServiceStatusError, nil
	}
	if err != nil {
		return types.ServiceStatusUnknown, err
	}
	return types.ServiceStatusUnknown, nil
}

// List enumerates service units. Unit state maps the same way Status
// does; template instances are reported under their full unit name.
func (m *SystemdManager) List(ctx context.Context) ([]*types.Service, error) {
	out, err := m.run(ctx, "list-units", "--type=service", "--all", "--no-legend", "--plain")
	if err != nil {
		return nil, err
	}
	return parseUnits(out), nil
}

// parseUnits converts `systemctl list-units --plain` output lines
// (UNIT LOAD ACTIVE SUB DESCRIPTION...) into service snapshots
func parseUnits(out string) []*types.Service {
	var services []*types.Service
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		unit := fields[0]
		if !strings.HasSuffix(unit, ".service") {
			continue
		}

		name := strings.TrimSuffix(unit, ".service")
		status := types.ServiceStatusUnknown
		switch fields[2] {
		case "active":
			status = types.ServiceStatusRunning
		case "inactive":
			status = types.ServiceStatusStopped
		case "failed":
			status = types.ServiceStatusError
		}

		services = append(services, &types.Service{
			Name:        name,
			DisplayName: strings.Join(fields[4:], " "),
			Status:      status,
			IsActive:    status == types.ServiceStatusRunning,
		})
	}
	return services
}
