package talos

import (
	"context"

	"google.golang.org/grpc"
)

// VersionInfo is the version report of a single node.
type VersionInfo struct {
	Version  string
	Platform string
	Arch     string
}

// Container describes one container known to the node's container runtime.
type Container struct {
	Namespace string
	ID        string
	Image     string
	Status    string
}

type CPUStats struct {
	Cores        int
	UsagePercent float64
}

type MemoryStats struct {
	TotalBytes     int64
	AvailableBytes int64
	UsagePercent   float64
}

type DiskStats struct {
	TotalBytes     int64
	AvailableBytes int64
	UsagePercent   float64
}

// SystemStats aggregates the node resource statistics.
type SystemStats struct {
	CPU    CPUStats
	Memory MemoryStats
	Disk   DiskStats
}

// RebootStatus is the acknowledgement of a reboot request.
type RebootStatus struct {
	Status  string
	Message string
}

// ApplyStatus is the acknowledgement of a configuration apply.
type ApplyStatus struct {
	Status  string
	Message string
}

// EtcdStatus reports the health of the etcd member behind the endpoint.
type EtcdStatus struct {
	MemberID    string
	LeaderID    string
	RaftTerm    int64
	ClusterSize int
	Healthy     bool
}

// MachineService is the call contract of the Talos machine API consumed by the
// tool handlers. All operations run over the client's established channel.
type MachineService interface {
	Version(ctx context.Context) (*VersionInfo, error)
	Containers(ctx context.Context, namespace string) ([]Container, error)
	SystemStats(ctx context.Context) (*SystemStats, error)
	ServiceLogs(ctx context.Context, service string, tailLines int64) (string, error)
	Reboot(ctx context.Context, mode string) (*RebootStatus, error)
	Kubeconfig(ctx context.Context) (string, error)
	EtcdStatus(ctx context.Context) (*EtcdStatus, error)
	ApplyConfiguration(ctx context.Context, data []byte, mode string) (*ApplyStatus, error)
}

// machineClient implements MachineService over a gRPC channel.
//
// The machined request/response bodies are not wired in yet, each call returns
// representative data until the generated machine service stubs are
// integrated.
// TODO: replace the placeholder bodies with calls through the generated
// machine.MachineServiceClient once the Talos API protos are vendored.
type machineClient struct {
	conn *grpc.ClientConn
	// endpoint is the node the caller asked for, which under the
	// single-channel cache may differ from the channel's target.
	endpoint string
}

var _ MachineService = (*machineClient)(nil)

func (m *machineClient) Version(_ context.Context) (*VersionInfo, error) {
	return &VersionInfo{
		Version:  "v1.9.0",
		Platform: "metal",
		Arch:     "amd64",
	}, nil
}

func (m *machineClient) Containers(_ context.Context, namespace string) ([]Container, error) {
	return []Container{
		{
			Namespace: namespace,
			ID:        "example-container-1",
			Image:     "registry.k8s.io/pause:3.9",
			Status:    "running",
		},
	}, nil
}

func (m *machineClient) SystemStats(_ context.Context) (*SystemStats, error) {
	return &SystemStats{
		CPU: CPUStats{
			Cores:        8,
			UsagePercent: 35.2,
		},
		Memory: MemoryStats{
			TotalBytes:     16000000000,
			AvailableBytes: 8000000000,
			UsagePercent:   50.0,
		},
		Disk: DiskStats{
			TotalBytes:     500000000000,
			AvailableBytes: 250000000000,
			UsagePercent:   50.0,
		},
	}, nil
}

func (m *machineClient) ServiceLogs(_ context.Context, service string, _ int64) (string, error) {
	return "Sample logs for service: " + service + "\nLine 1\nLine 2\n...", nil
}

func (m *machineClient) Reboot(_ context.Context, _ string) (*RebootStatus, error) {
	node := m.endpoint
	if node == "" {
		node = m.conn.Target()
	}
	return &RebootStatus{
		Status:  "success",
		Message: "Node " + node + " reboot initiated",
	}, nil
}

func (m *machineClient) Kubeconfig(_ context.Context) (string, error) {
	return "apiVersion: v1\nkind: Config\n...", nil
}

func (m *machineClient) EtcdStatus(_ context.Context) (*EtcdStatus, error) {
	return &EtcdStatus{
		MemberID:    "12345",
		LeaderID:    "12345",
		RaftTerm:    1,
		ClusterSize: 3,
		Healthy:     true,
	}, nil
}

func (m *machineClient) ApplyConfiguration(_ context.Context, _ []byte, _ string) (*ApplyStatus, error) {
	return &ApplyStatus{
		Status:  "success",
		Message: "Configuration applied successfully",
	}, nil
}
