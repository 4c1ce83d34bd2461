package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/khanhnv2901/cybertools/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

const (
	minPort = 1
	maxPort = 65535
)

// PortInfo contains information about an open port
type PortInfo struct {
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
	State    string `json:"state"`
	Service  string `json:"service"`
}

// ScanResult summarizes a port range scan
type ScanResult struct {
	Host         string        `json:"host"`
	Address      string        `json:"address"`
	StartPort    int           `json:"start_port"`
	EndPort      int           `json:"end_port"`
	OpenPorts    []PortInfo    `json:"open_ports"`
	ScannedPorts int           `json:"scanned_ports"`
	Duration     time.Duration `json:"duration"`
}

// Dialer opens TCP connections; *net.Dialer satisfies it
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Resolver maps a hostname to addresses; *net.Resolver satisfies it
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// PortScanner connects to each port of a range in turn
type PortScanner struct {
	Timeout   time.Duration // Per-port connect timeout
	RateLimit int           // Connect attempts per second, 0 for unlimited
	Dialer    Dialer
	Resolver  Resolver
	OnOpen    func(PortInfo) // Called as soon as an open port is found
}

// NewPortScanner creates a scanner with the default one second connect timeout
func NewPortScanner() *PortScanner {
	return &PortScanner{Timeout: constants.DefaultScanTimeout}
}

// NormalizePortRange swaps a reversed range and validates both bounds
func NormalizePortRange(start, end int) (int, int, error) {
	if start > end {
		start, end = end, start
	}
	if start < minPort || end > maxPort {
		return 0, 0, fmt.Errorf("%w: %d-%d (ports must be within %d-%d)", sharedErrors.ErrInvalidPortRange, start, end, minPort, maxPort)
	}
	return start, end, nil
}

// Scan attempts a TCP connect to every port in [start, end], one at a time.
// Resolution failures and unreachable hosts end the scan with a single error;
// refused or timed out connects simply mean the port is not open.
func (s *PortScanner) Scan(ctx context.Context, host string, start, end int) (*ScanResult, error) {
	if host == "" {
		return nil, sharedErrors.ErrEmptyHost
	}

	start, end, err := NormalizePortRange(start, end)
	if err != nil {
		return nil, err
	}

	address, err := s.resolve(ctx, host)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{
		Host:      host,
		Address:   address,
		StartPort: start,
		EndPort:   end,
		OpenPorts: []PortInfo{},
	}

	var limiter *rate.Limiter
	if s.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.RateLimit), 1)
	}

	began := time.Now()
	defer func() { result.Duration = time.Since(began) }()

	for port := start; port <= end; port++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		open, err := s.checkPort(ctx, address, port)
		result.ScannedPorts++
		if err != nil {
			return result, fmt.Errorf("%w: %s: %v", sharedErrors.ErrHostUnreachable, host, err)
		}
		if open == nil {
			continue
		}

		result.OpenPorts = append(result.OpenPorts, *open)
		if s.OnOpen != nil {
			s.OnOpen(*open)
		}
	}

	return result, nil
}

func (s *PortScanner) resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		return ip.String(), nil
	}

	resolver := s.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	addrs, err := resolver.LookupHost(ctx, host)
	if err != nil || len(addrs) == 0 {
		if err == nil {
			err = errors.New("no addresses returned")
		}
		return "", fmt.Errorf("%w: %s: %v", sharedErrors.ErrHostUnresolvable, host, err)
	}

	// Prefer IPv4 the way a plain AF_INET socket would.
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr, nil
		}
	}
	return addrs[0], nil
}

// checkPort returns nil, nil for a closed or filtered port. An error means the
// host itself cannot be reached and further ports are pointless.
func (s *PortScanner) checkPort(ctx context.Context, address string, port int) (*PortInfo, error) {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultScanTimeout
	}

	dialer := s.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		if isUnreachable(err) {
			return nil, err
		}
		return nil, nil
	}
	conn.Close()

	return &PortInfo{
		Port:     port,
		Protocol: "tcp",
		State:    "open",
		Service:  getServiceName(port),
	}, nil
}

func isUnreachable(err error) bool {
	return errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH)
}

// getServiceName returns common service name for a port
func getServiceName(port int) string {
	services := map[int]string{
		21:    "ftp",
		22:    "ssh",
		23:    "telnet",
		25:    "smtp",
		53:    "dns",
		80:    "http",
		110:   "pop3",
		143:   "imap",
		443:   "https",
		445:   "smb",
		3306:  "mysql",
		3389:  "rdp",
		5432:  "postgresql",
		5900:  "vnc",
		6379:  "redis",
		8080:  "http-alt",
		8443:  "https-alt",
		27017: "mongodb",
	}

	if service, ok := services[port]; ok {
		return service
	}
	return "unknown"
}
