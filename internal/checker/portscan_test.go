package checker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"reflect"
	"strconv"
	"syscall"
	"testing"
	"time"

	sharedErrors "github.com/khanhnv2901/cybertools/internal/shared/errors"
)

type fakeDialer struct {
	open      map[int]bool
	failWith  error
	attempted []int
}

func (d *fakeDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	_, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, _ := strconv.Atoi(portStr)
	d.attempted = append(d.attempted, port)

	if d.failWith != nil {
		return nil, d.failWith
	}
	if d.open[port] {
		client, server := net.Pipe()
		server.Close()
		return client, nil
	}
	return nil, &net.OpError{Op: "dial", Net: network, Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}
}

type fakeResolver struct {
	addrs []string
	err   error
}

func (r *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return r.addrs, r.err
}

func TestGetServiceName(t *testing.T) {
	tests := []struct {
		port int
		want string
	}{
		{80, "http"},
		{443, "https"},
		{22, "ssh"},
		{3306, "mysql"},
		{5432, "postgresql"},
		{6379, "redis"},
		{27017, "mongodb"},
		{9999, "unknown"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("port_%d", tt.port), func(t *testing.T) {
			if got := getServiceName(tt.port); got != tt.want {
				t.Errorf("getServiceName(%d) = %v, want %v", tt.port, got, tt.want)
			}
		})
	}
}

func TestNormalizePortRange(t *testing.T) {
	tests := []struct {
		start, end         int
		wantStart, wantEnd int
		wantErr            bool
	}{
		{20, 80, 20, 80, false},
		{80, 20, 20, 80, false},
		{443, 443, 443, 443, false},
		{0, 10, 0, 0, true},
		{1, 65536, 0, 0, true},
		{-5, 10, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%d", tt.start, tt.end), func(t *testing.T) {
			start, end, err := NormalizePortRange(tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, sharedErrors.ErrInvalidPortRange) {
					t.Fatalf("expected ErrInvalidPortRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("NormalizePortRange(%d, %d) = %d, %d", tt.start, tt.end, start, end)
			}
		})
	}
}

func TestScanReversedRangeMatchesForward(t *testing.T) {
	open := map[int]bool{22: true, 53: true, 80: true}

	forwardDialer := &fakeDialer{open: open}
	forward := &PortScanner{Timeout: time.Second, Dialer: forwardDialer, Resolver: &fakeResolver{addrs: []string{"10.0.0.5"}}}
	forwardResult, err := forward.Scan(context.Background(), "scanme.test", 20, 80)
	if err != nil {
		t.Fatalf("forward scan returned error: %v", err)
	}

	reverseDialer := &fakeDialer{open: open}
	reverse := &PortScanner{Timeout: time.Second, Dialer: reverseDialer, Resolver: &fakeResolver{addrs: []string{"10.0.0.5"}}}
	reverseResult, err := reverse.Scan(context.Background(), "scanme.test", 80, 20)
	if err != nil {
		t.Fatalf("reverse scan returned error: %v", err)
	}

	if !reflect.DeepEqual(forwardDialer.attempted, reverseDialer.attempted) {
		t.Fatalf("reversed range attempted different ports")
	}
	if !reflect.DeepEqual(forwardResult.OpenPorts, reverseResult.OpenPorts) {
		t.Errorf("open ports differ: %v vs %v", forwardResult.OpenPorts, reverseResult.OpenPorts)
	}
	if reverseResult.StartPort != 20 || reverseResult.EndPort != 80 || reverseResult.ScannedPorts != 61 {
		t.Errorf("unexpected range bookkeeping: %+v", reverseResult)
	}
	if len(forwardResult.OpenPorts) != 3 || forwardResult.OpenPorts[2].Service != "http" {
		t.Errorf("unexpected open ports: %+v", forwardResult.OpenPorts)
	}
}

func TestScanHostUnresolvable(t *testing.T) {
	dialer := &fakeDialer{}
	scanner := &PortScanner{Dialer: dialer, Resolver: &fakeResolver{err: errors.New("no such host")}}

	_, err := scanner.Scan(context.Background(), "nowhere.invalid", 1, 100)
	if !errors.Is(err, sharedErrors.ErrHostUnresolvable) {
		t.Fatalf("expected ErrHostUnresolvable, got %v", err)
	}
	if len(dialer.attempted) != 0 {
		t.Errorf("no ports should be dialed after resolution failure, got %d", len(dialer.attempted))
	}
}

func TestScanHostUnreachableReportedOnce(t *testing.T) {
	unreachable := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.EHOSTUNREACH)}
	dialer := &fakeDialer{failWith: unreachable}
	scanner := &PortScanner{Dialer: dialer}

	result, err := scanner.Scan(context.Background(), "10.255.255.1", 1, 1000)
	if !errors.Is(err, sharedErrors.ErrHostUnreachable) {
		t.Fatalf("expected ErrHostUnreachable, got %v", err)
	}
	if len(dialer.attempted) != 1 || result.ScannedPorts != 1 {
		t.Errorf("scan should stop after the first unreachable error, attempted %d", len(dialer.attempted))
	}
}

func TestScanRejectsEmptyHost(t *testing.T) {
	if _, err := NewPortScanner().Scan(context.Background(), "", 1, 2); !errors.Is(err, sharedErrors.ErrEmptyHost) {
		t.Fatalf("expected ErrEmptyHost, got %v", err)
	}
}

func TestScanStopsOnCancelledContext(t *testing.T) {
	dialer := &fakeDialer{}
	scanner := &PortScanner{Dialer: dialer}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := scanner.Scan(ctx, "127.0.0.1", 1, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(dialer.attempted) != 0 {
		t.Errorf("expected no dial attempts, got %d", len(dialer.attempted))
	}
}

func TestScanRateLimited(t *testing.T) {
	dialer := &fakeDialer{}
	scanner := &PortScanner{Dialer: dialer, RateLimit: 50}

	start := time.Now()
	result, err := scanner.Scan(context.Background(), "127.0.0.1", 1, 6)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if result.ScannedPorts != 6 {
		t.Fatalf("expected 6 scanned ports, got %d", result.ScannedPorts)
	}
	// burst of one then 50/s: five waits of ~20ms each
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("rate limiter did not pace attempts, elapsed %v", elapsed)
	}
}

func TestScanLocalListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	var reported []PortInfo
	scanner := NewPortScanner()
	scanner.OnOpen = func(p PortInfo) { reported = append(reported, p) }

	result, err := scanner.Scan(context.Background(), "127.0.0.1", port, port)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(result.OpenPorts) != 1 || result.OpenPorts[0].Port != port {
		t.Fatalf("expected port %d open, got %+v", port, result.OpenPorts)
	}
	if len(reported) != 1 {
		t.Errorf("OnOpen should fire once, fired %d times", len(reported))
	}
}

func TestScanClosedLocalPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	result, err := NewPortScanner().Scan(context.Background(), "127.0.0.1", port, port)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(result.OpenPorts) != 0 {
		t.Errorf("expected no open ports, got %+v", result.OpenPorts)
	}
}
