package cmd

import (
	"net"
	"strconv"
	"strings"
	"testing"
)

func TestScanCommandFindsOpenPort(t *testing.T) {
	setupTestEnv(t)

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

	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	out, err := executeCommand(t, nil, "scan", "--host", "127.0.0.1", "--start", port, "--end", port)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if !strings.Contains(out, "Port "+port+" open") {
		t.Fatalf("expected open port in output:\n%s", out)
	}
	if !strings.Contains(out, "1 open of 1 scanned") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestScanCommandSwapsReversedRange(t *testing.T) {
	setupTestEnv(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	start := strconv.Itoa(port)
	end := strconv.Itoa(port - 1)
	out, err := executeCommand(t, nil, "scan", "--host", "127.0.0.1", "--start", start, "--end", end)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	want := "from port " + end + " to " + start
	if !strings.Contains(out, want) {
		t.Fatalf("expected normalized range %q:\n%s", want, out)
	}
}

func TestScanCommandUnresolvableHost(t *testing.T) {
	setupTestEnv(t)

	out, err := executeCommand(t, nil, "scan", "--host", "does-not-exist.invalid", "--start", "80", "--end", "81")
	if err != nil {
		t.Fatalf("resolution failure should be reported, not returned: %v", err)
	}
	if strings.Count(out, "hostname could not be resolved") != 1 {
		t.Fatalf("expected a single resolution error:\n%s", out)
	}
}

func TestScanCommandInvalidRange(t *testing.T) {
	setupTestEnv(t)

	if _, err := executeCommand(t, nil, "scan", "--host", "127.0.0.1", "--start", "0", "--end", "70000"); err == nil {
		t.Fatal("expected invalid range error")
	}
}

func TestScanCommandRequiresEnd(t *testing.T) {
	setupTestEnv(t)

	if _, err := executeCommand(t, nil, "scan", "--host", "127.0.0.1"); err == nil {
		t.Fatal("expected error when --end is missing")
	}
}
