package agent

import (
	"bufio"
	"net"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Host sampling reads /proc directly; it only needs the two numbers
// the heartbeat carries.

// memoryMB returns (totalMB, usedMB) from /proc/meminfo. Zeroes on
// platforms without it.
func memoryMB() (int64, int64) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	var totalKB, availKB int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = v
		case "MemAvailable:":
			availKB = v
		}
	}
	if totalKB == 0 {
		return 0, 0
	}
	return totalKB / 1024, (totalKB - availKB) / 1024
}

// cpuPercent approximates utilization as 1-minute load over core
// count. Good enough for fleet dashboards; not a scheduler input.
func cpuPercent() float64 {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	pct := load / float64(runtime.NumCPU()) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// localIP returns the host's outbound IPv4 address. The UDP dial never
// sends a packet; it only resolves the route.
func localIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return ""
}
