// Package sysinfo collects a machine fingerprint (hardware identifiers plus
// coarse geolocation) and normalizes it into a canonical, comparable form.
// The fingerprint acts as an implicit second authentication factor: a login
// is only trusted from a machine whose fingerprint appears in the recorded
// history.
package sysinfo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/bastionlabs/adminauth/pkg/slogx"
)

const (
	// UnknownSerial is the placeholder for hardware identifiers that could
	// not be read.
	UnknownSerial = "Unknown"

	defaultGeoURL  = "https://ipinfo.io/json"
	boardSerialSys = "/sys/class/dmi/id/board_serial"
	geoTimeout     = 5 * time.Second
)

// Drive identifies one fixed disk by model name and serial number.
type Drive struct {
	Model  string `json:"model"`
	Serial string `json:"serial"`
}

// Fingerprint is one snapshot of the machine's identifying signals.
type Fingerprint struct {
	MACAddresses      []string `json:"mac_addresses"`
	Drives            []Drive  `json:"drives"`
	MotherboardSerial string   `json:"motherboard_serial"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
}

// Collector gathers fingerprints from the host. Every signal source is
// best-effort: a failed source degrades to an empty or Unknown value
// instead of failing the whole collection.
type Collector struct {
	// GeoURL overrides the geolocation endpoint. Defaults to ipinfo.io.
	GeoURL string
	// HTTPClient overrides the client used for geolocation lookups.
	HTTPClient *http.Client
	// BoardSerialPath overrides the sysfs path for the motherboard serial.
	BoardSerialPath string
}

// Collect gathers the current machine fingerprint. It never returns an
// error; individual signal failures are logged and degraded.
func (c *Collector) Collect(ctx context.Context) Fingerprint {
	log := slogx.FromContext(ctx)

	fp := Fingerprint{
		MACAddresses:      collectMACs(log),
		Drives:            collectDrives(ctx, log),
		MotherboardSerial: c.collectBoardSerial(log),
	}
	fp.Latitude, fp.Longitude = c.collectLocation(ctx, log)
	return fp
}

func collectMACs(log *slog.Logger) []string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("fingerprint: interface scan failed", "err", err)
		return nil
	}

	seen := make(map[string]struct{})
	macs := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		mac := iface.HardwareAddr.String()
		if mac == "" {
			continue
		}
		mac = strings.ToUpper(mac)
		if _, ok := seen[mac]; ok {
			continue
		}
		seen[mac] = struct{}{}
		macs = append(macs, mac)
	}
	return macs
}

func collectDrives(ctx context.Context, log *slog.Logger) []Drive {
	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		log.Warn("fingerprint: drive scan failed", "err", err)
		return nil
	}

	drives := make([]Drive, 0, len(counters))
	for name, stat := range counters {
		if stat.SerialNumber == "" {
			continue
		}
		drives = append(drives, Drive{Model: name, Serial: stat.SerialNumber})
	}
	return drives
}

func (c *Collector) collectBoardSerial(log *slog.Logger) string {
	path := c.BoardSerialPath
	if path == "" {
		path = boardSerialSys
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("fingerprint: motherboard serial unavailable", "err", err)
		return UnknownSerial
	}
	serial := strings.TrimSpace(string(raw))
	if serial == "" {
		return UnknownSerial
	}
	return serial
}

// collectLocation resolves coarse latitude/longitude from the configured
// geolocation endpoint. Failures degrade to (0, 0).
func (c *Collector) collectLocation(ctx context.Context, log *slog.Logger) (float64, float64) {
	url := c.GeoURL
	if url == "" {
		url = defaultGeoURL
	}
	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: geoTimeout}
	}

	ctx, cancel := context.WithTimeout(ctx, geoTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Warn("fingerprint: geolocation request build failed", "err", err)
		return 0, 0
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("fingerprint: geolocation lookup failed", "err", err)
		return 0, 0
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn("fingerprint: geolocation lookup failed", "status", resp.StatusCode)
		return 0, 0
	}

	var body struct {
		Loc string `json:"loc"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Warn("fingerprint: geolocation response invalid", "err", err)
		return 0, 0
	}

	lat, lon, ok := parseLoc(body.Loc)
	if !ok {
		log.Warn("fingerprint: geolocation response invalid", "loc", body.Loc)
		return 0, 0
	}
	return lat, lon
}

// parseLoc parses the "lat,lon" string returned by ipinfo.
func parseLoc(loc string) (float64, float64, bool) {
	parts := strings.Split(loc, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
