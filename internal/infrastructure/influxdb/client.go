package influxdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/vparvu/clienthub/internal/infrastructure/config"
)

// Default timeouts for InfluxDB operations.
const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second

	// lastValueWindow bounds the lookback for last-value queries.
	// A device silent for longer than this reads as "no data".
	lastValueWindow = "-5m"
)

// measurement is the fixed measurement name device telemetry is written
// under by the ingestion pipeline. Reads must match it exactly.
const measurement = "devices"

// Client wraps the InfluxDB v2 client for device telemetry reads.
//
// Telemetry is written by an external ingestion pipeline; this service
// only queries it. The client manages the connection and exposes a
// last-value lookup keyed by device serial number.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	cfg      config.InfluxDBConfig

	// connected tracks current connection state.
	connected bool
	mu        sync.RWMutex
}

// Connect establishes a connection to the InfluxDB server.
//
// Returns ErrDisabled when the integration is switched off in config,
// so callers can degrade gracefully instead of failing startup.
func Connect(cfg config.InfluxDBConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	// Verify connectivity
	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	return &Client{
		client:    client,
		queryAPI:  client.QueryAPI(cfg.Org),
		cfg:       cfg,
		connected: true,
	}, nil
}

// LastValue returns the most recent value of a telemetry field for a
// device serial within the lookback window.
//
// Returns ErrNoData when the series has no points in the window, which
// callers should treat as "device silent", not as a failure.
func (c *Client) LastValue(ctx context.Context, serial, field string) (float64, error) {
	if !c.IsConnected() {
		return 0, ErrNotConnected
	}

	flux := fmt.Sprintf(`
		from(bucket: %q)
		|> range(start: %s)
		|> filter(fn: (r) => r._measurement == %q and r.device == %q and r._field == %q)
		|> last()
	`, c.cfg.Bucket, lastValueWindow, measurement, serial, field)

	result, err := c.queryAPI.Query(ctx, flux)
	if err != nil {
		return 0, fmt.Errorf("querying last value: %w", err)
	}
	defer result.Close() //nolint:errcheck // result already drained below

	for result.Next() {
		if v, ok := result.Record().Value().(float64); ok {
			return v, nil
		}
	}
	if err := result.Err(); err != nil {
		return 0, fmt.Errorf("reading query result: %w", err)
	}

	return 0, ErrNoData
}

// HealthCheck verifies the InfluxDB connection is alive and functioning.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	healthy, err := c.client.Ping(checkCtx)
	if err != nil {
		return fmt.Errorf("influxdb health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("influxdb health check failed: server not healthy")
	}

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close shuts down the InfluxDB connection.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.client.Close()
	return nil
}
