// Package influxdb provides read access to device telemetry stored in
// InfluxDB v2.
//
// Telemetry arrives via an external ingestion pipeline that writes
// points to the "devices" measurement, tagged with the device serial
// number. This package only queries that data; it never writes.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // ErrDisabled means the feature is off, not broken
//	}
//	defer client.Close()
//
//	watts, err := client.LastValue(ctx, "shellyem-A1B2C3", "power")
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
package influxdb
