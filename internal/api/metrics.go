package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vparvu/clienthub/internal/device"
	"github.com/vparvu/clienthub/internal/infrastructure/influxdb"
)

// metricResponse is the response body for GET /metrics/{serial}/{field}.
type metricResponse struct {
	Serial    string    `json:"serial_number"`
	Field     string    `json:"field"`
	Value     float64   `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
}

// handleDeviceMetric returns the most recent telemetry value for one of
// the caller's devices. The device lookup runs through the caller's
// scope first, so telemetry for another owner's serial reads as a 404
// before InfluxDB is ever queried.
func (s *Server) handleDeviceMetric(w http.ResponseWriter, r *http.Request) {
	_, scope, ok := s.callerScope(w, r)
	if !ok {
		return
	}

	serial := chi.URLParam(r, "serial")
	field := chi.URLParam(r, "field")

	dev, err := s.devices.GetBySerial(r.Context(), serial, scope)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			writeNotFound(w, "device not found")
			return
		}
		s.logger.Error("getting device failed", "error", err)
		writeInternalError(w, "failed to get device")
		return
	}

	if s.influx == nil {
		writeServiceUnavailable(w, "telemetry reads are disabled")
		return
	}

	value, err := s.influx.LastValue(r.Context(), dev.SerialNumber, field)
	if err != nil {
		switch {
		case errors.Is(err, influxdb.ErrNoData):
			writeNotFound(w, "no recent data for this field")
		case errors.Is(err, influxdb.ErrNotConnected):
			writeServiceUnavailable(w, "telemetry store unavailable")
		default:
			s.logger.Error("querying telemetry failed", "error", err, "serial", serial, "field", field)
			writeInternalError(w, "failed to query telemetry")
		}
		return
	}

	writeJSON(w, http.StatusOK, metricResponse{
		Serial:    dev.SerialNumber,
		Field:     field,
		Value:     value,
		FetchedAt: time.Now().UTC(),
	})
}
